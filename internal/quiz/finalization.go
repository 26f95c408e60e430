package quiz

import (
	"context"
	"fmt"
	"math"
)

// FinalizedElement is a configured element together with the answer it was
// finalized with. Selected is -1 for code samples.
type FinalizedElement struct {
	Element
	Selected int
}

// IsCorrect reports whether a finalized question was answered correctly.
func (f FinalizedElement) IsCorrect() bool {
	return f.Type == TypeQuestion && f.Selected == f.AnswerIndex
}

// Record converts the element to its stored form.
func (f FinalizedElement) Record() Record {
	switch f.Type {
	case TypeQuestion:
		return Record{Type: TypeQuestion, OptionCount: len(f.Options), AnswerIndex: f.AnswerIndex, Selected: f.Selected}
	case TypeCodeSample:
		return Record{Type: TypeCodeSample, Language: f.Language}
	default:
		panic("quiz: cannot store element type " + string(f.Type))
	}
}

// Records converts finalized elements to their stored form.
func Records(finalized []FinalizedElement) []Record {
	records := make([]Record, len(finalized))
	for i, f := range finalized {
		records[i] = f.Record()
	}
	return records
}

// AvailableFinalizedElements resolves the finalized answer set, in order of
// precedence: answers embedded in a quiz constructed as finalized, a valid
// stored session, then live selections. It returns nil when no source is
// complete yet.
func AvailableFinalizedElements(ctx context.Context, elements []Element, instances []Instance, previouslyFinalized bool, storage *SessionStorage) ([]FinalizedElement, error) {
	if previouslyFinalized {
		return embeddedFinalized(elements)
	}

	if storage != nil {
		if records := storage.Load(ctx, elements); records != nil {
			finalized := make([]FinalizedElement, len(elements))
			for i, e := range elements {
				finalized[i] = FinalizedElement{Element: e, Selected: noSelection}
				if e.Type == TypeQuestion {
					finalized[i].Selected = records[i].Selected
				}
			}
			return finalized, nil
		}
	}

	return liveFinalized(elements, instances), nil
}

func embeddedFinalized(elements []Element) ([]FinalizedElement, error) {
	finalized := make([]FinalizedElement, len(elements))
	for i, e := range elements {
		finalized[i] = FinalizedElement{Element: e, Selected: noSelection}
		if e.Type != TypeQuestion {
			continue
		}
		if e.FinalAnswer == nil {
			return nil, &InvalidFinalizedDataError{Index: i, Err: ErrNoAnswer}
		}
		if *e.FinalAnswer < 0 || *e.FinalAnswer >= len(e.Options) {
			return nil, &InvalidFinalizedDataError{
				Index: i,
				Err:   &IndexError{What: "option", Index: *e.FinalAnswer, Len: len(e.Options)},
			}
		}
		finalized[i].Selected = *e.FinalAnswer
	}
	return finalized, nil
}

func liveFinalized(elements []Element, instances []Instance) []FinalizedElement {
	finalized := make([]FinalizedElement, len(elements))
	for i, e := range elements {
		finalized[i] = FinalizedElement{Element: e, Selected: noSelection}
		if e.Type != TypeQuestion {
			continue
		}
		selected, ok := instances[i].Question.Selection()
		if !ok {
			return nil
		}
		finalized[i].Selected = selected
	}
	return finalized
}

// FinalizeQuiz locks every question with its finalized answer and scores the
// result. Calling it again re-applies the same answers.
func FinalizeQuiz(finalized []FinalizedElement, instances []Instance) error {
	for i, inst := range instances {
		switch inst.Type {
		case TypeResult:
			correct := 0
			for _, other := range instances {
				if other.Type == TypeQuestion && other.Question.IsCorrect() {
					correct++
				}
			}
			inst.Result.Finalize(correct)
		case TypeQuestion:
			if i >= len(finalized) {
				return &IndexError{What: "finalized element", Index: i, Len: len(finalized)}
			}
			if err := inst.Question.FinalizeAs(finalized[i].Selected); err != nil {
				return fmt.Errorf("finalize question %d: %w", i, err)
			}
		case TypeCodeSample:
		default:
			panic("quiz: unknown element type " + string(inst.Type))
		}
	}
	return nil
}

// Summary is the scored outcome handed to the host on submission.
type Summary struct {
	CodeSamplesCount int                `json:"codeSamplesCount"`
	QuestionsCount   int                `json:"questionsCount"`
	CorrectAnswers   int                `json:"correctAnswers"`
	IncorrectAnswers int                `json:"incorrectAnswers"`
	PercentScored    float64            `json:"percentScored"`
	ElementsCount    int                `json:"elementsCount"`
	Elements         []FinalizedElement `json:"elements"`
}

// Summarize scores a finalized element set.
func Summarize(finalized []FinalizedElement) (Summary, error) {
	s := Summary{
		ElementsCount: len(finalized),
		Elements:      finalized,
	}
	for _, f := range finalized {
		switch f.Type {
		case TypeCodeSample:
			s.CodeSamplesCount++
		case TypeQuestion:
			s.QuestionsCount++
			if f.IsCorrect() {
				s.CorrectAnswers++
			}
		case TypeResult:
		default:
			panic("quiz: unknown element type " + string(f.Type))
		}
	}
	if s.QuestionsCount == 0 {
		return Summary{}, ErrNoQuestions
	}
	s.IncorrectAnswers = s.QuestionsCount - s.CorrectAnswers
	s.PercentScored = round2(float64(s.CorrectAnswers) / float64(s.QuestionsCount) * 100)
	return s, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
