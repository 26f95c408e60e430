package quiz

// noSelection marks an unanswered question.
const noSelection = -1

// AnswerStore is the read/write contract a question slide exposes to the
// navigation and finalization engines.
type AnswerStore interface {
	IsAnswered() bool
	Selection() (int, bool)
	Finalize() error
	FinalizeAs(option int) error
	IsFinalized() bool
}

// QuestionState is the mutable answer state owned by one question slide.
type QuestionState struct {
	optionCount int
	answerIndex int
	selected    int
	finalized   bool
}

var _ AnswerStore = (*QuestionState)(nil)

// NewQuestionState creates an unanswered question state.
func NewQuestionState(optionCount, answerIndex int) *QuestionState {
	return &QuestionState{
		optionCount: optionCount,
		answerIndex: answerIndex,
		selected:    noSelection,
	}
}

// OptionCount returns the number of options.
func (q *QuestionState) OptionCount() int { return q.optionCount }

// AnswerIndex returns the configured correct option.
func (q *QuestionState) AnswerIndex() int { return q.answerIndex }

// IsAnswered reports whether an option is selected.
func (q *QuestionState) IsAnswered() bool { return q.selected != noSelection }

// Selection returns the selected option, if any.
func (q *QuestionState) Selection() (int, bool) {
	if q.selected == noSelection {
		return 0, false
	}
	return q.selected, true
}

// Select changes the selected option. Finalized questions reject changes.
func (q *QuestionState) Select(option int) error {
	if q.finalized {
		return ErrAlreadyFinalized
	}
	if option < 0 || option >= q.optionCount {
		return &IndexError{What: "option", Index: option, Len: q.optionCount}
	}
	q.selected = option
	return nil
}

// Finalize locks the question with its current selection.
func (q *QuestionState) Finalize() error {
	if q.selected == noSelection {
		return ErrNoAnswer
	}
	q.finalized = true
	return nil
}

// FinalizeAs marks option as selected and locks the question. It is used when
// restoring finalized answers, so it overrides a previous lock with the same
// or a different option.
func (q *QuestionState) FinalizeAs(option int) error {
	if option < 0 || option >= q.optionCount {
		return &IndexError{What: "option", Index: option, Len: q.optionCount}
	}
	q.selected = option
	q.finalized = true
	return nil
}

// IsFinalized reports whether the question is locked.
func (q *QuestionState) IsFinalized() bool { return q.finalized }

// IsCorrect reports whether the current selection matches the answer.
func (q *QuestionState) IsCorrect() bool {
	return q.selected != noSelection && q.selected == q.answerIndex
}

// ResultState is owned by the result slide.
type ResultState struct {
	finalized    bool
	correctCount int
}

// IsFinalized reports whether the quiz was submitted.
func (r *ResultState) IsFinalized() bool { return r.finalized }

// CorrectCount returns the number of correct answers once finalized.
func (r *ResultState) CorrectCount() (int, bool) {
	if !r.finalized {
		return 0, false
	}
	return r.correctCount, true
}

// Finalize records the score. Only the first call has an effect.
func (r *ResultState) Finalize(correctCount int) {
	if r.finalized {
		return
	}
	r.correctCount = correctCount
	r.finalized = true
}

// Instance is the live state of one slide. Question is set for question
// slides, Result for the result slide; code samples carry neither.
type Instance struct {
	Type     ElementType
	Question *QuestionState
	Result   *ResultState
}

// NewInstances builds one instance per slide, the result included.
func NewInstances(elements []Element) []Instance {
	slides := Slides(elements)
	instances := make([]Instance, len(slides))
	for i, e := range slides {
		switch e.Type {
		case TypeQuestion:
			instances[i] = Instance{Type: e.Type, Question: NewQuestionState(len(e.Options), e.AnswerIndex)}
		case TypeResult:
			instances[i] = Instance{Type: e.Type, Result: &ResultState{}}
		case TypeCodeSample:
			instances[i] = Instance{Type: e.Type}
		default:
			panic("quiz: unknown element type " + string(e.Type))
		}
	}
	return instances
}

// resultOf returns the result slide's state. The result is always last.
func resultOf(instances []Instance) *ResultState {
	if len(instances) == 0 {
		return nil
	}
	return instances[len(instances)-1].Result
}
