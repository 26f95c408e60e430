package quiz

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/cucumber/godog"
)

// TestNavigationFeatures runs the navigation scenarios via godog.
func TestNavigationFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "navigation",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features", "navigation.feature")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

func initializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a quiz with questions:$`, state.givenQuestions)
	ctx.Step(`^the selection mode is "([^"]+)"$`, state.givenMode)
	ctx.Step(`^the stored session "([^"]*)"$`, state.givenStoredSession)
	ctx.Step(`^I select option (\d+) on slide (\d+)$`, state.selectOption)
	ctx.Step(`^I submit the quiz$`, state.submit)
	ctx.Step(`^next from slide (\d+) is slide (\d+)$`, state.nextIs)
	ctx.Step(`^next from slide (\d+) is blocked$`, state.nextBlocked)
	ctx.Step(`^submission is enabled$`, state.submissionEnabled)
	ctx.Step(`^submission is disabled$`, state.submissionDisabled)
	ctx.Step(`^the summary reports (\d+) of (\d+) correct at ([\d.]+) percent$`, state.summaryReports)
	ctx.Step(`^the stored session is "([^"]*)"$`, state.storedSessionIs)
	ctx.Step(`^no session is stored$`, state.noSessionStored)
	ctx.Step(`^the shown slide is the result$`, state.shownIsResult)
	ctx.Step(`^the quiz is finalized$`, state.isFinalized)
	ctx.Step(`^the quiz is not finalized$`, state.isNotFinalized)
}

// featureState holds one scenario's quiz. The widget is built on first use
// so Given steps can finish configuring it.
type featureState struct {
	elements []Element
	mode     SelectionMode
	kv       *memKV
	widget   *Widget
}

const featureKey = "Quiz::id=feature::pname=*"

func (s *featureState) reset() {
	*s = featureState{kv: newMemKV()}
}

func (s *featureState) quiz() (*Widget, error) {
	if s.widget != nil {
		return s.widget, nil
	}
	w, err := New(context.Background(), Config{
		ID:       "feature",
		Elements: s.elements,
		Mode:     s.mode,
		Autosave: AutosaveConfig{Enabled: true},
	}, WithStore(s.kv))
	if err != nil {
		return nil, err
	}
	s.widget = w
	return w, nil
}

func (s *featureState) givenQuestions(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		options, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return err
		}
		ans, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		s.elements = append(s.elements, question(options, ans))
	}
	return nil
}

func (s *featureState) givenMode(mode string) error {
	m, err := ParseSelectionMode(mode)
	if err != nil {
		return err
	}
	s.mode = m
	return nil
}

func (s *featureState) givenStoredSession(stored string) error {
	s.kv.data[featureKey] = stored
	return nil
}

func (s *featureState) selectOption(option, slide int) error {
	w, err := s.quiz()
	if err != nil {
		return err
	}
	return w.Instances()[slide].Question.Select(option)
}

func (s *featureState) submit() error {
	w, err := s.quiz()
	if err != nil {
		return err
	}
	return w.Submit(context.Background())
}

func (s *featureState) allowedNext(slide int) (*int, error) {
	w, err := s.quiz()
	if err != nil {
		return nil, err
	}
	data, _, err := ComputeSlideData(w.Instances(), slide, w.Mode())
	if err != nil {
		return nil, err
	}
	return data.AllowedNext, nil
}

func (s *featureState) nextIs(from, to int) error {
	next, err := s.allowedNext(from)
	if err != nil {
		return err
	}
	if next == nil || *next != to {
		return fmt.Errorf("expected next from %d to be %d, got %v", from, to, next)
	}
	return nil
}

func (s *featureState) nextBlocked(from int) error {
	next, err := s.allowedNext(from)
	if err != nil {
		return err
	}
	if next != nil {
		return fmt.Errorf("expected next from %d to be blocked, got %d", from, *next)
	}
	return nil
}

func (s *featureState) canSubmit() (bool, error) {
	w, err := s.quiz()
	if err != nil {
		return false, err
	}
	_, data := w.Snapshot()
	return CanSubmit(data), nil
}

func (s *featureState) submissionEnabled() error {
	ok, err := s.canSubmit()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected submission to be enabled")
	}
	return nil
}

func (s *featureState) submissionDisabled() error {
	ok, err := s.canSubmit()
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected submission to be disabled")
	}
	return nil
}

func (s *featureState) summaryReports(correct, total int, percent float64) error {
	w, err := s.quiz()
	if err != nil {
		return err
	}
	summary, ok := w.Summary()
	if !ok {
		return fmt.Errorf("quiz has no summary")
	}
	if summary.CorrectAnswers != correct || summary.QuestionsCount != total || summary.PercentScored != percent {
		return fmt.Errorf("expected %d/%d at %.2f%%, got %d/%d at %.2f%%",
			correct, total, percent, summary.CorrectAnswers, summary.QuestionsCount, summary.PercentScored)
	}
	return nil
}

func (s *featureState) storedSessionIs(want string) error {
	if got := s.kv.data[featureKey]; got != want {
		return fmt.Errorf("expected stored session %q, got %q", want, got)
	}
	return nil
}

func (s *featureState) noSessionStored() error {
	if _, err := s.quiz(); err != nil {
		return err
	}
	if len(s.kv.data) != 0 {
		return fmt.Errorf("expected no stored session, got %v", s.kv.data)
	}
	return nil
}

func (s *featureState) shownIsResult() error {
	if s.widget == nil || s.widget.SlideIndex() != s.widget.ResultIndex() {
		return fmt.Errorf("expected the result slide to be shown")
	}
	return nil
}

func (s *featureState) isFinalized() error {
	w, err := s.quiz()
	if err != nil {
		return err
	}
	if !w.IsFinalized() {
		return fmt.Errorf("expected quiz to be finalized")
	}
	return nil
}

func (s *featureState) isNotFinalized() error {
	w, err := s.quiz()
	if err != nil {
		return err
	}
	if w.IsFinalized() {
		return fmt.Errorf("expected quiz not to be finalized")
	}
	return nil
}
