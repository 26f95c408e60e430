package quiz

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AutosaveConfig controls persistence of finalized answers.
type AutosaveConfig struct {
	Enabled bool
	// ScopeToPath stores sessions per Pathname instead of globally.
	ScopeToPath bool
	Pathname    string
}

// Config is the host-supplied quiz configuration.
type Config struct {
	ID       string
	Header   string
	Elements []Element
	Mode     SelectionMode
	Autosave AutosaveConfig

	// Finalized constructs the quiz already submitted; every question must
	// carry a FinalAnswer.
	Finalized bool

	// OnSubmit is called once per submission with the scored summary.
	OnSubmit func(Summary)
}

// Option customizes a Widget.
type Option func(*Widget)

// WithStore sets the key-value store used for autosave.
func WithStore(kv KVStore) Option {
	return func(w *Widget) { w.kv = kv }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) { w.logger = logger }
}

// Widget is a running quiz: the slide deck, its answer state and the
// navigation guard. All state-changing calls finish by revalidating the
// attached collaborators.
type Widget struct {
	cfg           Config
	slides        []Element
	instances     []Instance
	slideIndex    int
	lastInquiry   int
	collaborators Collaborators
	transition    Transition
	shortcuts     *ShortcutBuffer
	kv            KVStore
	storage       *SessionStorage
	logger        *zap.Logger
	summary       *Summary
}

// New validates cfg and builds a widget. A previously finalized or autosaved
// answer set is applied immediately.
func New(ctx context.Context, cfg Config, opts ...Option) (*Widget, error) {
	if err := ValidateConfig(cfg.Elements); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeSequential
	}

	w := &Widget{
		cfg:       cfg,
		slides:    Slides(cfg.Elements),
		instances: NewInstances(cfg.Elements),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	w.logger = w.logger.With(zap.String("quiz", cfg.ID))
	w.shortcuts = NewShortcutBuffer(len(w.slides))

	if cfg.Autosave.Enabled && w.kv != nil {
		key := StorageKey(cfg.ID, cfg.Autosave.Pathname, cfg.Autosave.ScopeToPath)
		w.storage = NewSessionStorage(w.kv, key, w.logger)
	}

	finalized, err := AvailableFinalizedElements(ctx, cfg.Elements, w.instances, cfg.Finalized, w.storage)
	if err != nil {
		return nil, err
	}
	if finalized != nil {
		if err := w.applyFinalized(finalized); err != nil {
			return nil, err
		}
		w.logger.Debug("restored finalized answers")
	}

	return w, nil
}

// Header returns the quiz header.
func (w *Widget) Header() string { return w.cfg.Header }

// Mode returns the selection mode.
func (w *Widget) Mode() SelectionMode { return w.cfg.Mode }

// Slides returns every slide, the synthesized result included.
func (w *Widget) Slides() []Element { return w.slides }

// Instances returns the live slide state.
func (w *Widget) Instances() []Instance { return w.instances }

// SlideIndex returns the index of the shown slide.
func (w *Widget) SlideIndex() int { return w.slideIndex }

// ResultIndex returns the index of the result slide.
func (w *Widget) ResultIndex() int { return len(w.slides) - 1 }

// StorageKey returns the autosave key, or "" when autosave is off.
func (w *Widget) StorageKey() string {
	if w.storage == nil {
		return ""
	}
	return w.storage.Key()
}

// Summary returns the scored summary once the quiz is finalized.
func (w *Widget) Summary() (Summary, bool) {
	if w.summary == nil {
		return Summary{}, false
	}
	return *w.summary, true
}

// Snapshot computes navigation data for the shown slide.
func (w *Widget) Snapshot() (SlideData, QuizData) {
	slide, quiz, err := ComputeSlideData(w.instances, w.slideIndex, w.cfg.Mode)
	if err != nil {
		// slideIndex only ever holds validated indices.
		panic(err)
	}
	return slide, quiz
}

// IsFinalized reports whether the quiz has been submitted.
func (w *Widget) IsFinalized() bool {
	return resultOf(w.instances).IsFinalized()
}

// Attach connects presentation collaborators and pushes the current state.
func (w *Widget) Attach(c Collaborators) error {
	w.collaborators = c
	return w.revalidate()
}

// Select answers the shown question.
func (w *Widget) Select(option int) error {
	inst := w.instances[w.slideIndex]
	if inst.Type != TypeQuestion {
		return ErrNotAQuestion
	}
	if err := inst.Question.Select(option); err != nil {
		return err
	}
	return w.revalidate()
}

// Next moves forward one slide if allowed.
func (w *Widget) Next() error {
	slide, _ := w.Snapshot()
	if slide.AllowedNext == nil {
		return ErrNavigationBlocked
	}
	return w.moveTo(*slide.AllowedNext)
}

// Prev moves back one slide if allowed.
func (w *Widget) Prev() error {
	slide, _ := w.Snapshot()
	if slide.AllowedPrev == nil {
		return ErrNavigationBlocked
	}
	return w.moveTo(*slide.AllowedPrev)
}

// GoTo jumps to a slide, as a progress-step click or shortcut would.
func (w *Widget) GoTo(index int) error {
	if index < 0 || index >= len(w.slides) {
		return &IndexError{What: "slide", Index: index, Len: len(w.slides)}
	}
	_, quiz := w.Snapshot()
	if !CanReach(quiz, index) {
		return ErrNavigationBlocked
	}
	return w.moveTo(index)
}

// JumpToResult shows the result slide of a finalized quiz.
func (w *Widget) JumpToResult() error {
	if !w.IsFinalized() {
		return ErrNavigationBlocked
	}
	return w.moveTo(w.ResultIndex())
}

// SetTab switches between the quiz and result views.
func (w *Widget) SetTab(tab Tab) error {
	switch tab {
	case TabResult:
		return w.JumpToResult()
	case TabQuiz:
		if w.slideIndex != w.ResultIndex() {
			return w.revalidate()
		}
		return w.moveTo(w.lastInquiry)
	default:
		return fmt.Errorf("unknown tab %q", tab)
	}
}

// Submit finalizes the live answers, persists them when autosave is on and
// reports the summary to OnSubmit. The result slide is shown afterwards.
func (w *Widget) Submit(ctx context.Context) error {
	if w.IsFinalized() {
		return ErrAlreadyFinalized
	}
	finalized, err := AvailableFinalizedElements(ctx, w.cfg.Elements, w.instances, false, nil)
	if err != nil {
		return err
	}
	if finalized == nil {
		return ErrNoAnswer
	}
	if err := w.applyFinalized(finalized); err != nil {
		return err
	}

	if w.storage != nil {
		if err := w.storage.Save(ctx, Records(finalized)); err != nil {
			w.logger.Warn("autosave failed", zap.Error(err))
		}
	}
	if w.cfg.OnSubmit != nil {
		w.cfg.OnSubmit(*w.summary)
	}

	// Submission always lands on the result, even mid-transition.
	w.transition.End()
	return w.moveTo(w.ResultIndex())
}

// ActivateCTA submits an unfinalized quiz or jumps to the result of a
// finalized one.
func (w *Widget) ActivateCTA(ctx context.Context) error {
	if w.IsFinalized() {
		return w.JumpToResult()
	}
	_, quiz := w.Snapshot()
	if !CanSubmit(quiz) {
		return ErrNoAnswer
	}
	return w.Submit(ctx)
}

// PressDigit feeds a numeric shortcut key.
func (w *Widget) PressDigit(digit int) error {
	target, ok := w.shortcuts.Press(digit)
	if !ok {
		return nil
	}
	return w.GoTo(target)
}

// ReleaseDigit feeds a numeric shortcut key release.
func (w *Widget) ReleaseDigit(digit int) error {
	target, ok := w.shortcuts.Release(digit)
	if !ok {
		return nil
	}
	return w.GoTo(target)
}

// FlushShortcut resolves a held shortcut digit.
func (w *Widget) FlushShortcut() error {
	target, ok := w.shortcuts.Flush()
	if !ok {
		return nil
	}
	return w.GoTo(target)
}

// ShortcutPending reports whether a shortcut digit is being held.
func (w *Widget) ShortcutPending() bool { return w.shortcuts.Pending() }

// Transitioning reports whether a slide change is settling.
func (w *Widget) Transitioning() bool {
	return w.transition.Phase() == PhaseTransitioning
}

// EndTransition marks the current slide change as settled.
func (w *Widget) EndTransition() {
	w.transition.End()
}

func (w *Widget) moveTo(index int) error {
	if err := w.transition.Begin(); err != nil {
		return err
	}
	w.slideIndex = index
	if w.slides[index].Type != TypeResult {
		w.lastInquiry = index
	}
	return w.revalidate()
}

func (w *Widget) applyFinalized(finalized []FinalizedElement) error {
	if err := FinalizeQuiz(finalized, w.instances); err != nil {
		return err
	}
	summary, err := Summarize(finalized)
	if err != nil {
		return err
	}
	w.summary = &summary
	return nil
}

func (w *Widget) revalidate() error {
	return Revalidate(RevalidateInput{
		SlideIndex:    w.slideIndex,
		Instances:     w.instances,
		Mode:          w.cfg.Mode,
		Collaborators: w.collaborators,
	})
}
