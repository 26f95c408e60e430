// Package deck is the interactive quiz screen.
package deck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/router"
	"github.com/abhisek/quizdeck/internal/screen"
	"github.com/abhisek/quizdeck/internal/screens/keymap"
	"github.com/abhisek/quizdeck/internal/screens/result"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
)

const (
	DefaultTransitionDelay = 180 * time.Millisecond
	DefaultShortcutTimeout = 500 * time.Millisecond
)

// Options tune the deck screen.
type Options struct {
	// TransitionDelay is how long a slide change settles before the next
	// navigation is accepted.
	TransitionDelay time.Duration
	// ShortcutTimeout resolves a held slide-number digit when no release
	// event arrives.
	ShortcutTimeout time.Duration
	// Retake builds a fresh widget for the same quiz. Nil disables retakes.
	Retake func(ctx context.Context) (*quiz.Widget, error)
	Logger *zap.Logger
}

// transitionDoneMsg ends the slide change started by a navigation.
type transitionDoneMsg struct{}

// shortcutFlushMsg resolves a held shortcut digit.
type shortcutFlushMsg struct{ seq int }

// retakeFailedMsg reports a failed retake.
type retakeFailedMsg struct{ err error }

// Screen plays one quiz widget.
type Screen struct {
	ctx    context.Context
	widget *quiz.Widget
	opts   Options
	keys   keyMap
	logger *zap.Logger

	progress *progressSteps
	stage    *slideStage
	controls *controlBar
	tabs     *tabStrip

	cursors     map[int]int
	code        viewport.Model
	codeSlide   int
	result      *result.Model
	shortcutSeq int
	notice      string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New attaches a deck screen to w.
func New(ctx context.Context, w *quiz.Widget, opts Options) (*Screen, error) {
	if opts.TransitionDelay <= 0 {
		opts.TransitionDelay = DefaultTransitionDelay
	}
	if opts.ShortcutTimeout <= 0 {
		opts.ShortcutTimeout = DefaultShortcutTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Screen{
		ctx:       ctx,
		widget:    w,
		opts:      opts,
		keys:      defaultKeyMap(),
		logger:    opts.Logger,
		progress:  &progressSteps{levels: len(w.Slides())},
		stage:     &slideStage{},
		controls:  &controlBar{},
		tabs:      &tabStrip{},
		cursors:   map[int]int{},
		code:      viewport.New(viewport.WithWidth(60), viewport.WithHeight(10)),
		codeSlide: -1,
	}
	err := w.Attach(quiz.Collaborators{
		Progress: s.progress,
		Slides:   s.stage,
		Controls: s.controls,
		Tabs:     s.tabs,
	})
	if err != nil {
		return nil, fmt.Errorf("attach deck: %w", err)
	}
	s.syncKeys()
	s.syncSlide()
	return s, nil
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	if h := s.widget.Header(); h != "" {
		return h
	}
	return "Quiz"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return hints(s.keys.ShortHelp())
}

// Status shows the answered count, or the score once submitted.
func (s *Screen) Status() string {
	if sum, ok := s.widget.Summary(); ok {
		return fmt.Sprintf("%d/%d correct", sum.CorrectAnswers, sum.QuestionsCount)
	}
	_, q := s.widget.Snapshot()
	questions := 0
	answered := 0
	for _, inst := range s.widget.Instances() {
		if inst.Type == quiz.TypeQuestion {
			questions++
			if inst.Question.IsAnswered() {
				answered++
			}
		}
	}
	mode := "sequential"
	if q.SelectionMode == quiz.ModeFree {
		mode = "free"
	}
	return fmt.Sprintf("%d/%d answered · %s", answered, questions, mode)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case transitionDoneMsg:
		s.widget.EndTransition()
		return s, nil

	case shortcutFlushMsg:
		if msg.seq != s.shortcutSeq {
			return s, nil
		}
		return s, s.do("flush", s.widget.FlushShortcut)

	case retakeFailedMsg:
		s.logger.Error("retake failed", zap.Error(msg.err))
		s.notice = "Could not restart the quiz: " + msg.err.Error()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case tea.KeyReleaseMsg:
		if d, ok := digit(msg.Code); ok {
			return s, s.do("release "+msg.String(), func() error { return s.widget.ReleaseDigit(d) })
		}
		return s, nil
	}

	if s.result != nil {
		r, cmd := s.result.Update(msg)
		s.result = &r
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	name := msg.String()
	switch {
	case key.Matches(msg, s.keys.Quit):
		return s, tea.Quit

	case key.Matches(msg, s.keys.Help):
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: keymap.New(s.keys)}
		}

	case key.Matches(msg, s.keys.Prev):
		return s, s.do(name, s.widget.Prev)

	case key.Matches(msg, s.keys.Next):
		return s, s.do(name, s.widget.Next)

	case key.Matches(msg, s.keys.Up), key.Matches(msg, s.keys.Down):
		if mc, ok := s.currentChoice(); ok {
			if key.Matches(msg, s.keys.Up) {
				mc.CursorUp()
			} else {
				mc.CursorDown()
			}
			s.cursors[s.stage.shown] = mc.Cursor
			return s, nil
		}
		var cmd tea.Cmd
		s.code, cmd = s.code.Update(msg)
		return s, cmd

	case key.Matches(msg, s.keys.Scroll):
		var cmd tea.Cmd
		s.code, cmd = s.code.Update(msg)
		return s, cmd

	case key.Matches(msg, s.keys.Choose):
		mc, ok := s.currentChoice()
		if !ok {
			return s, nil
		}
		return s, s.do(name, func() error { return s.widget.Select(mc.Cursor) })

	case key.Matches(msg, s.keys.Option):
		option := int(msg.Code - 'a')
		if mc, ok := s.currentChoice(); ok && option < len(mc.Options) {
			s.cursors[s.stage.shown] = option
			return s, s.do(name, func() error { return s.widget.Select(option) })
		}
		return s, nil

	case key.Matches(msg, s.keys.Submit):
		return s, s.do(name, func() error { return s.widget.ActivateCTA(s.ctx) })

	case key.Matches(msg, s.keys.Tab):
		next := quiz.TabResult
		if s.tabs.active == quiz.TabResult {
			next = quiz.TabQuiz
		}
		return s, s.do(name, func() error { return s.widget.SetTab(next) })

	case key.Matches(msg, s.keys.Retake):
		return s, s.retake()

	case key.Matches(msg, s.keys.Jump):
		d, _ := digit(msg.Code)
		cmd := s.do(name, func() error { return s.widget.PressDigit(d) })
		if !s.widget.ShortcutPending() {
			return s, cmd
		}
		s.shortcutSeq++
		seq := s.shortcutSeq
		flush := tea.Tick(s.opts.ShortcutTimeout, func(time.Time) tea.Msg { return shortcutFlushMsg{seq: seq} })
		return s, tea.Batch(cmd, flush)
	}

	return s, nil
}

// do runs a widget operation and turns its outcome into view state and
// follow-up commands.
func (s *Screen) do(input string, op func() error) tea.Cmd {
	wasTransitioning := s.widget.Transitioning()
	err := op()

	s.notice = ""
	if err != nil {
		s.notice = s.describe(input, err)
	}

	var cmds []tea.Cmd
	if s.widget.Transitioning() && !wasTransitioning {
		cmds = append(cmds, tea.Tick(s.opts.TransitionDelay, func(time.Time) tea.Msg { return transitionDoneMsg{} }))
	}
	s.syncKeys()
	if cmd := s.syncSlide(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (s *Screen) describe(input string, err error) string {
	switch {
	case errors.Is(err, quiz.ErrTransitionInFlight):
		s.logger.Debug("input rejected during transition", zap.String("input", input))
		return ""
	case errors.Is(err, quiz.ErrNavigationBlocked):
		if _, q := s.widget.Snapshot(); q.SelectionMode == quiz.ModeSequential && !q.IsFinalized {
			return "Answer this question to continue"
		}
		return "That slide is not available yet"
	case errors.Is(err, quiz.ErrNoAnswer):
		return "Answer every question to submit"
	case errors.Is(err, quiz.ErrAlreadyFinalized):
		return "Answers are locked after submitting"
	case errors.Is(err, quiz.ErrNotAQuestion):
		return ""
	default:
		s.logger.Error("quiz operation failed", zap.String("input", input), zap.Error(err))
		return err.Error()
	}
}

// syncSlide prepares per-slide view state after the shown slide changed.
func (s *Screen) syncSlide() tea.Cmd {
	idx := s.stage.shown
	el := s.widget.Slides()[idx]

	switch el.Type {
	case quiz.TypeCodeSample:
		if s.codeSlide != idx {
			s.code.SetContent(strings.Join(components.CodeBlock{Language: el.Language, Snippet: el.Snippet}.Lines(), "\n"))
			s.code.GotoTop()
			s.codeSlide = idx
		}
	case quiz.TypeResult:
		sum, ok := s.widget.Summary()
		if !ok || s.result != nil {
			return nil
		}
		r := result.New(sum)
		s.result = &r
		return r.Init()
	}
	return nil
}

func (s *Screen) syncKeys() {
	s.keys.Retake.SetEnabled(s.opts.Retake != nil && s.widget.IsFinalized())
}

func (s *Screen) retake() tea.Cmd {
	if s.opts.Retake == nil || !s.widget.IsFinalized() {
		return nil
	}
	ctx, opts := s.ctx, s.opts
	return func() tea.Msg {
		w, err := opts.Retake(ctx)
		if err != nil {
			return retakeFailedMsg{err: err}
		}
		next, err := New(ctx, w, opts)
		if err != nil {
			return retakeFailedMsg{err: err}
		}
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// currentChoice returns the multiple-choice view of the shown question.
func (s *Screen) currentChoice() (*components.MultiChoice, bool) {
	idx := s.stage.shown
	el := s.widget.Slides()[idx]
	if el.Type != quiz.TypeQuestion {
		return nil, false
	}
	state := s.widget.Instances()[idx].Question

	mc := components.NewMultiChoice(el.Title, el.Options, el.AnswerIndex)
	mc.Cursor = s.cursors[idx]
	if sel, ok := state.Selection(); ok {
		mc.Chosen = sel
		if _, moved := s.cursors[idx]; !moved {
			mc.Cursor = sel
		}
	}
	mc.Locked = state.IsFinalized()
	return &mc, true
}

func digit(code rune) (int, bool) {
	if code < '0' || code > '9' {
		return 0, false
	}
	return int(code - '0'), true
}
