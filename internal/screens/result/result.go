// Package result renders the scored result slide.
package result

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

const (
	frameCount    = 24
	frameInterval = 40 * time.Millisecond
)

var lastID atomic.Int64

// frameMsg advances the counter animation of the model with the same id.
type frameMsg struct{ id int64 }

// Model shows the summary of a finalized quiz with a counter that climbs to
// the scored percentage.
type Model struct {
	summary quiz.Summary
	id      int64
	frame   int
}

// New creates a result view for summary.
func New(summary quiz.Summary) Model {
	return Model{summary: summary, id: lastID.Add(1)}
}

// Init starts the counter animation.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update advances the animation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	f, ok := msg.(frameMsg)
	if !ok || f.id != m.id || m.Done() {
		return m, nil
	}
	m.frame++
	if m.Done() {
		return m, nil
	}
	return m, m.tick()
}

// Done reports whether the counter reached the final score.
func (m Model) Done() bool { return m.frame >= frameCount }

// Shown returns the percentage currently displayed.
func (m Model) Shown() float64 {
	if m.Done() {
		return m.summary.PercentScored
	}
	t := float64(m.frame) / frameCount
	eased := 1 - math.Pow(1-t, 3)
	return math.Round(m.summary.PercentScored*eased*10) / 10
}

// Summary returns the summary being shown.
func (m Model) Summary() quiz.Summary { return m.summary }

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{id: id} })
}

// View renders the score and a per-question breakdown.
func (m Model) View(width int) string {
	s := m.summary
	var b strings.Builder

	score := lipgloss.NewStyle().Foreground(scoreColor(s.PercentScored)).Bold(true).
		Render(fmt.Sprintf("%.2f%%", m.Shown()))
	b.WriteString(layout.Center(score, width))
	b.WriteString("\n\n")

	barWidth := min(width-8, 50)
	bar := components.NewProgressBar("", m.Shown()/100, false, barWidth)
	b.WriteString(layout.Center(bar.View(), width))
	b.WriteString("\n\n")

	line := fmt.Sprintf("%d of %d correct", s.CorrectAnswers, s.QuestionsCount)
	if s.CodeSamplesCount > 0 {
		line += fmt.Sprintf("  ·  %d code sample%s", s.CodeSamplesCount, plural(s.CodeSamplesCount))
	}
	b.WriteString(layout.Center(theme.Subtitle.Render(line), width))
	b.WriteString("\n\n")

	n := 0
	for _, e := range s.Elements {
		if e.Type != quiz.TypeQuestion {
			continue
		}
		n++
		b.WriteString(questionLine(n, e))
		b.WriteString("\n")
	}

	return b.String()
}

func questionLine(n int, e quiz.FinalizedElement) string {
	var b strings.Builder
	if e.IsCorrect() {
		b.WriteString(theme.Correct.Render(fmt.Sprintf("✓ %d. ", n)))
	} else {
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("✗ %d. ", n)))
	}
	b.WriteString(theme.Body.Render(e.Title))
	b.WriteString("\n")

	b.WriteString(theme.Subtitle.Render("     your answer: " + optionText(e.Options, e.Selected)))
	b.WriteString("\n")
	if !e.IsCorrect() {
		b.WriteString(theme.Subtitle.Render("     correct: " + optionText(e.Options, e.AnswerIndex)))
		b.WriteString("\n")
	}
	if e.Explanation != "" {
		b.WriteString(theme.Hint.Render("     " + e.Explanation))
		b.WriteString("\n")
	}
	return b.String()
}

func optionText(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return "-"
	}
	return fmt.Sprintf("%c) %s", 'A'+i, options[i])
}

func scoreColor(percent float64) color.Color {
	switch {
	case percent >= 80:
		return theme.Success
	case percent >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
