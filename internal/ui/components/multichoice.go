package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a single-answer question. Cursor is the highlighted
// option, Chosen the recorded answer (-1 when none). Once Locked the correct
// and wrong answers are revealed.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Cursor       int
	Chosen       int
	Locked       bool
}

// NewMultiChoice creates a multiple-choice component with no answer.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Chosen:       -1,
	}
}

// CursorUp moves the highlight one option up.
func (m *MultiChoice) CursorUp() {
	if m.Cursor > 0 {
		m.Cursor--
	}
}

// CursorDown moves the highlight one option down.
func (m *MultiChoice) CursorDown() {
	if m.Cursor < len(m.Options)-1 {
		m.Cursor++
	}
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		pointer := "  "
		if i == m.Cursor && !m.Locked {
			pointer = "▸ "
		}
		mark := "○"
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", pointer, mark, optionLabels[i], opt)

		style := theme.Unselected
		switch {
		case m.Locked && i == m.CorrectIndex:
			style = theme.Correct
		case m.Locked && i == m.Chosen:
			style = theme.Incorrect
		case m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}

// IsCorrect reports whether the chosen answer is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen >= 0 && m.Chosen == m.CorrectIndex
}
