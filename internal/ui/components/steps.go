package components

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// Steps is a row of numbered levels, one per slide. Levels above Highest are
// disabled; a nil Highest leaves every level enabled.
type Steps struct {
	Count    int
	Active   int
	Highest  *int
	Resolved []int
	Labels   []string
}

// Enabled reports whether level i can be reached.
func (s Steps) Enabled(i int) bool {
	return s.Highest == nil || i <= *s.Highest
}

// View renders the steps joined by connectors.
func (s Steps) View() string {
	parts := make([]string, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		label := fmt.Sprint(i + 1)
		if i < len(s.Labels) && s.Labels[i] != "" {
			label = s.Labels[i]
		}

		glyph := "○"
		if slices.Contains(s.Resolved, i) {
			glyph = "●"
		}

		style := theme.Unselected
		switch {
		case i == s.Active:
			style = theme.Selected
		case !s.Enabled(i):
			style = theme.Disabled
		case slices.Contains(s.Resolved, i):
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		parts = append(parts, style.Render(glyph+" "+label))
	}
	return strings.Join(parts, theme.Disabled.Render(" ── "))
}
