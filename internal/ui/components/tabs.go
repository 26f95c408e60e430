package components

import (
	"strings"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// Tabs renders a strip of tab titles with one active.
type Tabs struct {
	Titles   []string
	Active   int
	Disabled []bool
}

// View renders the tab strip.
func (t Tabs) View() string {
	parts := make([]string, len(t.Titles))
	for i, title := range t.Titles {
		switch {
		case i == t.Active:
			parts[i] = theme.TabActive.Render(title)
		case i < len(t.Disabled) && t.Disabled[i]:
			parts[i] = theme.Disabled.Padding(0, 1).Render(title)
		default:
			parts[i] = theme.TabInactive.Render(title)
		}
	}
	return strings.Join(parts, theme.Disabled.Render("│"))
}
