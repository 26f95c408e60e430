package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizdeck/internal/ui/theme"
)

// CodeBlock renders a snippet with line numbers. Tabs are expanded to four
// spaces.
type CodeBlock struct {
	Language string
	Snippet  string
}

// Lines returns the rendered lines, one per snippet line.
func (c CodeBlock) Lines() []string {
	src := strings.TrimRight(strings.ReplaceAll(c.Snippet, "\t", "    "), "\n")
	lines := strings.Split(src, "\n")
	width := len(fmt.Sprint(len(lines)))

	out := make([]string, len(lines))
	for i, l := range lines {
		num := theme.LineNumber.Render(fmt.Sprintf("%*d │ ", width, i+1))
		out[i] = num + theme.Code.Render(l)
	}
	return out
}

// View renders the language tag followed by the numbered lines.
func (c CodeBlock) View() string {
	return theme.Hint.Render(c.Language) + "\n" + strings.Join(c.Lines(), "\n")
}
