package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizdeck/internal/quizfile"
)

const systemPrompt = `You are a programming instructor reviewing a short multiple-choice quiz. For each question you are asked about, write the explanation a learner sees after submitting: say why the correct option is right and, when useful, why the most tempting wrong option is not.`

func buildUserMessage(f *quizfile.File, missing []int) string {
	var b strings.Builder

	if f.Header != "" {
		b.WriteString(fmt.Sprintf("Quiz: %s\n", f.Header))
	}

	b.WriteString("\nSlides:\n")
	for i, e := range f.Elements {
		switch e.Type {
		case "code":
			b.WriteString(fmt.Sprintf("[%d] Code sample (%s)", i, e.Language))
			if e.Title != "" {
				b.WriteString(": " + e.Title)
			}
			b.WriteString("\n```" + e.Language + "\n")
			b.WriteString(strings.TrimRight(e.Snippet, "\n"))
			b.WriteString("\n```\n")
		case "question":
			b.WriteString(fmt.Sprintf("[%d] Question: %s\n", i, e.Title))
			for j, opt := range e.Options {
				marker := " "
				if e.Answer != nil && *e.Answer == j {
					marker = "*"
				}
				b.WriteString(fmt.Sprintf("  %s %d. %s\n", marker, j+1, opt))
			}
		}
	}

	idx := make([]string, len(missing))
	for i, m := range missing {
		idx[i] = fmt.Sprint(m)
	}
	b.WriteString(fmt.Sprintf(`
The correct option of each question is marked with *.

Instructions:
Write explanations only for the questions with index %s.
1. Use 1-3 sentences per explanation.
2. Refer to the code sample when the question is about it.
3. Do not repeat the question or list the options.
4. Use plain text. No Markdown headings.`, strings.Join(idx, ", ")))

	return b.String()
}
