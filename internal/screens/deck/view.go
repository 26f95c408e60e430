package deck

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/ui/components"
	"github.com/abhisek/quizdeck/internal/ui/layout"
	"github.com/abhisek/quizdeck/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	tabs := s.renderTabs()
	steps := s.renderSteps()
	controls := s.renderControls()
	notice := theme.Notice.Render(s.notice)

	chrome := lipgloss.Height(tabs) + lipgloss.Height(steps) + lipgloss.Height(controls) + 1
	cardHeight := max(height-chrome-2, 6)
	cardWidth := max(width-4, 20)

	body := s.renderSlide(cardWidth-6, cardHeight-4)
	card := theme.Card.Width(cardWidth).Height(cardHeight).Render(body)

	return strings.Join([]string{
		"  " + tabs,
		"",
		"  " + steps,
		layout.Center(card, width),
		"  " + controls + "   " + notice,
	}, "\n")
}

func (s *Screen) renderTabs() string {
	active := 0
	if s.tabs.active == quiz.TabResult {
		active = 1
	}
	return components.Tabs{
		Titles:   []string{"Quiz", "Result"},
		Active:   active,
		Disabled: []bool{false, !s.widget.IsFinalized()},
	}.View()
}

func (s *Screen) renderSteps() string {
	labels := make([]string, s.progress.LevelsCount())
	labels[len(labels)-1] = "Result"
	return components.Steps{
		Count:    s.progress.LevelsCount(),
		Active:   s.progress.state.ActiveLevel,
		Highest:  s.progress.state.HighestEnabledLevel,
		Resolved: s.progress.state.ResolvedLevels,
		Labels:   labels,
	}.View()
}

func (s *Screen) renderControls() string {
	st := s.controls.state
	cta := "Submit"
	if !st.CTA.IsSubmit {
		cta = "Jump to Result"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		components.NewButton("‹ Prev", "", st.Prev).View(),
		" ",
		components.NewButton("Next ›", "", st.Next).View(),
		"   ",
		components.NewButton(cta, "s", st.CTA.IsEnabled).View(),
	)
}

func (s *Screen) renderSlide(width, height int) string {
	idx := s.stage.shown
	el := s.widget.Slides()[idx]

	switch el.Type {
	case quiz.TypeCodeSample:
		s.code.SetWidth(width)
		s.code.SetHeight(max(height-2, 1))
		title := el.Title
		if title == "" {
			title = "Code sample"
		}
		return theme.Title.Render(title) + "  " + theme.Hint.Render(el.Language) + "\n\n" + s.code.View()

	case quiz.TypeQuestion:
		mc, _ := s.currentChoice()
		view := mc.View()
		if mc.Locked && el.Explanation != "" {
			view += "\n" + theme.Hint.Width(width).Render(el.Explanation)
		}
		return view

	case quiz.TypeResult:
		if s.result == nil {
			return theme.Subtitle.Render("Submit the quiz to see your score.")
		}
		return s.result.View(width)

	default:
		panic("deck: unknown slide type " + string(el.Type))
	}
}
