package quiz

// Tab names the two views of the widget.
type Tab string

const (
	TabQuiz   Tab = "quiz"
	TabResult Tab = "result"
)

// ProgressState is pushed to the progress indicator.
type ProgressState struct {
	ActiveLevel         int
	HighestEnabledLevel *int
	ResolvedLevels      []int
}

// CTAState describes the call-to-action button.
type CTAState struct {
	IsSubmit  bool
	IsEnabled bool
}

// ControlState is pushed to the control panel.
type ControlState struct {
	Prev bool
	Next bool
	CTA  CTAState
}

// ProgressIndicator renders one level per slide.
type ProgressIndicator interface {
	Revalidate(ProgressState)
	LevelsCount() int
}

// SlidePresenter shows one slide at a time.
type SlidePresenter interface {
	Revalidate(shownSlideIndex int)
	CurrentSlideIndex() int
}

// ControlPanel renders the prev/next/CTA buttons.
type ControlPanel interface {
	Revalidate(ControlState)
}

// TabStrip switches between the quiz and result views.
type TabStrip interface {
	SetActiveTab(Tab)
	ActiveTab() Tab
}

// Collaborators are the presentation components revalidation pushes to.
// Nil members are skipped.
type Collaborators struct {
	Progress ProgressIndicator
	Slides   SlidePresenter
	Controls ControlPanel
	Tabs     TabStrip
}

// RevalidateInput is everything revalidation needs.
type RevalidateInput struct {
	SlideIndex    int
	Instances     []Instance
	Mode          SelectionMode
	Collaborators Collaborators
}

// Revalidate recomputes navigation state for the current slide and pushes it
// to every collaborator.
func Revalidate(in RevalidateInput) error {
	slide, quiz, err := ComputeSlideData(in.Instances, in.SlideIndex, in.Mode)
	if err != nil {
		return err
	}

	c := in.Collaborators
	if c.Tabs != nil {
		tab := TabQuiz
		if slide.IsResult {
			tab = TabResult
		}
		c.Tabs.SetActiveTab(tab)
	}
	if c.Slides != nil {
		c.Slides.Revalidate(slide.Index)
	}
	if c.Progress != nil {
		c.Progress.Revalidate(ProgressState{
			ActiveLevel:         slide.Index,
			HighestEnabledLevel: HighestEnabledLevel(quiz),
			ResolvedLevels:      ResolvedLevels(quiz),
		})
	}
	if c.Controls != nil {
		c.Controls.Revalidate(ControlState{
			Prev: slide.AllowedPrev != nil,
			Next: slide.AllowedNext != nil,
			CTA: CTAState{
				IsSubmit:  !quiz.IsFinalized,
				IsEnabled: quiz.IsFinalized || CanSubmit(quiz),
			},
		})
	}
	return nil
}
