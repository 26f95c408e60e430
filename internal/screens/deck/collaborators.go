package deck

import "github.com/abhisek/quizdeck/internal/quiz"

// The deck's presentation state. Each type receives the instructions the
// widget pushes on revalidation and the view renders from them.

type progressSteps struct {
	levels int
	state  quiz.ProgressState
}

func (p *progressSteps) Revalidate(s quiz.ProgressState) { p.state = s }
func (p *progressSteps) LevelsCount() int                { return p.levels }

type slideStage struct {
	shown int
}

func (s *slideStage) Revalidate(shownSlideIndex int) { s.shown = shownSlideIndex }
func (s *slideStage) CurrentSlideIndex() int         { return s.shown }

type controlBar struct {
	state quiz.ControlState
}

func (c *controlBar) Revalidate(s quiz.ControlState) { c.state = s }

type tabStrip struct {
	active quiz.Tab
}

func (t *tabStrip) SetActiveTab(tab quiz.Tab) { t.active = tab }
func (t *tabStrip) ActiveTab() quiz.Tab       { return t.active }

var (
	_ quiz.ProgressIndicator = (*progressSteps)(nil)
	_ quiz.SlidePresenter    = (*slideStage)(nil)
	_ quiz.ControlPanel      = (*controlBar)(nil)
	_ quiz.TabStrip          = (*tabStrip)(nil)
)
