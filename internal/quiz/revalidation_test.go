package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevalidatePushesState(t *testing.T) {
	instances := NewInstances(twoQuestions())
	rec := &recorder{}

	require.NoError(t, Revalidate(RevalidateInput{
		SlideIndex:    0,
		Instances:     instances,
		Mode:          ModeSequential,
		Collaborators: rec.collaborators(),
	}))

	assert.Equal(t, TabQuiz, rec.tab)
	assert.Equal(t, 0, rec.CurrentSlideIndex())

	p := rec.lastProgress()
	assert.Equal(t, 0, p.ActiveLevel)
	require.NotNil(t, p.HighestEnabledLevel)
	assert.Equal(t, 0, *p.HighestEnabledLevel)
	assert.Empty(t, p.ResolvedLevels)

	assert.Equal(t, ControlState{
		Prev: false,
		Next: false,
		CTA:  CTAState{IsSubmit: true, IsEnabled: false},
	}, rec.lastControls())
}

func TestRevalidateEnablesSubmitWhenAllAnswered(t *testing.T) {
	instances := NewInstances(twoQuestions())
	answer(t, instances, 0, 0)
	answer(t, instances, 1, 0)
	rec := &recorder{}

	require.NoError(t, Revalidate(RevalidateInput{
		SlideIndex:    1,
		Instances:     instances,
		Mode:          ModeSequential,
		Collaborators: rec.collaborators(),
	}))

	assert.Equal(t, ControlState{
		Prev: true,
		Next: false,
		CTA:  CTAState{IsSubmit: true, IsEnabled: true},
	}, rec.lastControls())
	assert.Equal(t, []int{0, 1}, rec.lastProgress().ResolvedLevels)
}

func TestRevalidateFinalizedShowsResultCTA(t *testing.T) {
	elements := twoQuestions()
	instances := NewInstances(elements)
	answer(t, instances, 0, 1)
	answer(t, instances, 1, 1)
	require.NoError(t, FinalizeQuiz(liveFinalized(elements, instances), instances))
	rec := &recorder{}

	require.NoError(t, Revalidate(RevalidateInput{
		SlideIndex:    2,
		Instances:     instances,
		Mode:          ModeFree,
		Collaborators: rec.collaborators(),
	}))

	assert.Equal(t, TabResult, rec.tab)
	assert.Nil(t, rec.lastProgress().HighestEnabledLevel)
	assert.Equal(t, ControlState{
		Prev: true,
		Next: false,
		CTA:  CTAState{IsSubmit: false, IsEnabled: true},
	}, rec.lastControls())
}

func TestRevalidateSkipsMissingCollaborators(t *testing.T) {
	rec := &recorder{}
	err := Revalidate(RevalidateInput{
		SlideIndex:    0,
		Instances:     NewInstances(twoQuestions()),
		Mode:          ModeFree,
		Collaborators: Collaborators{Controls: controlRecorder{rec}},
	})
	require.NoError(t, err)
	assert.Len(t, rec.controls, 1)
	assert.Empty(t, rec.progress)
	assert.Zero(t, rec.tabSets)
}

func TestRevalidateRejectsBadIndex(t *testing.T) {
	err := Revalidate(RevalidateInput{
		SlideIndex: 9,
		Instances:  NewInstances(twoQuestions()),
		Mode:       ModeFree,
	})
	var idxErr *IndexError
	assert.ErrorAs(t, err, &idxErr)
}
