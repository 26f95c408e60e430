package explain

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quizfile"
)

func loadSample(t *testing.T) *quizfile.File {
	t.Helper()
	f, err := quizfile.Load(filepath.Join("..", "quizfile", "testdata", "go-basics.yaml"))
	require.NoError(t, err)
	return f
}

func TestDraftFillsMissing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanations":[
			{"index": 2, "explanation": "  The go statement starts a goroutine.  "}
		]}`),
	})
	svc := NewService(mock, DefaultConfig(), nil)
	f := loadSample(t)

	drafts, err := svc.Draft(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, 2, drafts[0].Index)
	assert.Equal(t, "Which keyword starts a goroutine?", drafts[0].Title)
	assert.Equal(t, "The go statement starts a goroutine.", drafts[0].Explanation)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, ExplanationSchema, req.Schema)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "```go\ns := []int{1, 2, 3}")
	assert.Contains(t, prompt, "* 1. go")
	assert.Contains(t, prompt, "with index 2.")

	assert.Equal(t, 1, Apply(f, drafts))
	assert.Empty(t, f.QuestionsWithoutExplanation())
	assert.Equal(t, 0, Apply(f, drafts), "existing explanations are kept")
}

func TestDraftDiscardsUnrequested(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanations":[
			{"index": 1, "explanation": "already explained"},
			{"index": 7, "explanation": "no such slide"},
			{"index": 2, "explanation": ""}
		]}`),
	})
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(mock, DefaultConfig(), zap.New(core))

	drafts, err := svc.Draft(context.Background(), loadSample(t))
	require.NoError(t, err)
	assert.Empty(t, drafts)
	assert.Equal(t, 3, logs.FilterMessage("discarding explanation").Len())
	assert.Equal(t, 1, logs.FilterMessage("some questions left without explanation").Len())
}

func TestDraftNothingMissing(t *testing.T) {
	mock := llm.NewMockProvider()
	f := loadSample(t)
	f.Elements[2].Explanation = "set"

	drafts, err := NewService(mock, DefaultConfig(), nil).Draft(context.Background(), f)
	require.NoError(t, err)
	assert.Nil(t, drafts)
	assert.Zero(t, mock.CallCount())
}

func TestDraftProviderFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.UnavailableError{}})
	_, err := NewService(mock, DefaultConfig(), nil).Draft(context.Background(), loadSample(t))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "explanation generation:"))

	mock = llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"explanations":"nope"}`)})
	_, err = NewService(mock, DefaultConfig(), nil).Draft(context.Background(), loadSample(t))
	var invalid *llm.InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplySkipsCodeAndOutOfRange(t *testing.T) {
	f := loadSample(t)
	n := Apply(f, []Draft{{Index: 0, Explanation: "x"}, {Index: -1, Explanation: "x"}, {Index: 9, Explanation: "x"}})
	assert.Zero(t, n)
	assert.Empty(t, f.Elements[0].Explanation)
}
