package quiz

import (
	"context"
	"sync"
	"testing"
)

func question(options, answer int) Element {
	opts := make([]string, options)
	for i := range opts {
		opts[i] = string(rune('a' + i))
	}
	return Element{Type: TypeQuestion, Title: "q", Options: opts, AnswerIndex: answer}
}

func codeSample(language string) Element {
	return Element{Type: TypeCodeSample, Title: "sample", Language: language, Snippet: "fmt.Println(1)"}
}

// twoQuestions is the deck used by the navigation scenarios:
// Question(4 options, answer 1), Question(3 options, answer 0).
func twoQuestions() []Element {
	return []Element{question(4, 1), question(3, 0)}
}

func answer(t testing.TB, instances []Instance, slide, option int) {
	t.Helper()
	if err := instances[slide].Question.Select(option); err != nil {
		t.Fatalf("select slide %d option %d: %v", slide, option, err)
	}
}

// memKV is an in-memory KVStore.
type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	removed []string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.removed = append(m.removed, key)
	return nil
}

// recorder captures everything revalidation pushes.
type recorder struct {
	progress []ProgressState
	shown    []int
	controls []ControlState
	tab      Tab
	tabSets  int
}

func (r *recorder) Revalidate(p ProgressState)  { r.progress = append(r.progress, p) }
func (r *recorder) LevelsCount() int            { return len(r.progress) }
func (r *recorder) SetActiveTab(t Tab)          { r.tab = t; r.tabSets++ }
func (r *recorder) ActiveTab() Tab              { return r.tab }
func (r *recorder) CurrentSlideIndex() int      { return r.shown[len(r.shown)-1] }
func (r *recorder) lastControls() ControlState  { return r.controls[len(r.controls)-1] }
func (r *recorder) lastProgress() ProgressState { return r.progress[len(r.progress)-1] }

type slideRecorder struct{ *recorder }

func (s slideRecorder) Revalidate(i int) { s.shown = append(s.shown, i) }

type controlRecorder struct{ *recorder }

func (c controlRecorder) Revalidate(cs ControlState) { c.controls = append(c.controls, cs) }

func (r *recorder) collaborators() Collaborators {
	return Collaborators{
		Progress: r,
		Slides:   slideRecorder{r},
		Controls: controlRecorder{r},
		Tabs:     r,
	}
}
