package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newWidget(t *testing.T, cfg Config, opts ...Option) (*Widget, *recorder) {
	t.Helper()
	if cfg.ID == "" {
		cfg.ID = "t"
	}
	if cfg.Elements == nil {
		cfg.Elements = twoQuestions()
	}
	w, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	rec := &recorder{}
	require.NoError(t, w.Attach(rec.collaborators()))
	return w, rec
}

// step runs a navigation call and settles its transition.
func step(t *testing.T, w *Widget, fn func() error) {
	t.Helper()
	require.NoError(t, fn())
	w.EndTransition()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{ID: "bad", Elements: []Element{codeSample("go")}})
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestWidgetDefaultsToSequential(t *testing.T) {
	w, _ := newWidget(t, Config{})
	assert.Equal(t, ModeSequential, w.Mode())
	assert.Len(t, w.Slides(), 3)
	assert.Equal(t, 2, w.ResultIndex())
	assert.Empty(t, w.StorageKey())
}

func TestWidgetSequentialNavigation(t *testing.T) {
	w, rec := newWidget(t, Config{})

	assert.ErrorIs(t, w.Next(), ErrNavigationBlocked)
	assert.ErrorIs(t, w.Prev(), ErrNavigationBlocked)

	require.NoError(t, w.Select(2))
	assert.True(t, rec.lastControls().Next)

	require.NoError(t, w.Next())
	assert.True(t, w.Transitioning())
	assert.ErrorIs(t, w.Prev(), ErrTransitionInFlight)
	assert.Equal(t, 1, w.SlideIndex())

	w.EndTransition()
	assert.False(t, w.Transitioning())
	step(t, w, w.Prev)
	assert.Equal(t, 0, w.SlideIndex())
	assert.Equal(t, 0, rec.CurrentSlideIndex())
}

func TestWidgetSelectOnCodeSample(t *testing.T) {
	w, _ := newWidget(t, Config{Mode: ModeFree, Elements: []Element{codeSample("go"), question(2, 0)}})
	assert.ErrorIs(t, w.Select(0), ErrNotAQuestion)
}

func TestWidgetSubmit(t *testing.T) {
	ctx := context.Background()
	var submitted []Summary
	kv := newMemKV()
	w, rec := newWidget(t, Config{
		Mode:     ModeFree,
		Autosave: AutosaveConfig{Enabled: true},
		OnSubmit: func(s Summary) { submitted = append(submitted, s) },
	}, WithStore(kv))

	assert.ErrorIs(t, w.Submit(ctx), ErrNoAnswer)
	assert.ErrorIs(t, w.ActivateCTA(ctx), ErrNoAnswer)

	require.NoError(t, w.Select(1))
	step(t, w, w.Next)
	require.NoError(t, w.Select(0))
	assert.True(t, rec.lastControls().CTA.IsEnabled)

	// A pending transition does not block submission.
	require.NoError(t, w.Prev())
	require.NoError(t, w.ActivateCTA(ctx))

	assert.True(t, w.IsFinalized())
	assert.Equal(t, w.ResultIndex(), w.SlideIndex())
	assert.Equal(t, TabResult, rec.tab)
	assert.False(t, rec.lastControls().CTA.IsSubmit)

	require.Len(t, submitted, 1)
	assert.Equal(t, 2, submitted[0].CorrectAnswers)
	assert.Equal(t, 100.0, submitted[0].PercentScored)

	summary, ok := w.Summary()
	require.True(t, ok)
	assert.Equal(t, submitted[0].PercentScored, summary.PercentScored)

	assert.Equal(t, "Q:4:1:1--Q:3:0:0", kv.data["Quiz::id=t::pname=*"])

	assert.ErrorIs(t, w.Submit(ctx), ErrAlreadyFinalized)
	assert.Len(t, submitted, 1)
}

func TestWidgetRestoresAutosave(t *testing.T) {
	kv := newMemKV()
	kv.data["Quiz::id=t::pname=/deck.yaml"] = "Q:4:1:0--Q:3:0:0"
	called := false

	w, rec := newWidget(t, Config{
		Autosave: AutosaveConfig{Enabled: true, ScopeToPath: true, Pathname: "/deck.yaml"},
		OnSubmit: func(Summary) { called = true },
	}, WithStore(kv))

	assert.True(t, w.IsFinalized())
	assert.Equal(t, 0, w.SlideIndex())
	assert.False(t, called)
	assert.Equal(t, "Quiz::id=t::pname=/deck.yaml", w.StorageKey())

	summary, ok := w.Summary()
	require.True(t, ok)
	assert.Equal(t, 1, summary.CorrectAnswers)
	assert.Equal(t, 50.0, summary.PercentScored)

	sel, _ := w.Instances()[0].Question.Selection()
	assert.Equal(t, 0, sel)
	assert.ErrorIs(t, w.Select(1), ErrAlreadyFinalized)

	assert.Equal(t, CTAState{IsSubmit: false, IsEnabled: true}, rec.lastControls().CTA)
	assert.Nil(t, rec.lastProgress().HighestEnabledLevel)
}

func TestWidgetAutosaveDisabledIgnoresStore(t *testing.T) {
	kv := newMemKV()
	kv.data["Quiz::id=t::pname=*"] = "Q:4:1:0--Q:3:0:0"

	w, _ := newWidget(t, Config{}, WithStore(kv))
	assert.False(t, w.IsFinalized())
	assert.Empty(t, w.StorageKey())
}

func TestWidgetConstructedFinalized(t *testing.T) {
	two, zero := 2, 0
	elements := twoQuestions()
	elements[0].FinalAnswer = &two
	elements[1].FinalAnswer = &zero

	w, _ := newWidget(t, Config{Elements: elements, Finalized: true})
	assert.True(t, w.IsFinalized())
	summary, ok := w.Summary()
	require.True(t, ok)
	assert.Equal(t, 1, summary.CorrectAnswers)

	elements[1].FinalAnswer = nil
	_, err := New(context.Background(), Config{ID: "t", Elements: elements, Finalized: true})
	var finErr *InvalidFinalizedDataError
	assert.ErrorAs(t, err, &finErr)
}

func TestWidgetTabs(t *testing.T) {
	ctx := context.Background()
	w, rec := newWidget(t, Config{Mode: ModeFree})

	assert.ErrorIs(t, w.SetTab(TabResult), ErrNavigationBlocked)
	require.NoError(t, w.SetTab(TabQuiz))
	assert.Equal(t, TabQuiz, rec.tab)

	require.NoError(t, w.Select(1))
	step(t, w, w.Next)
	require.NoError(t, w.Select(0))
	require.NoError(t, w.Submit(ctx))
	w.EndTransition()

	step(t, w, func() error { return w.SetTab(TabQuiz) })
	assert.Equal(t, 1, w.SlideIndex(), "returns to the last inquiry slide")
	assert.Equal(t, TabQuiz, rec.tab)

	step(t, w, func() error { return w.SetTab(TabResult) })
	assert.Equal(t, w.ResultIndex(), w.SlideIndex())
	assert.Equal(t, TabResult, rec.tab)

	assert.Error(t, w.SetTab(Tab("stats")))
}

func TestWidgetGoTo(t *testing.T) {
	w, _ := newWidget(t, Config{Elements: []Element{question(2, 0), question(2, 0), question(2, 0)}})

	var idxErr *IndexError
	assert.ErrorAs(t, w.GoTo(7), &idxErr)
	assert.ErrorIs(t, w.GoTo(1), ErrNavigationBlocked)

	require.NoError(t, w.Select(0))
	step(t, w, func() error { return w.GoTo(1) })
	assert.Equal(t, 1, w.SlideIndex())
	assert.ErrorIs(t, w.GoTo(3), ErrNavigationBlocked, "result needs submission")
}

func TestWidgetDigitShortcuts(t *testing.T) {
	w, _ := newWidget(t, Config{Mode: ModeFree})

	step(t, w, func() error { return w.PressDigit(2) })
	assert.Equal(t, 1, w.SlideIndex())
	assert.False(t, w.ShortcutPending())

	assert.ErrorIs(t, w.PressDigit(3), ErrNavigationBlocked)
	assert.NoError(t, w.ReleaseDigit(3))
	assert.NoError(t, w.FlushShortcut())
	assert.Equal(t, 1, w.SlideIndex())
}

type brokenKV struct{ memKV }

func (b *brokenKV) Set(context.Context, string, string) error {
	return errors.New("read-only")
}

func TestWidgetAutosaveFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	kv := &brokenKV{memKV: memKV{data: map[string]string{}}}
	w, _ := newWidget(t, Config{Mode: ModeFree, Autosave: AutosaveConfig{Enabled: true}},
		WithStore(kv), WithLogger(zap.New(core)))

	require.NoError(t, w.Select(1))
	step(t, w, w.Next)
	require.NoError(t, w.Select(0))
	require.NoError(t, w.Submit(context.Background()))

	assert.True(t, w.IsFinalized())
	assert.Equal(t, 1, logs.FilterMessage("autosave failed").Len())
}

func TestWidgetConstructionSurvivesStoreFailures(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		kv     func(*failingKV)
	}{
		{"read fails", "Q:4:1:0--Q:3:0:0", func(f *failingKV) { f.getErr = errors.New("database is locked") }},
		{"purge fails", "Q:5:1:2", func(f *failingKV) { f.removeErr = errors.New("disk full") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := &failingKV{memKV: memKV{data: map[string]string{"Quiz::id=t::pname=*": tt.stored}}}
			tt.kv(kv)
			core, logs := observer.New(zapcore.WarnLevel)

			w, rec := newWidget(t, Config{Autosave: AutosaveConfig{Enabled: true}},
				WithStore(kv), WithLogger(zap.New(core)))

			assert.False(t, w.IsFinalized())
			assert.Equal(t, 0, w.SlideIndex())
			assert.True(t, rec.lastControls().CTA.IsSubmit)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestWidgetRestoresAnyValidLanguage(t *testing.T) {
	ctx := context.Background()
	for _, lang := range []string{"go", "c++", "objective-c", "typescript12", "ゴー言語"} {
		t.Run(lang, func(t *testing.T) {
			kv := newMemKV()
			cfg := Config{
				Mode:     ModeFree,
				Autosave: AutosaveConfig{Enabled: true},
				Elements: []Element{codeSample(lang), question(4, 1)},
			}

			w, _ := newWidget(t, cfg, WithStore(kv))
			step(t, w, w.Next)
			require.NoError(t, w.Select(1))
			require.NoError(t, w.Submit(ctx))

			restored, _ := newWidget(t, cfg, WithStore(kv))
			assert.True(t, restored.IsFinalized(), "stored %q", kv.data["Quiz::id=t::pname=*"])
			assert.Empty(t, kv.removed)
		})
	}
}
