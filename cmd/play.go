package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdeck/internal/app"
	"github.com/abhisek/quizdeck/internal/config"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/screens/deck"
	"github.com/abhisek/quizdeck/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play <quiz.yaml>",
	Short: "Play a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, args[0])
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "Selection mode: sequential or free (overrides the quiz file)")
	cmd.Flags().Bool("no-autosave", false, "Do not restore or store submitted answers")
}

func runPlay(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, abs, err := loadQuiz(path)
	if err != nil {
		return err
	}
	qcfg, err := f.ToConfig(abs)
	if err != nil {
		return err
	}
	if err := applyPlayFlags(cmd, cfg, &qcfg); err != nil {
		return err
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	qcfg.OnSubmit = submissionRecorder(ctx, st.SubmissionRepo(), qcfg, log)

	build := func(ctx context.Context) (*quiz.Widget, error) {
		return quiz.New(ctx, qcfg, quiz.WithStore(st.KVRepo()), quiz.WithLogger(log))
	}
	w, err := build(ctx)
	if err != nil {
		return fmt.Errorf("load quiz: %w", err)
	}

	key := w.StorageKey()
	root, err := deck.New(ctx, w, deck.Options{
		Logger: log,
		Retake: func(ctx context.Context) (*quiz.Widget, error) {
			if key != "" {
				if err := st.KVRepo().Remove(ctx, key); err != nil {
					return nil, fmt.Errorf("clear saved answers: %w", err)
				}
			}
			log.Info("retaking quiz", zap.String("quiz", qcfg.ID))
			return build(ctx)
		},
	})
	if err != nil {
		return err
	}

	log.Info("playing quiz",
		zap.String("quiz", qcfg.ID),
		zap.String("mode", string(qcfg.Mode)),
		zap.Bool("autosave", qcfg.Autosave.Enabled),
		zap.Bool("restored", w.IsFinalized()))
	return app.Run(root)
}

// applyPlayFlags layers the config file and command-line overrides onto the
// quiz file's settings. Flags win over the config file.
func applyPlayFlags(cmd *cobra.Command, cfg *config.Config, qcfg *quiz.Config) error {
	mode := cfg.Mode
	if m, _ := cmd.Flags().GetString("mode"); m != "" {
		mode = m
	}
	if mode != "" {
		parsed, err := quiz.ParseSelectionMode(mode)
		if err != nil {
			return err
		}
		qcfg.Mode = parsed
	}

	noAutosave, _ := cmd.Flags().GetBool("no-autosave")
	if noAutosave || !cfg.Autosave {
		qcfg.Autosave.Enabled = false
	}
	return nil
}

// submissionRecorder appends every submission to the history table.
func submissionRecorder(ctx context.Context, repo store.SubmissionRepo, qcfg quiz.Config, log *zap.Logger) func(quiz.Summary) {
	key := quiz.StorageKey(qcfg.ID, qcfg.Autosave.Pathname, qcfg.Autosave.ScopeToPath)
	return func(sum quiz.Summary) {
		sub := &store.Submission{
			QuizID:     qcfg.ID,
			StorageKey: key,
			Questions:  sum.QuestionsCount,
			Correct:    sum.CorrectAnswers,
			Percent:    sum.PercentScored,
			Answers:    quiz.Encode(quiz.Records(sum.Elements)),
		}
		if err := repo.Append(ctx, sub); err != nil {
			log.Warn("record submission failed", zap.Error(err))
			return
		}
		log.Info("submission recorded",
			zap.String("id", sub.ID),
			zap.Int64("sequence", sub.Sequence),
			zap.Float64("percent", sub.Percent))
	}
}
