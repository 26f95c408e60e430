package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/quizdeck/internal/config"
	"github.com/abhisek/quizdeck/internal/explain"
	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quizfile"
)

var explainCmd = &cobra.Command{
	Use:   "explain <quiz.yaml>",
	Short: "Draft explanations for questions that have none",
	Long: "Asks the configured LLM provider to explain the correct answer of every question " +
		"without an explanation. Drafts are printed unless --write stores them in the quiz file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		write, _ := cmd.Flags().GetBool("write")
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer log.Sync()

		f, abs, err := loadQuiz(args[0])
		if err != nil {
			return err
		}
		if len(f.QuestionsWithoutExplanation()) == 0 {
			fmt.Fprintln(out, "Every question already has an explanation.")
			return nil
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProvider(ctx, cfg.LLMProviderConfig(), st.EventRepo(), log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		log.Debug("drafting explanations", zap.String("model", provider.ModelID()))

		drafts, err := explain.NewService(provider, explain.DefaultConfig(), log).Draft(ctx, f)
		if err != nil {
			return err
		}
		if len(drafts) == 0 {
			fmt.Fprintln(out, "The provider returned no usable explanations.")
			return nil
		}

		for _, d := range drafts {
			fmt.Fprintf(out, "%d. %s\n   %s\n\n", d.Index+1, d.Title, d.Explanation)
		}

		if usage, err := st.EventRepo().LLMUsage(ctx); err == nil {
			fmt.Fprintf(out, "LLM usage so far: %d request(s), %d input / %d output tokens\n",
				usage.Requests, usage.InputTokens, usage.OutputTokens)
		}

		if !write {
			return nil
		}
		n := explain.Apply(f, drafts)
		if err := quizfile.Validate(f); err != nil {
			return fmt.Errorf("drafted explanations broke the quiz file: %w", err)
		}
		if err := quizfile.Write(abs, f); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d explanation(s) to %s.\n", n, abs)
		return nil
	},
}

func init() {
	explainCmd.Flags().Bool("write", false, "Store the drafted explanations in the quiz file")
}
