package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/config"
	"github.com/abhisek/quizdeck/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show submission history",
	RunE: func(cmd *cobra.Command, args []string) error {
		quizID, _ := cmd.Flags().GetString("quiz")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		repo := st.SubmissionRepo()

		if quizID == "" {
			stats, err := repo.Stats(ctx)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(out, "No submissions yet.")
				return nil
			}
			fmt.Fprintf(out, "%-24s  %8s  %7s  %7s  %s\n", "Quiz", "Attempts", "Best", "Average", "Last")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, s := range stats {
				fmt.Fprintf(out, "%-24s  %8d  %6.2f%%  %6.2f%%  %s\n",
					s.QuizID, s.Attempts, s.Best, s.Average, s.Last.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}

		subs, err := repo.List(ctx, store.QueryOpts{QuizID: quizID, Limit: limit})
		if err != nil {
			return err
		}
		if len(subs) == 0 {
			fmt.Fprintf(out, "No submissions for %s.\n", quizID)
			return nil
		}
		fmt.Fprintf(out, "%-5s  %-16s  %7s  %8s  %s\n", "Seq", "Time", "Score", "Percent", "Answers")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, s := range subs {
			fmt.Fprintf(out, "%-5d  %-16s  %7s  %7.2f%%  %s\n",
				s.Sequence,
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d/%d", s.Correct, s.Questions),
				s.Percent,
				s.Answers)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("quiz", "", "Only list submissions of this quiz ID")
	statsCmd.Flags().Int("limit", 20, "Max submissions to list")
}
