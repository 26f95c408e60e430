package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/quiz"
)

var validateCmd = &cobra.Command{
	Use:   "validate <quiz.yaml>",
	Short: "Check a quiz file and list its slides",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, abs, err := loadQuiz(args[0])
		if err != nil {
			return err
		}
		qcfg, err := f.ToConfig(abs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s, %s mode)\n", qcfg.Header, qcfg.ID, qcfg.Mode)
		for i, el := range quiz.Slides(qcfg.Elements) {
			switch el.Type {
			case quiz.TypeCodeSample:
				fmt.Fprintf(out, "  %2d. code      %s [%s]\n", i+1, el.Title, el.Language)
			case quiz.TypeQuestion:
				fmt.Fprintf(out, "  %2d. question  %s (%d options)\n", i+1, el.Title, len(el.Options))
			case quiz.TypeResult:
				fmt.Fprintf(out, "  %2d. result\n", i+1)
			}
		}
		if qcfg.Autosave.Enabled {
			fmt.Fprintf(out, "storage key: %s\n", quiz.StorageKey(qcfg.ID, qcfg.Autosave.Pathname, qcfg.Autosave.ScopeToPath))
		} else {
			fmt.Fprintln(out, "autosave: off")
		}
		if missing := f.QuestionsWithoutExplanation(); len(missing) > 0 {
			fmt.Fprintf(out, "%d question(s) without explanation; see `quizdeck explain`\n", len(missing))
		}
		return nil
	},
}
