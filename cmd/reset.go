package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/config"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// storageKeyPrefix prefixes every autosave key.
const storageKeyPrefix = "Quiz::"

var resetCmd = &cobra.Command{
	Use:   "reset [quiz.yaml]",
	Short: "Forget saved answers of a quiz, or of every quiz with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all == (len(args) == 1) {
			return errors.New("pass either a quiz file or --all")
		}

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
		kv := st.KVRepo()

		if all {
			n, err := kv.RemovePrefix(ctx, storageKeyPrefix)
			if err != nil {
				return fmt.Errorf("reset sessions: %w", err)
			}
			fmt.Fprintf(out, "Removed %d saved session(s).\n", n)
			return nil
		}

		f, abs, err := loadQuiz(args[0])
		if err != nil {
			return err
		}
		qcfg, err := f.ToConfig(abs)
		if err != nil {
			return err
		}
		key := quiz.StorageKey(qcfg.ID, qcfg.Autosave.Pathname, qcfg.Autosave.ScopeToPath)
		if _, ok, err := kv.Get(ctx, key); err != nil {
			return err
		} else if !ok {
			fmt.Fprintf(out, "No saved answers for %s.\n", qcfg.ID)
			return nil
		}
		if err := kv.Remove(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
		fmt.Fprintf(out, "Removed saved answers for %s.\n", qcfg.ID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Remove the saved answers of every quiz")
}
