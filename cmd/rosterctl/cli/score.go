package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newScoreCmd(getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:     "score <participant> <quiz> <score>",
		Short:   "Record the score of a participant for a quiz",
		Example: "  rosterctl score alice q1 87.5",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[2], err)
			}

			r, err := newClient(cmd, getenv).RecordScore(cmd.Context(), args[0], args[1], score)
			if err != nil {
				return fmt.Errorf("record score: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, ok := r[args[0]]; !ok {
				fmt.Fprintf(out, "%s is not enrolled; nothing recorded.\n", args[0])

				return nil
			}
			fmt.Fprintf(out, "Recorded %s for %s in %s.\n", formatScore(&score), args[0], args[1])

			return nil
		},
	}
}
