package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEnrollCmd(getenv func(string) string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enroll <participants>",
		Short:   "Enroll a comma-separated list of participants in quizzes",
		Example: `  rosterctl enroll --quiz q1 --quiz q2 "alice, bob"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quizIDs, _ := cmd.Flags().GetStringArray("quiz")

			r, err := newClient(cmd, getenv).Enroll(cmd.Context(), args[0], quizIDs)
			if err != nil {
				return fmt.Errorf("enroll: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled in %s. Roster now has %d participants.\n",
				quizList(quizIDs), len(r))

			return nil
		},
	}
	cmd.Flags().StringArray("quiz", nil, "Quiz identifier to enroll in (repeatable)")

	return cmd
}

func quizList(quizIDs []string) string {
	if len(quizIDs) == 0 {
		return "no quizzes"
	}

	return strings.Join(quizIDs, ", ")
}
