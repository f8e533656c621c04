package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/starquake/quizroster/internal/roster"
)

func newListCmd(getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every participant's scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newClient(cmd, getenv).List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			if len(r) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No participants enrolled.")

				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PARTICIPANT\tQUIZ\tSCORE")
			for _, name := range r.Names() {
				for _, quizID := range quizOrder(r[name]) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", name, quizID, formatScore(r[name].Scores[quizID]))
				}
			}

			return tw.Flush()
		},
	}
}

func newStandingsCmd(getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show participants ranked by average score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			standings, err := newClient(cmd, getenv).Standings(cmd.Context())
			if err != nil {
				return fmt.Errorf("standings: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tPARTICIPANT\tCOMPLETED\tAVERAGE")
			for i, s := range standings {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f\n", i+1, s.Name, s.Completed, s.Average)
			}

			return tw.Flush()
		},
	}
}

// quizOrder lists the enrolled quizzes first, then any extra scored quizzes in sorted order.
func quizOrder(p roster.Participant) []string {
	seen := make(map[string]bool, len(p.Quizzes))
	order := make([]string, 0, len(p.Scores))
	for _, id := range p.Quizzes {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(p.Scores)) {
		if !seen[id] {
			order = append(order, id)
		}
	}

	return order
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}

	return strconv.FormatFloat(*score, 'f', -1, 64)
}
