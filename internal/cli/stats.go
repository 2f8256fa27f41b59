package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the review log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.reviewTime()
			if err != nil {
				return err
			}

			env, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			stats, err := env.reviews.Stats(cmd.Context(), now)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(w, "Total reviews\t%d\n", stats.TotalReviews)
			fmt.Fprintf(w, "Reviews today\t%d\n", stats.ReviewsToday)
			fmt.Fprintf(w, "Passed\t%d\n", stats.Passed)
			fmt.Fprintf(w, "Failed\t%d\n", stats.Failed)
			fmt.Fprintf(w, "Retention\t%.1f%%\n", stats.RetentionRate)
			return w.Flush()
		},
	}
}
