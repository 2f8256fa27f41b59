package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/schedule"
	"github.com/phrazzld/repeat/internal/service/review"
)

func newChoicesCmd(opts *options) *cobra.Command {
	var record recordFlags

	cmd := &cobra.Command{
		Use:   "choices",
		Short: "List the review choices offered for a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.reviewTime()
			if err != nil {
				return err
			}
			rec, err := record.load()
			if err != nil {
				return err
			}

			env, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			set, err := env.reviews.Choices(cmd.Context(), review.ChoicesRequest{
				Fields:    rec.fields,
				CreatedAt: rec.createdAt,
				Now:       now,
			})
			if err != nil {
				return fmt.Errorf("choices: %w", err)
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), set)
			}
			if len(set.Choices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Not scheduled for review.")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "INDEX\tCHOICE\tNEXT\tDUE")
			for i, choice := range set.Choices {
				due := "-"
				if choice.Next.Outcome == domain.OutcomeReschedule {
					dueAt := choice.Next.Repetition.DueAt
					due = fmt.Sprintf("%s (in %s)", dueAt.Format(time.RFC3339), schedule.Summarize(dueAt, now))
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, choice.Label, choice.Next.Outcome, due)
			}
			return w.Flush()
		},
	}

	record.bind(cmd)
	return cmd
}
