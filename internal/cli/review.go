package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/service/review"
)

func newReviewCmd(opts *options) *cobra.Command {
	var (
		record   recordFlags
		itemID   string
		choice   int
		duration time.Duration
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Commit one of the offered choices",
		Long: "Commit the choice at --choice (see the choices command), recording rated " +
			"reviews in the review log and printing the record to store.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if itemID == "" {
				itemID = record.file
			}
			if itemID == "" {
				return fmt.Errorf("--item is required without --file")
			}
			if write && record.file == "" {
				return fmt.Errorf("--write requires --file")
			}

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

			result, err := env.reviews.Commit(cmd.Context(), review.CommitRequest{
				ItemID:      itemID,
				Fields:      rec.fields,
				CreatedAt:   rec.createdAt,
				ChoiceIndex: choice,
				Duration:    duration,
				Now:         now,
			})
			if err != nil {
				return fmt.Errorf("review: %w", err)
			}

			if write && result.Write {
				if err := record.writeNote(rec, result.Fields); err != nil {
					return err
				}
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Choice.Label)
			if !result.Write {
				fmt.Fprintln(cmd.OutOrStdout(), "Record unchanged.")
				return nil
			}
			return printFields(cmd.OutOrStdout(), result.Fields, false)
		},
	}

	record.bind(cmd)
	cmd.Flags().StringVar(&itemID, "item", "", "Item ID for the review log (default: --file)")
	cmd.Flags().IntVar(&choice, "choice", 0, "Index of the choice to commit")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Time spent on the review")
	cmd.Flags().BoolVar(&write, "write", false, "Write the new record into the --file note")
	_ = cmd.MarkFlagRequired("choice")
	return cmd
}
