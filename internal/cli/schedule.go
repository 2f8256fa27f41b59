package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/service/review"
)

func newScheduleCmd(opts *options) *cobra.Command {
	var (
		record recordFlags
		hidden bool
	)

	cmd := &cobra.Command{
		Use:   "schedule [phrase]",
		Short: "Create a record from a repeat phrase",
		Long: "Print the record for a repeat phrase, due at its first occurrence. " +
			"With --file the record is written into the note's frontmatter.",
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

			fields, err := env.reviews.Schedule(cmd.Context(), review.ScheduleRequest{
				Repeat: strings.Join(args, " "),
				Hidden: hidden,
				Now:    now,
			})
			if err != nil {
				return fmt.Errorf("schedule: %w", err)
			}

			if record.file != "" {
				rec, err := record.load()
				if err != nil {
					return err
				}
				if err := record.writeNote(rec, fields); err != nil {
					return err
				}
			}
			return printFields(cmd.OutOrStdout(), fields, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&record.file, "file", "", "Markdown note to write the record into")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Hide the note's content until revealed")
	return cmd
}
