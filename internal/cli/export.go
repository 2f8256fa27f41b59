package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/store"
)

// csvHeader is the column layout of exported review logs.
var csvHeader = []string{"card_id", "review_time", "review_rating", "review_state", "review_duration"}

func newExportCmd(opts *options) *cobra.Command {
	var (
		itemID string
		since  string
	)

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export the review log as CSV",
		Long: "Write the review log as CSV, oldest review first, to the given file or stdout. " +
			"Review times are Unix milliseconds and durations milliseconds.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listOpts := store.ListOptions{ItemID: itemID}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("invalid --since %q: must be RFC 3339", since)
				}
				listOpts.Since = t
			}

			env, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			entries, err := env.revlog.List(cmd.Context(), listOpts)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if len(args) == 0 || args[0] == "-" {
				return writeCSV(cmd.OutOrStdout(), entries)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := writeCSV(f, entries); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d reviews to %s\n", len(entries), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Only export reviews of this item")
	cmd.Flags().StringVar(&since, "since", "", "Only export reviews at or after this RFC 3339 time")
	return cmd
}

func writeCSV(w io.Writer, entries []*domain.ReviewLogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.ItemID,
			strconv.FormatInt(e.ReviewTime.UnixMilli(), 10),
			strconv.Itoa(int(e.Rating)),
			strconv.Itoa(int(e.State)),
			strconv.FormatInt(e.DurationMs, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
