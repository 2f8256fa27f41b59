package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain"
)

// parsedPhrase is the output of the parse command.
type parsedPhrase struct {
	Repeat    string            `json:"repeat"` // Canonical phrase
	Disabled  bool              `json:"disabled"`
	Strategy  domain.Strategy   `json:"strategy,omitempty"`
	Period    int               `json:"period,omitempty"`
	Unit      domain.PeriodUnit `json:"unit,omitempty"`
	TimeOfDay domain.TimeOfDay  `json:"time_of_day,omitempty"`
	Weekdays  domain.WeekdaySet `json:"weekdays,omitempty"`
}

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <phrase>",
		Short: "Show how a repeat phrase is understood",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase := strings.Join(args, " ")

			var out parsedPhrase
			if codec.IsRepeatDisabled(phrase) {
				out = parsedPhrase{Repeat: "never", Disabled: true}
			} else {
				rec := codec.ParseRepeat(phrase)
				out = parsedPhrase{
					Repeat:    codec.SerializeRepeat(rec),
					Strategy:  rec.Strategy,
					Period:    rec.Period,
					Unit:      rec.Unit,
					TimeOfDay: rec.TimeOfDay,
				}
				if rec.Unit == domain.UnitWeekdays {
					out.Weekdays = rec.Weekdays
				}
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(w, "repeat\t%s\n", out.Repeat)
			if out.Disabled {
				fmt.Fprintln(w, "disabled\ttrue")
				return w.Flush()
			}
			fmt.Fprintf(w, "strategy\t%s\n", out.Strategy)
			fmt.Fprintf(w, "period\t%d\n", out.Period)
			fmt.Fprintf(w, "unit\t%s\n", out.Unit)
			fmt.Fprintf(w, "time of day\t%s\n", out.TimeOfDay)
			if !out.Weekdays.Empty() {
				fmt.Fprintf(w, "weekdays\t%s\n", strings.Join(out.Weekdays.Names(), ", "))
			}
			return w.Flush()
		},
	}
}
