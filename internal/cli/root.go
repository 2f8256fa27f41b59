// Package cli implements the repeat command line: parsing repeat phrases,
// listing and committing review choices against a local review log, and
// summarizing or exporting that log.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/platform/sqlite"
	"github.com/phrazzld/repeat/internal/service/review"
	"github.com/phrazzld/repeat/internal/store"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	revlogPath string
	now        string
	jsonOutput bool
	verbose    bool
}

// NewRootCmd returns the top-level repeat command with all subcommands
// attached. Each call builds an independent command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "repeat",
		Short:         "Schedule repeating notes",
		Long:          "Parse repeat phrases, review due notes and inspect the local review log.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: config.yaml in . or $HOME/.repeat)")
	pf.StringVar(&opts.revlogPath, "revlog", "", "Review log database path (overrides revlog.path)")
	pf.StringVar(&opts.now, "now", "", "Review time in RFC 3339 (default: current time)")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newParseCmd(opts),
		newChoicesCmd(opts),
		newReviewCmd(opts),
		newScheduleCmd(opts),
		newStatsCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// reviewTime resolves --now.
func (o *options) reviewTime() (time.Time, error) {
	if o.now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: must be RFC 3339", o.now)
	}
	return t, nil
}

// environment is the opened review log and the services built on it.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	revlog  store.ReviewLogStore
	reviews review.Service
}

// open loads configuration, sets up logging to stderr and opens the local
// review log.
func (o *options) open(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.revlogPath != "" {
		cfg.Revlog.Path = o.revlogPath
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log, err := logger.Setup(logger.LoggerConfig{Level: level, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, fmt.Errorf("set up logger: %w", err)
	}

	settings, err := cfg.Schedule.Settings(cfg.FSRS)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule settings: %w", err)
	}
	srsService, err := srs.NewServiceWithParams(settings.Params)
	if err != nil {
		return nil, fmt.Errorf("create SRS service: %w", err)
	}

	db, err := sqlite.Open(cmd.Context(), cfg.Revlog.Path, log)
	if err != nil {
		return nil, fmt.Errorf("open review log: %w", err)
	}

	revlog := sqlite.NewReviewLogStore(db, log)
	reviews, err := review.NewService(revlog, db, srsService, settings, cfg.Schedule.DefaultRecord(), log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create review service: %w", err)
	}

	return &environment{cfg: cfg, logger: log, db: db, revlog: revlog, reviews: reviews}, nil
}

// Close closes the review log.
func (e *environment) Close() error {
	return e.db.Close()
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
