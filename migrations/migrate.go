package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
)

// Dialect names a supported database.
type Dialect string

// Supported dialects. The value is also the migration directory name.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ErrUnknownDialect is returned for a dialect without migrations.
var ErrUnknownDialect = errors.New("unknown migration dialect")

func (d Dialect) goose() (goose.Dialect, error) {
	switch d {
	case Postgres:
		return goose.DialectPostgres, nil
	case SQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, string(d))
	}
}

// Migration describes one migration file and whether it has been applied.
type Migration struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Runner applies the embedded migrations of one dialect to a database.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewRunner creates a Runner for db. If logger is nil, the default logger is used.
func NewRunner(db *sql.DB, dialect Dialect, logger *slog.Logger) (*Runner, error) {
	gooseDialect, err := dialect.goose()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "migrations"), slog.String("dialect", string(dialect)))

	dir, err := fs.Sub(FS, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{provider: provider, logger: logger}, nil
}

// Up applies all pending migrations and returns how many were applied.
func (r *Runner) Up(ctx context.Context) (int, error) {
	results, err := r.provider.Up(ctx)
	for _, result := range results {
		r.logResult(result)
	}
	if err != nil {
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}
	return len(results), nil
}

// Down rolls back the most recently applied migration.
func (r *Runner) Down(ctx context.Context) error {
	result, err := r.provider.Down(ctx)
	if result != nil {
		r.logResult(result)
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the current schema version, 0 when nothing is applied.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	version, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Status lists every embedded migration in version order.
func (r *Runner) Status(ctx context.Context) ([]Migration, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	migrations := make([]Migration, 0, len(statuses))
	for _, status := range statuses {
		migrations = append(migrations, Migration{
			Version:   status.Source.Version,
			Name:      filepath.Base(status.Source.Path),
			Applied:   status.State == goose.StateApplied,
			AppliedAt: status.AppliedAt,
		})
	}
	return migrations, nil
}

func (r *Runner) logResult(result *goose.MigrationResult) {
	attrs := []any{
		slog.Int64("version", result.Source.Version),
		slog.String("file", filepath.Base(result.Source.Path)),
		slog.String("direction", result.Direction),
		slog.Int64("duration_ms", result.Duration.Milliseconds()),
	}
	if result.Error != nil {
		r.logger.Error("migration failed", append(attrs, slog.String("error", result.Error.Error()))...)
		return
	}
	r.logger.Info("migration applied", attrs...)
}

// Up applies all pending migrations for dialect to db.
func Up(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	runner, err := NewRunner(db, dialect, logger)
	if err != nil {
		return err
	}
	_, err = runner.Up(ctx)
	return err
}
