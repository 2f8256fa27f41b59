package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/repeat/migrations"
)

// ErrUnknownMigrationCommand is returned for a -migrate value other than
// up, down, status or version.
var ErrUnknownMigrationCommand = errors.New("unknown migration command")

// runMigrations executes a migration command against db, writing status and
// version output to out.
func runMigrations(
	ctx context.Context,
	db *sql.DB,
	dialect migrations.Dialect,
	command string,
	out io.Writer,
	logger *slog.Logger,
) error {
	// Use a correlation ID for all migration logs to allow tracing the entire operation
	migrationLogger := logger.With(
		slog.String("correlation_id", uuid.NewString()),
		slog.String("command", command),
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation", slog.String("dialect", string(dialect)))

	runner, err := migrations.NewRunner(db, dialect, migrationLogger)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		var applied int
		applied, err = runner.Up(ctx)
		if err == nil {
			_, err = fmt.Fprintf(out, "applied %d migration(s)\n", applied)
		}
	case "down":
		err = runner.Down(ctx)
	case "status":
		var status []migrations.Migration
		status, err = runner.Status(ctx)
		if err == nil {
			err = writeMigrationStatus(out, status)
		}
	case "version":
		var version int64
		version, err = runner.Version(ctx)
		if err == nil {
			_, err = fmt.Fprintf(out, "version %d\n", version)
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMigrationCommand, command)
	}

	migrationLogger.Info("Migration operation completed",
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()),
		slog.Bool("success", err == nil))
	return err
}

func writeMigrationStatus(out io.Writer, status []migrations.Migration) error {
	for _, m := range status {
		appliedAt := "pending"
		if m.Applied {
			appliedAt = m.AppliedAt.UTC().Format(time.RFC3339)
		}
		if _, err := fmt.Fprintf(out, "%05d  %-40s  %s\n", m.Version, m.Name, appliedAt); err != nil {
			return err
		}
	}
	return nil
}
