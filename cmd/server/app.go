package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/platform/postgres"
	"github.com/phrazzld/repeat/internal/platform/sqlite"
	"github.com/phrazzld/repeat/internal/service/review"
	"github.com/phrazzld/repeat/internal/store"
	"github.com/phrazzld/repeat/migrations"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger  *slog.Logger
	db      *sql.DB
	dialect migrations.Dialect

	// Stores (using interfaces for proper abstraction)
	reviewLogStore store.ReviewLogStore

	// Service interfaces
	srsService    srs.Service
	reviewService review.Service
}

// newApplication creates a new application instance with all dependencies initialized.
// The database must already be open and migrated.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect migrations.Dialect,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		dialect: dialect,
	}

	settings, err := cfg.Schedule.Settings(cfg.FSRS)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule settings: %w", err)
	}

	// Initialize stores
	switch dialect {
	case migrations.Postgres:
		app.reviewLogStore = postgres.NewPostgresReviewLogStore(db, logger)
	case migrations.SQLite:
		app.reviewLogStore = sqlite.NewReviewLogStore(db, logger)
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnknownDialect, dialect)
	}

	// Initialize SRS service
	app.srsService, err = srs.NewServiceWithParams(settings.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	// Initialize review service
	app.reviewService, err = review.NewService(
		app.reviewLogStore,
		db,
		app.srsService,
		settings,
		cfg.Schedule.DefaultRecord(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	logger.Info("Application initialized successfully",
		slog.String("dialect", string(dialect)),
		slog.Bool("enqueue_non_repeating_notes", settings.EnqueueNonRepeatingNotes))
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
