package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/platform/sqlite"
	"github.com/phrazzld/repeat/migrations"
)

// setupAppDatabase opens the review log database: postgres when a database
// URL is configured, the local sqlite file otherwise. The sqlite database is
// migrated on open; postgres is left for the caller to migrate.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, migrations.Dialect, error) {
	if cfg.Database.URL == "" {
		db, err := sqlite.Open(ctx, cfg.Revlog.Path, logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open review log: %w", err)
		}
		logger.Info("Using local review log", slog.String("path", cfg.Revlog.Path))
		return db, migrations.SQLite, nil
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool with reasonable defaults
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		slog.String("url", maskDatabaseURL(cfg.Database.URL)))
	return db, migrations.Postgres, nil
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}

	return dbURL
}
