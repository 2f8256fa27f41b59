// Package main implements the entry point for the repeat API server,
// which offers and records review choices for repeating notes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/repeat/internal/config"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/migrations"
)

// main is the entry point for the repeat server.
// It loads configuration, sets up logging, opens the review log database
// and either runs a migration command or starts the HTTP server.
func main() {
	configPath := flag.String("config", "", "Path to a config file (default: search for config.yaml)")
	migrateCmd := flag.String("migrate", "", "Run a migration command (up, down, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *migrateCmd); err != nil {
		log.Printf("repeat server: %v", err)
		stop()
		os.Exit(1)
	}
}

// run wires the application together and blocks until the server stops
// or the migration command finishes.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, dialect, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Error closing database connection", slog.String("error", err.Error()))
			}
		}()
		return runMigrations(ctx, db, dialect, migrateCmd, os.Stdout, appLogger)
	}

	if dialect == migrations.Postgres {
		if err := migrations.Up(ctx, db, dialect, appLogger); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(cfg, appLogger, db, dialect)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment
// variables and the optional config file.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
