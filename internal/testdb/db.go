package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/phrazzld/repeat/migrations"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Postgres schema is shared by every test in the process, so it is migrated once.
var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDatabaseURL returns the Postgres URL for tests. It checks
// REPEAT_DATABASE_URL and DATABASE_URL in that order.
func GetTestDatabaseURL() string {
	if dbURL := os.Getenv("REPEAT_DATABASE_URL"); dbURL != "" {
		return dbURL
	}
	return os.Getenv("DATABASE_URL")
}

// GetTestDBWithT returns a migrated Postgres connection, skipping the test
// when no database URL is configured. The connection is closed on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("REPEAT_DATABASE_URL or DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() { CleanupDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	migrateOnce.Do(func() {
		migrateErr = migrations.Up(ctx, db, migrations.Postgres, nil)
	})
	require.NoError(t, migrateErr, "Failed to run migrations")
	return db
}

// OpenSQLiteWithT returns a migrated SQLite database in t.TempDir.
func OpenSQLiteWithT(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { CleanupDB(t, db) })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, migrations.Up(ctx, db, migrations.SQLite, nil), "Failed to run migrations")
	return db
}

// CleanupDB closes db, logging rather than failing on error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		t.Logf("Warning: failed to close database connection: %v", err)
	}
}
