package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	for _, dialect := range []Dialect{Postgres, SQLite} {
		entries, err := FS.ReadDir(string(dialect))
		require.NoError(t, err, dialect)
		require.NotEmpty(t, entries, dialect)

		content, err := FS.ReadFile(string(dialect) + "/" + entries[0].Name())
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- +goose Up")
		assert.Contains(t, string(content), "-- +goose Down")
		assert.Contains(t, string(content), "CREATE TABLE review_log")
	}
}

func TestUnknownDialect(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(&sql.DB{}, Dialect("oracle"), nil)
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "revlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunnerSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)

	runner, err := NewRunner(db, SQLite, nil)
	require.NoError(t, err)

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.False(t, status[0].Applied)
	assert.True(t, strings.HasSuffix(status[0].Name, "_create_review_log.sql"))

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	version, err := runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, err = db.ExecContext(ctx,
		`SELECT id, item_id, review_time, rating, state, duration_ms FROM review_log LIMIT 0`)
	require.NoError(t, err)

	// Applying again is a no-op
	applied, err = runner.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	require.NoError(t, runner.Down(ctx))
	version, err = runner.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestUpRejectsInvalidRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, Up(ctx, db, SQLite, nil))

	_, err := db.ExecContext(ctx,
		`INSERT INTO review_log (id, item_id, review_time, rating, state, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		"01HX", "note.md", "2024-03-06T10:00:00.000000000Z", 5, 2, 0)
	assert.Error(t, err)
}
