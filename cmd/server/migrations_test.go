package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/testdb"
	"github.com/phrazzld/repeat/migrations"
)

func TestRunMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testdb.OpenSQLiteWithT(t)
	log, logs := logger.NewTestLogger(t)

	run := func(command string) (string, error) {
		var out bytes.Buffer
		err := runMigrations(ctx, db, migrations.SQLite, command, &out, log)
		return out.String(), err
	}

	out, err := run("version")
	require.NoError(t, err)
	assert.Equal(t, "version 1\n", out)

	out, err = run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "00001  00001_create_review_log.sql")
	assert.NotContains(t, out, "pending")

	_, err = run("down")
	require.NoError(t, err)
	out, err = run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")

	out, err = run("up")
	require.NoError(t, err)
	assert.Equal(t, "applied 1 migration(s)\n", out)

	_, err = run("redo")
	assert.ErrorIs(t, err, ErrUnknownMigrationCommand)

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.NotEmpty(t, entries[0]["correlation_id"])
}
