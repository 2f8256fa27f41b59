package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/platform/sqlite"
	"github.com/phrazzld/repeat/internal/store"
	"github.com/phrazzld/repeat/internal/testdb"
)

type failingBeginner struct{}

func (failingBeginner) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	return nil, errors.New("connection refused")
}

func appendIn(t *testing.T, logStore store.ReviewLogStore) store.TxFn {
	return func(ctx context.Context, tx *sql.Tx) error {
		entry, err := domain.NewReviewLogEntry("note.md", domain.RatingGood, domain.StateReview,
			time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC), time.Second)
		require.NoError(t, err)
		return logStore.WithTx(tx).Append(ctx, entry)
	}
}

func count(t *testing.T, logStore store.ReviewLogStore) int {
	t.Helper()
	entries, err := logStore.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	return len(entries)
}

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		db := testdb.OpenSQLiteWithT(t)
		logStore := sqlite.NewReviewLogStore(db, nil)

		require.NoError(t, store.RunInTransaction(context.Background(), db, appendIn(t, logStore)))
		assert.Equal(t, 1, count(t, logStore))
	})

	t.Run("rolls back and returns the error unchanged", func(t *testing.T) {
		t.Parallel()
		db := testdb.OpenSQLiteWithT(t)
		logStore := sqlite.NewReviewLogStore(db, nil)
		sentinel := errors.New("choice rejected")

		err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			require.NoError(t, appendIn(t, logStore)(ctx, tx))
			return sentinel
		})
		assert.Same(t, sentinel, err)
		assert.Equal(t, 0, count(t, logStore))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		t.Parallel()
		db := testdb.OpenSQLiteWithT(t)
		logStore := sqlite.NewReviewLogStore(db, nil)

		assert.PanicsWithValue(t, "boom", func() {
			_ = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
				require.NoError(t, appendIn(t, logStore)(ctx, tx))
				panic("boom")
			})
		})
		assert.Equal(t, 0, count(t, logStore))
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		err := store.RunInTransaction(context.Background(), failingBeginner{}, func(context.Context, *sql.Tx) error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
	})
}
