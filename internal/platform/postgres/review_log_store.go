package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if entry == nil {
		return fmt.Errorf("%w: nil review log entry", store.ErrInvalidEntity)
	}

	// Validate entry
	if err := entry.Validate(); err != nil {
		log.Warn("invalid review log entry",
			slog.String("error", err.Error()),
			slog.String("item_id", entry.ItemID))
		return err
	}

	query := `
		INSERT INTO review_log (id, item_id, review_time, rating, state, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.ItemID,
		entry.ReviewTime.UTC(),
		int(entry.Rating),
		int(entry.State),
		entry.DurationMs,
	)
	if err != nil {
		log.Error("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		return MapUniqueViolation(err, store.ErrReviewLogEntryExists)
	}

	log.Debug("review log entry appended",
		slog.String("entry_id", entry.ID),
		slog.String("item_id", entry.ItemID),
		slog.String("rating", entry.Rating.String()))
	return nil
}

// List implements store.ReviewLogStore.List
func (s *PostgresReviewLogStore) List(
	ctx context.Context,
	opts store.ListOptions,
) ([]*domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conditions []string
		args       []any
	)
	if opts.ItemID != "" {
		args = append(args, opts.ItemID)
		conditions = append(conditions, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if !opts.Since.IsZero() {
		args = append(args, opts.Since.UTC())
		conditions = append(conditions, fmt.Sprintf("review_time >= $%d", len(args)))
	}

	query := `SELECT id, item_id, review_time, rating, state, duration_ms FROM review_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY review_time, id"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list review log", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := make([]*domain.ReviewLogEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan review log entry", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed to iterate review log", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return entries, nil
}

func scanEntry(rows *sql.Rows) (*domain.ReviewLogEntry, error) {
	var (
		entry         domain.ReviewLogEntry
		reviewTime    time.Time
		rating, state int
	)
	if err := rows.Scan(&entry.ID, &entry.ItemID, &reviewTime, &rating, &state, &entry.DurationMs); err != nil {
		return nil, err
	}
	entry.ReviewTime = reviewTime.UTC()
	entry.Rating = domain.Rating(rating)
	entry.State = domain.CardState(state)
	return &entry, nil
}

// Stats implements store.ReviewLogStore.Stats
func (s *PostgresReviewLogStore) Stats(ctx context.Context, dayStart time.Time) (domain.ReviewStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN review_time >= $1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rating > 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END), 0)
		FROM review_log
	`

	var total, today, passed, failed int
	err := s.db.QueryRowContext(ctx, query, dayStart.UTC()).Scan(&total, &today, &passed, &failed)
	if err != nil {
		log.Error("failed to compute review stats", slog.String("error", err.Error()))
		return domain.ReviewStats{}, MapError(err)
	}

	return domain.NewReviewStats(total, today, passed, failed), nil
}

// WithTx implements store.ReviewLogStore.WithTx
// It returns a new ReviewLogStore instance that uses the provided transaction.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}
