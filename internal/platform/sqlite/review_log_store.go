package sqlite

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

// timeLayout is fixed-width UTC so stored times compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ReviewLogStore implements store.ReviewLogStore on SQLite.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a SQLite review log store. If logger is nil,
// the default logger is used.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append
func (s *ReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if entry == nil {
		return fmt.Errorf("%w: nil review log entry", store.ErrInvalidEntity)
	}
	if err := entry.Validate(); err != nil {
		log.Warn("invalid review log entry",
			slog.String("error", err.Error()),
			slog.String("item_id", entry.ItemID))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_log (id, item_id, review_time, rating, state, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.ItemID, formatTime(entry.ReviewTime), int(entry.Rating), int(entry.State), entry.DurationMs)
	if err != nil {
		log.Error("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID))
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrReviewLogEntryExists, err)
		}
		return MapError(err)
	}

	log.Debug("review log entry appended",
		slog.String("entry_id", entry.ID),
		slog.String("item_id", entry.ItemID),
		slog.String("rating", entry.Rating.String()))
	return nil
}

// List implements store.ReviewLogStore.List
func (s *ReviewLogStore) List(ctx context.Context, opts store.ListOptions) ([]*domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conditions []string
		args       []any
	)
	if opts.ItemID != "" {
		conditions = append(conditions, "item_id = ?")
		args = append(args, opts.ItemID)
	}
	if !opts.Since.IsZero() {
		conditions = append(conditions, "review_time >= ?")
		args = append(args, formatTime(opts.Since))
	}

	query := `SELECT id, item_id, review_time, rating, state, duration_ms FROM review_log`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY review_time, id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list review log", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.ReviewLogEntry, 0)
	for rows.Next() {
		var (
			entry         domain.ReviewLogEntry
			reviewTime    string
			rating, state int
		)
		if err := rows.Scan(&entry.ID, &entry.ItemID, &reviewTime, &rating, &state, &entry.DurationMs); err != nil {
			return nil, MapError(err)
		}
		entry.ReviewTime, err = time.Parse(timeLayout, reviewTime)
		if err != nil {
			return nil, fmt.Errorf("invalid review time %q for entry %s: %w", reviewTime, entry.ID, err)
		}
		entry.Rating = domain.Rating(rating)
		entry.State = domain.CardState(state)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// Stats implements store.ReviewLogStore.Stats
func (s *ReviewLogStore) Stats(ctx context.Context, dayStart time.Time) (domain.ReviewStats, error) {
	var total, today, passed, failed int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN review_time >= ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rating > 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END), 0)
		FROM review_log
	`, formatTime(dayStart)).Scan(&total, &today, &passed, &failed)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute review stats",
			slog.String("error", err.Error()))
		return domain.ReviewStats{}, MapError(err)
	}

	return domain.NewReviewStats(total, today, passed, failed), nil
}

// WithTx implements store.ReviewLogStore.WithTx
func (s *ReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &ReviewLogStore{db: tx, logger: s.logger}
}
