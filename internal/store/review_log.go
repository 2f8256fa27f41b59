package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

// ListOptions filters and limits a review log listing.
// Zero fields do not filter.
type ListOptions struct {
	ItemID string
	Since  time.Time // Inclusive lower bound on review time
	Limit  int
}

// ReviewLogStore defines the interface for the append-only review history.
// Entries are never updated or deleted.
type ReviewLogStore interface {
	// Append validates and stores a new entry.
	// Returns validation errors from the domain entry if data is invalid.
	// Returns ErrReviewLogEntryExists if an entry with the same ID exists.
	Append(ctx context.Context, entry *domain.ReviewLogEntry) error

	// List returns entries ordered by review time, oldest first.
	List(ctx context.Context, opts ListOptions) ([]*domain.ReviewLogEntry, error)

	// Stats summarizes all entries, counting those reviewed at or after
	// dayStart as today's.
	Stats(ctx context.Context, dayStart time.Time) (domain.ReviewStats, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ReviewLogStore
}
