package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ReviewLogEntry is one row of the append-only review history.
// Rating and State hold exactly the values produced by the review engine.
type ReviewLogEntry struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	ReviewTime time.Time `json:"review_time"`
	Rating     Rating    `json:"rating"`
	State      CardState `json:"state"` // State after the review
	DurationMs int64     `json:"duration_ms"`
}

// NewReviewLogEntry creates a log entry with a time-sortable ID derived
// from the review time. Returns an error if validation fails or the review
// time precedes the Unix epoch.
func NewReviewLogEntry(
	itemID string,
	rating Rating,
	state CardState,
	reviewTime time.Time,
	duration time.Duration,
) (*ReviewLogEntry, error) {
	if reviewTime.Before(time.UnixMilli(0)) {
		return nil, NewValidationError("review_time", "cannot be before 1970", ErrInvalidReviewTime)
	}
	id, err := ulid.New(ulid.Timestamp(reviewTime), ulid.DefaultEntropy())
	if err != nil {
		return nil, NewValidationError("review_time", "cannot be encoded in an ID", fmt.Errorf("%w: %v", ErrInvalidReviewTime, err))
	}

	entry := &ReviewLogEntry{
		ID:         id.String(),
		ItemID:     itemID,
		ReviewTime: reviewTime.UTC(),
		Rating:     rating,
		State:      state,
		DurationMs: duration.Milliseconds(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the entry has valid data.
func (e *ReviewLogEntry) Validate() error {
	if strings.TrimSpace(e.ItemID) == "" {
		return NewValidationError("item_id", "cannot be empty", ErrEmptyItemID)
	}

	if !e.Rating.Valid() {
		return NewValidationError("rating", "must be between 1 and 4", ErrInvalidRating)
	}

	if !e.State.Valid() {
		return NewValidationError("state", "must be a known card state", ErrInvalidState)
	}

	if e.DurationMs < 0 {
		return NewValidationError("duration_ms", "cannot be negative", ErrNegativeDuration)
	}

	return nil
}

// ReviewStats summarizes the review log.
type ReviewStats struct {
	TotalReviews  int     `json:"total_reviews"`
	ReviewsToday  int     `json:"reviews_today"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	RetentionRate float64 `json:"retention_rate"` // Percentage of passed reviews, 0 with no reviews
}

// NewReviewStats derives the retention rate from pass and fail counts.
func NewReviewStats(total, today, passed, failed int) ReviewStats {
	stats := ReviewStats{
		TotalReviews: total,
		ReviewsToday: today,
		Passed:       passed,
		Failed:       failed,
	}
	if passed+failed > 0 {
		stats.RetentionRate = float64(passed) / float64(passed+failed) * 100
	}
	return stats
}
