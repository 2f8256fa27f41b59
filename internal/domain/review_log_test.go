package domain

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewLogEntry(t *testing.T) {
	t.Parallel()
	reviewTime := time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC)

	entry, err := NewReviewLogEntry("notes/go.md", RatingGood, StateReview, reviewTime, 4200*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, "notes/go.md", entry.ItemID)
	assert.Equal(t, RatingGood, entry.Rating)
	assert.Equal(t, StateReview, entry.State)
	assert.Equal(t, int64(4200), entry.DurationMs)

	id, err := ulid.Parse(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(reviewTime.UnixMilli()), id.Time())
}

func TestNewReviewLogEntryValidation(t *testing.T) {
	t.Parallel()
	now := time.Now()

	_, err := NewReviewLogEntry(" ", RatingGood, StateReview, now, 0)
	assert.ErrorIs(t, err, ErrEmptyItemID)

	_, err = NewReviewLogEntry("a", Rating(0), StateReview, now, 0)
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = NewReviewLogEntry("a", RatingEasy, CardState(7), now, 0)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = NewReviewLogEntry("a", RatingEasy, StateReview, now, -time.Second)
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestNewReviewLogEntryUnencodableTime(t *testing.T) {
	t.Parallel()

	for _, reviewTime := range []time.Time{
		time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(20000, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		var entry *ReviewLogEntry
		var err error
		require.NotPanics(t, func() {
			entry, err = NewReviewLogEntry("note.md", RatingGood, StateReview, reviewTime, 0)
		})
		assert.Nil(t, entry)
		assert.ErrorIs(t, err, ErrInvalidReviewTime)
		assert.ErrorIs(t, err, ErrValidation)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "review_time", validationErr.Field)
	}

	entry, err := NewReviewLogEntry("note.md", RatingGood, StateReview, time.UnixMilli(0), 0)
	require.NoError(t, err)
	assert.True(t, entry.ReviewTime.Equal(time.UnixMilli(0)))
}

func TestNewReviewStats(t *testing.T) {
	t.Parallel()

	stats := NewReviewStats(4, 2, 3, 1)
	assert.Equal(t, 75.0, stats.RetentionRate)

	empty := NewReviewStats(0, 0, 0, 0)
	assert.Zero(t, empty.RetentionRate)
}
