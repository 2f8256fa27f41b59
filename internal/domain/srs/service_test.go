package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err, "Failed to create memory model service")
	require.NotNil(t, service)

	assert.Equal(t, NewDefaultParams(), service.Params())
}

func TestNewServiceWithInvalidParams(t *testing.T) {
	t.Parallel()

	_, err := NewServiceWithParams(Params{RequestRetention: 2, MaximumInterval: 10})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestServicePreview(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)

	card := reviewCardAt(5, 5, 5)
	preview, err := service.Preview(card, reviewTime)
	require.NoError(t, err)
	require.Len(t, preview, 4)

	for _, rating := range domain.Ratings() {
		expected, err := Review(card, rating, reviewTime, NewDefaultParams())
		require.NoError(t, err)
		assert.Equal(t, expected, preview[rating])
	}
	assert.Equal(t, domain.StateReview, preview[domain.RatingGood].State)
}

func TestServicePreviewInvalidCard(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)

	broken := domain.NewCard(reviewTime)
	broken.Reps = -1
	_, err = service.Preview(broken, reviewTime)
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestServiceRetrievability(t *testing.T) {
	t.Parallel()
	service, err := NewDefaultService()
	require.NoError(t, err)

	card := reviewCardAt(10, 5, 10)
	assert.InDelta(t, 0.9, service.Retrievability(card, reviewTime), 1e-9)

	// Reviews in the future of now count as just reviewed
	assert.Equal(t, 1.0, service.Retrievability(card, reviewTime.Add(-30*24*time.Hour)))
}
