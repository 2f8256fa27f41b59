package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

// Common errors
var (
	ErrInvalidCard = errors.New("invalid card")
)

// Service defines the interface for memory model operations bound to one
// parameter set.
type Service interface {
	// Preview computes the result of every rating without committing any
	Preview(card domain.Card, now time.Time) (map[domain.Rating]domain.Card, error)

	// Retrievability returns the recall probability of card at now
	Retrievability(card domain.Card, now time.Time) float64

	// Params returns the parameters the service was built with
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params Params
}

// NewDefaultService creates a new memory model service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new memory model service with custom
// parameters. The parameters are validated once here rather than on
// every review.
func NewServiceWithParams(params Params) (Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// Preview implements the Service interface
func (s *defaultService) Preview(card domain.Card, now time.Time) (map[domain.Rating]domain.Card, error) {
	if err := card.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidCard, err)
	}

	results := make(map[domain.Rating]domain.Card, 4)
	for _, rating := range domain.Ratings() {
		results[rating] = reviewCard(card, rating, now, s.params)
	}
	return results, nil
}

// Retrievability implements the Service interface
func (s *defaultService) Retrievability(card domain.Card, now time.Time) float64 {
	if card.LastReview.IsZero() {
		return Retrievability(0, card.Stability)
	}
	elapsed := now.Sub(card.LastReview).Hours() / dayDuration.Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	return Retrievability(elapsed, card.Stability)
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return s.params
}
