package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is usually wrapped in a ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRating is returned when a rating is outside Again..Easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidState is returned when a card state is not one of the known states.
	ErrInvalidState = errors.New("invalid card state")

	// ErrInvalidStrategy is returned when a repetition strategy is not known.
	ErrInvalidStrategy = errors.New("invalid repetition strategy")

	// ErrInvalidPeriodUnit is returned when a period unit is not known.
	ErrInvalidPeriodUnit = errors.New("invalid period unit")

	// ErrInvalidTimeOfDay is returned when a time of day is neither AM nor PM.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrMissingWeekdays is returned when a Weekdays repetition has no days.
	ErrMissingWeekdays = errors.New("weekday repetition requires at least one weekday")

	// ErrEmptyItemID is returned when a review log entry has no item.
	ErrEmptyItemID = errors.New("item ID cannot be empty")

	// ErrNegativeDuration is returned when a review duration is negative.
	ErrNegativeDuration = errors.New("review duration cannot be negative")

	// ErrInvalidReviewTime is returned when a review time cannot be encoded
	// in a review log entry ID.
	ErrInvalidReviewTime = errors.New("invalid review time")
)

// ValidationError describes a single invalid field on a domain entity.
// It unwraps to the specific sentinel and matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation, so every ValidationError
// can be detected without knowing the specific sentinel.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
