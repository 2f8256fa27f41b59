// Package review implements the review workflow: offering the scheduling
// choices for an item's repetition record, committing the chosen one to
// the review log, and summarizing review history.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain"
)

// ChoicesRequest identifies the record to offer choices for.
type ChoicesRequest struct {
	// Fields is the item's stored repetition record.
	Fields codec.Fields

	// CreatedAt is when the item was created. A synthesized record for an
	// item without one falls due one period after it. Zero means Now.
	CreatedAt time.Time

	// Now is the review time. Zero means the current time.
	Now time.Time
}

// ChoiceSet is the decoded record and the choices offered for it.
type ChoiceSet struct {
	// Record is nil when the item is not scheduled for review.
	Record  *domain.Repetition `json:"record,omitempty"`
	Choices []domain.Choice    `json:"choices"`

	// Retrievability is the current recall probability of an adaptive
	// record with review history, nil otherwise.
	Retrievability *float64 `json:"retrievability,omitempty"`
}

// CommitRequest selects one of the choices offered for an item.
type CommitRequest struct {
	ItemID      string
	Fields      codec.Fields
	CreatedAt   time.Time
	ChoiceIndex int
	Duration    time.Duration // Time spent on the review
	Now         time.Time
}

// CommitResult is the outcome of a committed choice.
type CommitResult struct {
	Choice domain.Choice `json:"choice"`

	// Fields is the record to store for the item. Write is false when the
	// stored record must be left unchanged.
	Fields codec.Fields `json:"fields"`
	Write  bool         `json:"write"`

	// Entry is the appended review log entry for rated choices, nil otherwise.
	Entry *domain.ReviewLogEntry `json:"entry,omitempty"`
}

// ScheduleRequest describes a record being authored from a repeat phrase.
type ScheduleRequest struct {
	// Repeat is the repeat phrase. Empty means the default record.
	Repeat string
	Hidden bool
	Now    time.Time
}

// Service provides the review workflow.
type Service interface {
	// Choices decodes the record and returns the choices offered at
	// req.Now. Items without a record get a synthesized one only when
	// non-repeating notes are enqueued; otherwise, and for disabled
	// records, the set is empty.
	Choices(ctx context.Context, req ChoicesRequest) (*ChoiceSet, error)

	// Commit recomputes the choices and applies the one at
	// req.ChoiceIndex. Rated choices append a review log entry.
	//
	// Returns ErrInvalidChoice when the index is out of range and
	// ErrNoChoices when nothing is offered for the item.
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)

	// Schedule builds the stored fields for a newly authored record,
	// due at its first occurrence after req.Now.
	Schedule(ctx context.Context, req ScheduleRequest) (codec.Fields, error)

	// Stats summarizes the review log, counting reviews since the start
	// of the day containing now as today's.
	Stats(ctx context.Context, now time.Time) (domain.ReviewStats, error)
}

// Common error types for the review service
var (
	// ErrNoChoices indicates the item is not scheduled for review.
	ErrNoChoices = errors.New("no choices offered for item")

	// ErrInvalidChoice indicates the choice index is out of range.
	ErrInvalidChoice = errors.New("invalid choice")
)

// ServiceError wraps errors from the review service with additional context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "commit", "stats")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewCommitError returns a new ServiceError for the commit operation.
func NewCommitError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "commit", Message: message, Err: err}
}

// NewStatsError returns a new ServiceError for the stats operation.
func NewStatsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "stats", Message: message, Err: err}
}
