package domain

import "encoding/json"

// Outcome tells the caller what to do with an item after a choice is made.
type Outcome int

// Possible outcomes.
const (
	// OutcomeReschedule stores the attached repetition record.
	OutcomeReschedule Outcome = iota

	// OutcomeDismiss leaves the record unchanged; the item is not due yet.
	OutcomeDismiss

	// OutcomeNever stops repeating the item.
	OutcomeNever
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeReschedule:
		return "reschedule"
	case OutcomeDismiss:
		return "dismiss"
	case OutcomeNever:
		return "never"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// NextRepetition is the record an item moves to once a choice is taken:
// a new repetition record, or one of the Dismiss and Never sentinels.
type NextRepetition struct {
	Outcome    Outcome    `json:"outcome"`
	Repetition Repetition `json:"repetition"` // Meaningful only for OutcomeReschedule
}

// MarshalJSON encodes the repetition only for OutcomeReschedule.
func (n NextRepetition) MarshalJSON() ([]byte, error) {
	if n.Outcome != OutcomeReschedule {
		return json.Marshal(struct {
			Outcome Outcome `json:"outcome"`
		}{n.Outcome})
	}
	type plain NextRepetition
	return json.Marshal(plain(n))
}

// Reschedule wraps r as the next record.
func Reschedule(r Repetition) NextRepetition {
	return NextRepetition{Outcome: OutcomeReschedule, Repetition: r}
}

// Dismiss returns the Dismiss sentinel.
func Dismiss() NextRepetition {
	return NextRepetition{Outcome: OutcomeDismiss}
}

// Never returns the Never sentinel.
func Never() NextRepetition {
	return NextRepetition{Outcome: OutcomeNever}
}

// Choice is one option offered to a reviewer.
type Choice struct {
	Label  string         `json:"label"`
	Next   NextRepetition `json:"next"`
	Rating Rating         `json:"rating,omitempty"` // Zero unless the choice is an adaptive rating
}

// Rated reports whether the choice records a memory-model rating.
func (c Choice) Rated() bool {
	return c.Rating.Valid()
}
