package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rating is the recall quality a reviewer reports for an adaptive card.
// The numeric values are stored verbatim in review logs.
type Rating int

// Possible rating values, from forgot to effortless recall.
const (
	RatingAgain Rating = iota + 1
	RatingHard
	RatingGood
	RatingEasy
)

// Ratings returns every rating in presentation order.
func Ratings() []Rating {
	return []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}
}

// Valid reports whether r is one of the four known ratings.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Passed reports whether the rating counts as a successful recall.
func (r Rating) Passed() bool {
	return r >= RatingHard && r <= RatingEasy
}

// String returns the capitalized rating name used in choice labels.
func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "Again"
	case RatingHard:
		return "Hard"
	case RatingGood:
		return "Good"
	case RatingEasy:
		return "Easy"
	default:
		return fmt.Sprintf("Rating(%d)", int(r))
	}
}

// ParseRating converts a rating name ("again", "Good") or number ("1".."4")
// into a Rating.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again", "forgot", "1":
		return RatingAgain, nil
	case "hard", "2":
		return RatingHard, nil
	case "good", "3":
		return RatingGood, nil
	case "easy", "4":
		return RatingEasy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
}

// CardState is the discrete learning phase of an adaptive card.
// The numeric values are persisted, so they must not be reordered.
type CardState int

// Possible card states.
const (
	StateNew CardState = iota
	StateLearning
	StateReview
	StateRelearning
)

// Valid reports whether s is a known state.
func (s CardState) Valid() bool {
	return s >= StateNew && s <= StateRelearning
}

// String returns the state name.
func (s CardState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateLearning:
		return "Learning"
	case StateReview:
		return "Review"
	case StateRelearning:
		return "Relearning"
	default:
		return fmt.Sprintf("CardState(%d)", int(s))
	}
}

// Card is the adaptive memory state of a single item.
// Cards are values: the review engine returns a new Card for every review
// and never modifies its input.
type Card struct {
	Due           time.Time `json:"due"`            // Advisory; set by the scheduler, not the review engine
	Stability     float64   `json:"stability"`      // Days until recall probability decays to the target retention
	Difficulty    float64   `json:"difficulty"`     // 0 while New, otherwise within [1, 10]
	ElapsedDays   float64   `json:"elapsed_days"`   // Gap between the last two reviews
	ScheduledDays float64   `json:"scheduled_days"` // Interval chosen by the most recent review
	Reps          int       `json:"reps"`
	Lapses        int       `json:"lapses"`
	State         CardState `json:"state"`
	LastReview    time.Time `json:"last_review"`
}

// NewCard creates a card in the New state with zeroed numerics.
// Both the due and last review timestamps are set to now.
func NewCard(now time.Time) Card {
	return Card{
		Due:        now,
		LastReview: now,
		State:      StateNew,
	}
}

// Validate checks that the card holds values the review engine accepts.
func (c Card) Validate() error {
	if !c.State.Valid() {
		return NewValidationError("state", "must be New, Learning, Review or Relearning", ErrInvalidState)
	}

	if c.Stability < 0 {
		return NewValidationError("stability", "cannot be negative", ErrValidation)
	}

	if c.Reps < 0 || c.Lapses < 0 {
		return NewValidationError("reps", "counters cannot be negative", ErrValidation)
	}

	return nil
}

// InferCardState guesses the state of a card whose stored history lacks it.
// Zero reps means it was never reviewed; a couple of reps with sub-day
// stability still counts as learning.
func InferCardState(reps int, stability float64) CardState {
	switch {
	case reps == 0:
		return StateNew
	case reps < 3 && stability < 1:
		return StateLearning
	default:
		return StateReview
	}
}
