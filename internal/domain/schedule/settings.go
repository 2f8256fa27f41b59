package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/srs"
)

// Settings errors
var (
	ErrInvalidClockTime  = errors.New("invalid clock time")
	ErrMorningAfterNoon  = errors.New("morning review time must be before 12:00")
	ErrEveningBeforeNoon = errors.New("evening review time must be at or after 12:00")
)

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a 24-hour "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("%w: hour in %q", ErrInvalidClockTime, s)
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: minute in %q", ErrInvalidClockTime, s)
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// String formats the time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns t with its time of day replaced by c, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, t.Location())
}

// Settings configures scheduling.
type Settings struct {
	// MorningReviewTime is when AM records with day-or-longer periods fall due.
	MorningReviewTime ClockTime

	// EveningReviewTime is when PM records with day-or-longer periods fall due.
	EveningReviewTime ClockTime

	// EnqueueNonRepeatingNotes offers a Never choice for synthesized records.
	EnqueueNonRepeatingNotes bool

	// Params configures the adaptive memory model.
	Params srs.Params

	// Model runs the memory model for adaptive choices. Nil reviews with
	// Params directly.
	Model Previewer
}

// Previewer computes the card resulting from each rating. srs.Service
// implements it.
type Previewer interface {
	Preview(card domain.Card, now time.Time) (map[domain.Rating]domain.Card, error)
}

// preview rates card with every rating using Model, or Params when no
// model is set.
func (s Settings) preview(card domain.Card, now time.Time) (map[domain.Rating]domain.Card, error) {
	if s.Model != nil {
		return s.Model.Preview(card, now)
	}
	results := make(map[domain.Rating]domain.Card, 4)
	for _, rating := range domain.Ratings() {
		reviewed, err := srs.Review(card, rating, now, s.Params)
		if err != nil {
			return nil, err
		}
		results[rating] = reviewed
	}
	return results, nil
}

// DefaultSettings returns 06:00 and 18:00 review times with the default
// memory model parameters.
func DefaultSettings() Settings {
	return Settings{
		MorningReviewTime: ClockTime{Hour: 6},
		EveningReviewTime: ClockTime{Hour: 18},
		Params:            srs.NewDefaultParams(),
	}
}

// Validate checks the review times and memory model parameters.
func (s Settings) Validate() error {
	if s.MorningReviewTime.Hour < 0 || s.MorningReviewTime.Hour >= 12 {
		return ErrMorningAfterNoon
	}
	if s.EveningReviewTime.Hour < 12 || s.EveningReviewTime.Hour > 23 {
		return ErrEveningBeforeNoon
	}
	return s.Params.Validate()
}

// ReviewTime returns the clock time configured for a time-of-day preference.
func (s Settings) ReviewTime(t domain.TimeOfDay) ClockTime {
	if t == domain.PM {
		return s.EveningReviewTime
	}
	return s.MorningReviewTime
}
