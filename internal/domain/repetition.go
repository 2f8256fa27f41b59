package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Strategy selects how a repetition record advances after a review.
type Strategy int

// Possible strategies. The zero value is deliberately invalid.
const (
	// StrategyPeriodic advances by a fixed period, catching up missed periods.
	StrategyPeriodic Strategy = iota + 1

	// StrategySpaced offers multiples of the period measured from now.
	StrategySpaced

	// StrategyAdaptive schedules from the memory model.
	StrategyAdaptive
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s >= StrategyPeriodic && s <= StrategyAdaptive
}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPeriodic:
		return "periodic"
	case StrategySpaced:
		return "spaced"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidStrategy
	}
	return []byte(s.String()), nil
}

// PeriodUnit is the unit a repetition period is measured in.
type PeriodUnit int

// Possible period units. The zero value is deliberately invalid.
const (
	UnitMinute PeriodUnit = iota + 1
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
	UnitWeekdays
)

// Valid reports whether u is a known unit.
func (u PeriodUnit) Valid() bool {
	return u >= UnitMinute && u <= UnitWeekdays
}

// SubDay reports whether the unit is shorter than a day.
// Sub-day due dates are never snapped to a review time.
func (u PeriodUnit) SubDay() bool {
	return u == UnitMinute || u == UnitHour
}

// String returns the singular lower-case unit name.
func (u PeriodUnit) String() string {
	switch u {
	case UnitMinute:
		return "minute"
	case UnitHour:
		return "hour"
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	case UnitWeekdays:
		return "weekdays"
	default:
		return fmt.Sprintf("PeriodUnit(%d)", int(u))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u PeriodUnit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, ErrInvalidPeriodUnit
	}
	return []byte(u.String()), nil
}

// TimeOfDay is the preferred review time for day-or-longer periods.
type TimeOfDay int

// Possible times of day.
const (
	AM TimeOfDay = iota + 1
	PM
)

// Valid reports whether t is AM or PM.
func (t TimeOfDay) Valid() bool {
	return t == AM || t == PM
}

// String returns "AM" or "PM".
func (t TimeOfDay) String() string {
	switch t {
	case AM:
		return "AM"
	case PM:
		return "PM"
	default:
		return fmt.Sprintf("TimeOfDay(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, ErrInvalidTimeOfDay
	}
	return []byte(t.String()), nil
}

// WeekdaySet is a set of days of the week stored as a bitmask.
type WeekdaySet uint8

// weekOrder lists weekdays Monday first, the order used for display.
var weekOrder = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns a copy of the set that also contains d.
func (s WeekdaySet) With(d time.Weekday) WeekdaySet {
	if d < time.Sunday || d > time.Saturday {
		return s
	}
	return s | 1<<uint(d)
}

// Contains reports whether d is in the set.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Empty reports whether the set has no days.
func (s WeekdaySet) Empty() bool {
	return s == 0
}

// Days returns the members Monday first.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for _, d := range weekOrder {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// Names returns the lower-case day names Monday first.
func (s WeekdaySet) Names() []string {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = strings.ToLower(d.String())
	}
	return names
}

// MarshalJSON encodes the set as a list of day names.
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// AdaptiveHistory is either empty (the item has never been reviewed under
// the adaptive strategy) or a snapshot of the memory card from its last
// adaptive review.
type AdaptiveHistory struct {
	card *Card
}

// NoHistory returns an empty history.
func NoHistory() AdaptiveHistory {
	return AdaptiveHistory{}
}

// HistoryOf returns a history holding a copy of c.
func HistoryOf(c Card) AdaptiveHistory {
	return AdaptiveHistory{card: &c}
}

// Snapshot returns a copy of the recorded card and true, or a zero Card and
// false when there is no history.
func (h AdaptiveHistory) Snapshot() (Card, bool) {
	if h.card == nil {
		return Card{}, false
	}
	return *h.card, true
}

// Present reports whether the history holds a card.
func (h AdaptiveHistory) Present() bool {
	return h.card != nil
}

// MarshalJSON encodes the card snapshot, or null for no history.
func (h AdaptiveHistory) MarshalJSON() ([]byte, error) {
	if h.card == nil {
		return []byte("null"), nil
	}
	return json.Marshal(h.card)
}

// Repetition is the scheduling record attached to an item.
type Repetition struct {
	Strategy  Strategy        `json:"strategy"`
	Period    int             `json:"period"`
	Unit      PeriodUnit      `json:"unit"`
	TimeOfDay TimeOfDay       `json:"time_of_day"`
	Weekdays  WeekdaySet      `json:"weekdays"` // Authoritative only when Unit is UnitWeekdays
	DueAt     time.Time       `json:"due_at"`   // Zero means already due
	Hidden    bool            `json:"hidden"`
	Virtual   bool            `json:"virtual"` // Synthesized default, not authored
	History   AdaptiveHistory `json:"history"`
}

// EffectivePeriod returns the period with zero and negative values
// replaced by 1.
func (r Repetition) EffectivePeriod() int {
	if r.Period < 1 {
		return 1
	}
	return r.Period
}

// Validate checks that the record can be scheduled.
// A non-positive period is not an error; schedulers treat it as 1.
func (r Repetition) Validate() error {
	if !r.Strategy.Valid() {
		return NewValidationError("strategy", "must be periodic, spaced or adaptive", ErrInvalidStrategy)
	}

	if !r.Unit.Valid() {
		return NewValidationError("unit", "must be a known period unit", ErrInvalidPeriodUnit)
	}

	if !r.TimeOfDay.Valid() {
		return NewValidationError("time_of_day", "must be AM or PM", ErrInvalidTimeOfDay)
	}

	if r.Unit == UnitWeekdays && r.Weekdays.Empty() {
		return NewValidationError("weekdays", "cannot be empty", ErrMissingWeekdays)
	}

	if card, ok := r.History.Snapshot(); ok {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("history: %w", err)
		}
	}

	return nil
}
