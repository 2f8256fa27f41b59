package schedule

import (
	"math"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

const day = 24 * time.Hour

// NextDueAt computes when an item next falls due after being reviewed at now.
//
// Parameters:
//   - rec: The record being advanced; period values below 1 count as 1
//   - now: The review time
//   - settings: Supplies the morning and evening review times
//
// Returns:
//   - A timestamp strictly after now
//
// Algorithm behavior:
//   - Weekday records search forward from now, not from the stale due date,
//     for the first matching day within a week and use its review time
//   - Other records advance from their due date (or from just before now
//     when it is unset) by as many whole periods as needed to pass now, so
//     an item neglected for many periods catches up in one step
//   - Minute and hour periods keep their exact time of day
//   - Day and longer periods are snapped to the review time, moving one more
//     day ahead when snapping lands at or before now
func NextDueAt(rec domain.Repetition, now time.Time, settings Settings) time.Time {
	clock := settings.ReviewTime(rec.TimeOfDay)

	// Weekday records ignore catch-up entirely
	if rec.Unit == domain.UnitWeekdays && !rec.Weekdays.Empty() {
		return nextWeekday(now, rec.Weekdays, clock)
	}

	period := rec.EffectivePeriod()
	base := rec.DueAt
	if base.IsZero() {
		base = now.Add(-time.Second)
	}

	repetitions := 1
	if !base.After(now) {
		overdue := secondsBetween(base, now)
		repetitions = int(math.Ceil(overdue / approximatePeriod(rec.Unit, period)))
	}
	if repetitions < 1 {
		repetitions = 1
	}

	// Sub-day units are never snapped
	if rec.Unit.SubDay() {
		next := AddPeriods(base, rec.Unit, repetitions*period)
		for !next.After(now) {
			next = AddPeriods(next, rec.Unit, period)
		}
		return next
	}

	next := clock.On(AddPeriods(base, rec.Unit, repetitions*period))
	if !next.After(now) {
		// e.g. due at 07:00, reviewed at 08:00, snapped back to 06:00
		next = next.AddDate(0, 0, 1)
	}
	for !next.After(now) {
		next = clock.On(AddPeriods(next, rec.Unit, period))
	}
	return next
}

// nextWeekday returns the review time on the first day after now whose
// weekday is in days.
func nextWeekday(now time.Time, days domain.WeekdaySet, clock ClockTime) time.Time {
	for ahead := 1; ahead <= 7; ahead++ {
		candidate := now.AddDate(0, 0, ahead)
		if days.Contains(candidate.Weekday()) {
			return clock.On(candidate)
		}
	}
	// Unreachable for a non-empty set
	return clock.On(now.AddDate(0, 0, 1))
}

// approximatePeriod is the fixed length in seconds used to count missed
// periods. Months and years vary in length, so catch-up uses 30 and 365 days.
func approximatePeriod(unit domain.PeriodUnit, period int) float64 {
	var length time.Duration
	switch unit {
	case domain.UnitMinute:
		length = time.Minute
	case domain.UnitHour:
		length = time.Hour
	case domain.UnitWeek:
		length = 7 * day
	case domain.UnitMonth:
		length = 30 * day
	case domain.UnitYear:
		length = 365 * day
	default:
		length = day
	}
	return float64(period) * length.Seconds()
}

// secondsBetween returns b minus a in seconds. Unlike time.Time.Sub it does
// not saturate for spans longer than about 292 years.
func secondsBetween(a, b time.Time) float64 {
	return float64(b.Unix()-a.Unix()) + float64(b.Nanosecond()-a.Nanosecond())/1e9
}

// AddPeriods adds n units to t using calendar arithmetic for day and longer
// units.
func AddPeriods(t time.Time, unit domain.PeriodUnit, n int) time.Time {
	switch unit {
	case domain.UnitMinute:
		return addUnits(t, n, time.Minute)
	case domain.UnitHour:
		return addUnits(t, n, time.Hour)
	case domain.UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case domain.UnitMonth:
		return addMonths(t, n)
	case domain.UnitYear:
		return addMonths(t, 12*n)
	default:
		return t.AddDate(0, 0, n)
	}
}

// addUnits adds n sub-day units to t. Counts too large for a time.Duration
// carry their whole days through AddDate.
func addUnits(t time.Time, n int, unit time.Duration) time.Time {
	if limit := int64(math.MaxInt64 / unit); int64(n) <= limit && int64(n) >= -limit {
		return t.Add(time.Duration(n) * unit)
	}
	perDay := int(day / unit)
	return t.AddDate(0, 0, n/perDay).Add(time.Duration(n%perDay) * unit)
}

// addMonths adds months to t, clamping the day to the end of the target
// month instead of overflowing into the next one (Jan 31 + 1 month is the
// last day of February).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// addFraction adds a possibly fractional number of units to t. Whole days,
// weeks, months and years use calendar arithmetic; the fractional remainder
// is added as a fixed duration.
func addFraction(t time.Time, unit domain.PeriodUnit, amount float64) time.Time {
	switch unit {
	case domain.UnitMinute:
		return addFractionOf(t, amount, time.Minute)
	case domain.UnitHour:
		return addFractionOf(t, amount, time.Hour)
	case domain.UnitWeek:
		return addFraction(t, domain.UnitDay, amount*7)
	case domain.UnitMonth, domain.UnitYear:
		months := amount
		if unit == domain.UnitYear {
			months *= 12
		}
		whole, frac := math.Modf(months)
		return addMonths(t, int(whole)).Add(time.Duration(frac * 30 * float64(day)))
	default:
		whole, frac := math.Modf(amount)
		return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(day)))
	}
}

// maxExactNanos bounds the spans added as a single time.Duration.
const maxExactNanos = float64(math.MaxInt64 / 2)

// addFractionOf adds amount sub-day units to t, falling back to whole days
// plus a remainder when the span does not fit in a time.Duration.
func addFractionOf(t time.Time, amount float64, unit time.Duration) time.Time {
	nanos := amount * float64(unit)
	if math.Abs(nanos) < maxExactNanos {
		return t.Add(time.Duration(nanos))
	}
	whole, frac := math.Modf(nanos / float64(day))
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(day)))
}
