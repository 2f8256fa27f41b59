package codec

import (
	"strconv"
	"strings"

	"github.com/phrazzld/repeat/internal/domain"
)

// SerializeRepeat renders rec as a repeat phrase that ParseRepeat reads back
// to the same strategy, period, unit, time of day and weekdays.
func SerializeRepeat(rec domain.Repetition) string {
	if rec.Strategy == domain.StrategyAdaptive {
		return "fsrs"
	}

	var parts []string
	if rec.Strategy != domain.StrategyPeriodic {
		parts = append(parts, "spaced")
	}
	parts = append(parts, "every")

	if rec.Unit == domain.UnitWeekdays && !rec.Weekdays.Empty() {
		parts = append(parts, strings.Join(rec.Weekdays.Names(), ", "))
		return strings.Join(appendEvening(parts, rec.TimeOfDay), " ")
	}

	if rec.Strategy == domain.StrategyPeriodic && rec.Period == 1 && rec.TimeOfDay != domain.PM {
		switch rec.Unit {
		case domain.UnitDay:
			return "daily"
		case domain.UnitWeek:
			return "weekly"
		case domain.UnitMonth:
			return "monthly"
		case domain.UnitYear:
			return "yearly"
		}
	}

	unit := rec.Unit
	if !unit.Valid() || unit == domain.UnitWeekdays {
		unit = domain.UnitDay
	}
	name := unit.String()
	if rec.Period != 1 {
		parts = append(parts, strconv.Itoa(rec.Period))
		name += "s"
	}
	parts = append(parts, name)
	return strings.Join(appendEvening(parts, rec.TimeOfDay), " ")
}

func appendEvening(parts []string, tod domain.TimeOfDay) []string {
	if tod == domain.PM {
		return append(parts, "in the evening")
	}
	return parts
}
