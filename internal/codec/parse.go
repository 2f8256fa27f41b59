// Package codec converts between the textual key/value form of a repetition
// record (as stored in note frontmatter) and the domain types.
package codec

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/schedule"
)

// DefaultRepeat is the record used when a phrase cannot be parsed and for
// items that have no record of their own.
var DefaultRepeat = domain.Repetition{
	Strategy:  domain.StrategySpaced,
	Period:    1,
	Unit:      domain.UnitDay,
	TimeOfDay: domain.AM,
}

const joinedUnits = "minute|hour|day|week|month|year"

var (
	spacedPrefix   = regexp.MustCompile(`^spaced ?`)
	weekdayPattern = regexp.MustCompile(
		`^every\s+(.+?)(\s+in\s+the\s+(?:morning|evening)|\s+(?:am|pm))?$`)
	repetitionPattern = regexp.MustCompile(
		`(?P<description>daily|weekly|monthly|yearly|annually|` +
			`every (?:` + joinedUnits + `)|every (?P<period>\d+) (?:` + joinedUnits + `)s?)` +
			`(?P<suffix>.*)`)
	unitPattern        = regexp.MustCompile(`every (?:\d+ )?(` + joinedUnits + `)s?`)
	weekdaySeparators  = regexp.MustCompile(`,\s*|\s+and\s+|\s*&\s*`)
	disabledPattern    = regexp.MustCompile(`(?i)^(n|no|false|off|never)$`)
	truePattern        = regexp.MustCompile(`^(y|yes|true|on)$`)
	descriptionIndex   = repetitionPattern.SubexpIndex("description")
	periodIndex        = repetitionPattern.SubexpIndex("period")
	suffixIndex        = repetitionPattern.SubexpIndex("suffix")
	weekdayAbbreviated = map[string]time.Weekday{
		"monday":    time.Monday,
		"mon":       time.Monday,
		"tuesday":   time.Tuesday,
		"tue":       time.Tuesday,
		"tues":      time.Tuesday,
		"wednesday": time.Wednesday,
		"wed":       time.Wednesday,
		"thursday":  time.Thursday,
		"thu":       time.Thursday,
		"thur":      time.Thursday,
		"thurs":     time.Thursday,
		"friday":    time.Friday,
		"fri":       time.Friday,
		"saturday":  time.Saturday,
		"sat":       time.Saturday,
		"sunday":    time.Sunday,
		"sun":       time.Sunday,
	}
)

// ParseRepeat parses a repeat phrase such as "every 2 weeks in the evening",
// "spaced every day", "every mon, wed & fri" or "fsrs".
//
// Parameters:
//   - phrase: The raw phrase; matching is case-insensitive
//
// Returns:
//   - A record with strategy, period, unit, time of day and weekdays set.
//     Phrases that cannot be parsed yield DefaultRepeat with the strategy
//     implied by an optional "spaced" prefix.
func ParseRepeat(phrase string) domain.Repetition {
	processed := strings.ToLower(strings.TrimSpace(phrase))

	// Strip the spaced prefix
	strategy := domain.StrategyPeriodic
	if loc := spacedPrefix.FindStringIndex(processed); loc != nil {
		strategy = domain.StrategySpaced
		processed = processed[loc[1]:]
	}

	if processed == "fsrs" {
		return domain.Repetition{
			Strategy:  domain.StrategyAdaptive,
			Period:    1,
			Unit:      domain.UnitDay,
			TimeOfDay: domain.AM,
		}
	}

	// Weekday lists take precedence over unit phrases
	if m := weekdayPattern.FindStringSubmatch(processed); m != nil {
		if days := parseWeekdays(m[1]); !days.Empty() {
			return domain.Repetition{
				Strategy:  strategy,
				Period:    1,
				Unit:      domain.UnitWeekdays,
				TimeOfDay: parseTimeOfDay(m[2]),
				Weekdays:  days,
			}
		}
	}

	if m := repetitionPattern.FindStringSubmatch(processed); m != nil {
		period := DefaultRepeat.Period
		if raw := m[periodIndex]; raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				period = n
			}
		}
		return domain.Repetition{
			Strategy:  strategy,
			Period:    period,
			Unit:      parseUnit(m[descriptionIndex]),
			TimeOfDay: parseTimeOfDay(m[suffixIndex]),
		}
	}

	rec := DefaultRepeat
	rec.Strategy = strategy
	return rec
}

func parseWeekdays(list string) domain.WeekdaySet {
	var days domain.WeekdaySet
	for _, part := range weekdaySeparators.Split(strings.ToLower(list), -1) {
		if d, ok := weekdayAbbreviated[strings.TrimSpace(part)]; ok {
			days = days.With(d)
		}
	}
	return days
}

func parseUnit(description string) domain.PeriodUnit {
	description = strings.TrimSpace(description)
	switch description {
	case "daily":
		return domain.UnitDay
	case "weekly":
		return domain.UnitWeek
	case "monthly":
		return domain.UnitMonth
	case "yearly", "annually":
		return domain.UnitYear
	}

	m := unitPattern.FindStringSubmatch(description)
	if m == nil {
		return domain.UnitDay
	}
	switch m[1] {
	case "minute":
		return domain.UnitMinute
	case "hour":
		return domain.UnitHour
	case "week":
		return domain.UnitWeek
	case "month":
		return domain.UnitMonth
	case "year":
		return domain.UnitYear
	default:
		return domain.UnitDay
	}
}

func parseTimeOfDay(suffix string) domain.TimeOfDay {
	switch strings.Join(strings.Fields(suffix), " ") {
	case "in the evening", "pm":
		return domain.PM
	default:
		return domain.AM
	}
}

// IsRepeatDisabled reports whether a repeat value switches repetition off
// (a YAML false value or "never").
func IsRepeatDisabled(value string) bool {
	return disabledPattern.MatchString(strings.TrimSpace(value))
}

// ParseBool parses a YAML 1.1 true value. Anything else is false.
func ParseBool(value string) bool {
	return truePattern.MatchString(strings.TrimSpace(value))
}

var dueAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueAt parses a stored due timestamp. Timestamps without a zone are
// read in the reference's location.
//
// When value is empty or unparsable the due date is derived from the
// reference instead: the next matching weekday one to seven days ahead for
// weekday records, and the reference advanced by one raw period otherwise.
func ParseDueAt(value string, rec domain.Repetition, reference time.Time) time.Time {
	if value = strings.TrimSpace(value); value != "" {
		for _, layout := range dueAtLayouts {
			if t, err := time.ParseInLocation(layout, value, reference.Location()); err == nil {
				return t
			}
		}
	}

	if rec.Unit == domain.UnitWeekdays && !rec.Weekdays.Empty() {
		for ahead := 1; ahead <= 7; ahead++ {
			candidate := reference.AddDate(0, 0, ahead)
			if rec.Weekdays.Contains(candidate.Weekday()) {
				return candidate
			}
		}
		return reference.AddDate(0, 0, 1)
	}
	if !rec.Unit.Valid() {
		return reference
	}
	return schedule.AddPeriods(reference, rec.Unit, rec.Period)
}
