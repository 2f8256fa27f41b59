package schedule

import (
	"fmt"
	"math"
	"time"
)

// Summarize describes how far dueAt is from now in the largest whole unit
// that fits, e.g. "5 minutes", "1 day", "3 weeks".
func Summarize(dueAt, now time.Time) string {
	seconds := secondsBetween(now, dueAt)

	minutes := int(math.Round(seconds / 60))
	if minutes < 60 {
		return pluralize(max(minutes, 1), "minute")
	}

	hours := int(math.Round(seconds / 3600))
	if hours < 24 {
		return pluralize(hours, "hour")
	}

	days := int(math.Round(seconds / 86400))
	switch {
	case days < 7:
		return pluralize(days, "day")
	case days < 30:
		return pluralize(int(math.Round(float64(days)/7)), "week")
	case days < 365:
		return pluralize(int(math.Round(float64(days)/30)), "month")
	default:
		return pluralize(int(math.Round(float64(days)/365)), "year")
	}
}

// SummarizeWeekday names the weekday of dueAt, prefixed with "next" unless
// it falls later in the same Monday-based week as now.
func SummarizeWeekday(dueAt, now time.Time) string {
	name := dueAt.Weekday().String()
	if startOfWeek(dueAt).Equal(startOfWeek(now)) && isoWeekday(dueAt) > isoWeekday(now) {
		return name
	}
	return "next " + name
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-(isoWeekday(t)-1), 0, 0, 0, 0, t.Location())
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
