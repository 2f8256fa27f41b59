package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/repeat/internal/domain"
)

var reference = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func TestParseRepeat(t *testing.T) {
	t.Parallel()

	rec := func(s domain.Strategy, period int, unit domain.PeriodUnit, tod domain.TimeOfDay) domain.Repetition {
		return domain.Repetition{Strategy: s, Period: period, Unit: unit, TimeOfDay: tod}
	}
	days := func(s domain.Strategy, tod domain.TimeOfDay, d ...time.Weekday) domain.Repetition {
		r := rec(s, 1, domain.UnitWeekdays, tod)
		r.Weekdays = domain.NewWeekdaySet(d...)
		return r
	}

	testCases := []struct {
		phrase   string
		expected domain.Repetition
	}{
		{"daily", rec(domain.StrategyPeriodic, 1, domain.UnitDay, domain.AM)},
		{"Weekly", rec(domain.StrategyPeriodic, 1, domain.UnitWeek, domain.AM)},
		{"monthly in the evening", rec(domain.StrategyPeriodic, 1, domain.UnitMonth, domain.PM)},
		{"annually", rec(domain.StrategyPeriodic, 1, domain.UnitYear, domain.AM)},
		{"every hour", rec(domain.StrategyPeriodic, 1, domain.UnitHour, domain.AM)},
		{"every 15 minutes", rec(domain.StrategyPeriodic, 15, domain.UnitMinute, domain.AM)},
		{"every 3 days pm", rec(domain.StrategyPeriodic, 3, domain.UnitDay, domain.PM)},
		{"spaced every 2 weeks", rec(domain.StrategySpaced, 2, domain.UnitWeek, domain.AM)},
		{"spaced daily in the evening", rec(domain.StrategySpaced, 1, domain.UnitDay, domain.PM)},
		{"fsrs", rec(domain.StrategyAdaptive, 1, domain.UnitDay, domain.AM)},
		{"FSRS", rec(domain.StrategyAdaptive, 1, domain.UnitDay, domain.AM)},
		{"every monday", days(domain.StrategyPeriodic, domain.AM, time.Monday)},
		{"every tue, thurs & sat", days(domain.StrategyPeriodic, domain.AM, time.Tuesday, time.Thursday, time.Saturday)},
		{"every friday and sunday in the evening", days(domain.StrategyPeriodic, domain.PM, time.Friday, time.Sunday)},
		{"spaced every wed pm", days(domain.StrategySpaced, domain.PM, time.Wednesday)},
		{"whenever", rec(domain.StrategyPeriodic, 1, domain.UnitDay, domain.AM)},
		{"spaced whenever", DefaultRepeat},
		{"", rec(domain.StrategyPeriodic, 1, domain.UnitDay, domain.AM)},
	}

	for _, tc := range testCases {
		t.Run(tc.phrase, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ParseRepeat(tc.phrase))
		})
	}
}

func TestParseRepeatUnknownPhraseKeepsPeriodicStrategy(t *testing.T) {
	t.Parallel()

	rec := ParseRepeat("now and then")
	assert.Equal(t, domain.StrategyPeriodic, rec.Strategy)
	assert.Equal(t, domain.UnitDay, rec.Unit)
	assert.Equal(t, 1, rec.Period)
}

func TestIsRepeatDisabled(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"n", "No", "FALSE", "off", "never", " never "} {
		assert.True(t, IsRepeatDisabled(v), v)
	}
	for _, v := range []string{"", "daily", "nope", "yes"} {
		assert.False(t, IsRepeatDisabled(v), v)
	}
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"y", "yes", "true", "on"} {
		assert.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "n", "false", "TRUE", "1"} {
		assert.False(t, ParseBool(v), v)
	}
}

func TestParseDueAt(t *testing.T) {
	t.Parallel()

	daily := ParseRepeat("daily")
	fridays := ParseRepeat("every friday")
	hourly := ParseRepeat("every 2 hours")

	testCases := []struct {
		name     string
		value    string
		rec      domain.Repetition
		expected time.Time
	}{
		{
			name:     "RFC 3339 with offset",
			value:    "2024-03-08T06:00:00+02:00",
			rec:      daily,
			expected: time.Date(2024, 3, 8, 4, 0, 0, 0, time.UTC),
		},
		{
			name:     "fractional seconds",
			value:    "2024-03-08T06:00:00.250Z",
			rec:      daily,
			expected: time.Date(2024, 3, 8, 6, 0, 0, 250_000_000, time.UTC),
		},
		{
			name:     "local minutes",
			value:    "2024-03-08T06:30",
			rec:      daily,
			expected: time.Date(2024, 3, 8, 6, 30, 0, 0, time.UTC),
		},
		{
			name:     "date only",
			value:    "2024-03-08",
			rec:      daily,
			expected: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "missing value advances one period",
			rec:      daily,
			expected: reference.AddDate(0, 0, 1),
		},
		{
			name:     "garbage advances one raw period",
			value:    "soon",
			rec:      hourly,
			expected: reference.Add(2 * time.Hour),
		},
		{
			name:     "weekday record finds next matching day",
			rec:      fridays,
			expected: time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tc.expected.Equal(ParseDueAt(tc.value, tc.rec, reference)))
		})
	}
}

func TestSerializeRepeat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		phrase   string
		expected string
	}{
		{"daily", "daily"},
		{"every day", "daily"},
		{"every week", "weekly"},
		{"every month", "monthly"},
		{"annually", "yearly"},
		{"every hour", "every hour"},
		{"every 15 minutes", "every 15 minutes"},
		{"every day in the evening", "every day in the evening"},
		{"every 2 weeks pm", "every 2 weeks in the evening"},
		{"spaced every day", "spaced every day"},
		{"spaced every 3 months", "spaced every 3 months"},
		{"fsrs", "fsrs"},
		{"every fri & mon", "every monday, friday"},
		{"spaced every sun in the evening", "spaced every sunday in the evening"},
	}

	for _, tc := range testCases {
		t.Run(tc.phrase, func(t *testing.T) {
			t.Parallel()
			serialized := SerializeRepeat(ParseRepeat(tc.phrase))
			assert.Equal(t, tc.expected, serialized)
			assert.Equal(t, ParseRepeat(tc.phrase), ParseRepeat(serialized))
		})
	}
}
