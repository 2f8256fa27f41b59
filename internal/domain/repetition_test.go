package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaySet(t *testing.T) {
	t.Parallel()

	set := NewWeekdaySet(time.Friday, time.Tuesday, time.Sunday)

	assert.True(t, set.Contains(time.Tuesday))
	assert.True(t, set.Contains(time.Sunday))
	assert.False(t, set.Contains(time.Monday))
	assert.False(t, set.Empty())
	assert.Equal(t, []time.Weekday{time.Tuesday, time.Friday, time.Sunday}, set.Days())
	assert.Equal(t, []string{"tuesday", "friday", "sunday"}, set.Names())
	assert.True(t, WeekdaySet(0).Empty())

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["tuesday","friday","sunday"]`, string(data))
}

func TestAdaptiveHistory(t *testing.T) {
	t.Parallel()

	_, ok := NoHistory().Snapshot()
	assert.False(t, ok)
	assert.False(t, NoHistory().Present())

	card := NewCard(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	card.Stability = 3.2
	history := HistoryOf(card)

	// Mutating the original must not leak into the snapshot.
	card.Stability = 99

	snapshot, ok := history.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 3.2, snapshot.Stability)

	data, err := json.Marshal(NoHistory())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestRepetitionValidate(t *testing.T) {
	t.Parallel()

	valid := Repetition{
		Strategy:  StrategyPeriodic,
		Period:    1,
		Unit:      UnitDay,
		TimeOfDay: AM,
	}

	testCases := []struct {
		name    string
		mutate  func(r *Repetition)
		wantErr error
	}{
		{name: "valid", mutate: func(r *Repetition) {}},
		{name: "zero period is allowed", mutate: func(r *Repetition) { r.Period = 0 }},
		{name: "missing strategy", mutate: func(r *Repetition) { r.Strategy = 0 }, wantErr: ErrInvalidStrategy},
		{name: "missing unit", mutate: func(r *Repetition) { r.Unit = 0 }, wantErr: ErrInvalidPeriodUnit},
		{name: "missing time of day", mutate: func(r *Repetition) { r.TimeOfDay = 0 }, wantErr: ErrInvalidTimeOfDay},
		{
			name:    "weekdays without days",
			mutate:  func(r *Repetition) { r.Unit = UnitWeekdays },
			wantErr: ErrMissingWeekdays,
		},
		{
			name: "weekdays with days",
			mutate: func(r *Repetition) {
				r.Unit = UnitWeekdays
				r.Weekdays = NewWeekdaySet(time.Monday)
			},
		},
		{
			name: "invalid history",
			mutate: func(r *Repetition) {
				card := NewCard(time.Now())
				card.State = CardState(-1)
				r.History = HistoryOf(card)
			},
			wantErr: ErrInvalidState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			err := r.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEffectivePeriod(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, Repetition{Period: 0}.EffectivePeriod())
	assert.Equal(t, 1, Repetition{Period: -4}.EffectivePeriod())
	assert.Equal(t, 3, Repetition{Period: 3}.EffectivePeriod())
}

func TestChoiceSentinels(t *testing.T) {
	t.Parallel()
	assert.Equal(t, OutcomeDismiss, Dismiss().Outcome)
	assert.Equal(t, OutcomeNever, Never().Outcome)
	assert.Equal(t, OutcomeReschedule, Reschedule(Repetition{Period: 2}).Outcome)
	assert.False(t, Choice{Label: "Dismiss"}.Rated())
	assert.True(t, Choice{Label: "Good (3 days)", Rating: RatingGood}.Rated())
}
