package config

import (
	"fmt"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/schedule"
	"github.com/phrazzld/repeat/internal/domain/srs"
)

// Settings converts the schedule section, together with the memory model
// overrides, into scheduling settings. Review times and parameters are
// checked here rather than silently replaced with defaults.
func (c ScheduleConfig) Settings(fsrs FSRSConfig) (schedule.Settings, error) {
	morning, err := schedule.ParseClockTime(c.MorningReviewTime)
	if err != nil {
		return schedule.Settings{}, fmt.Errorf("schedule.morning_review_time: %w", err)
	}
	evening, err := schedule.ParseClockTime(c.EveningReviewTime)
	if err != nil {
		return schedule.Settings{}, fmt.Errorf("schedule.evening_review_time: %w", err)
	}

	params, err := srs.NewParams(srs.ParamsConfig{
		RequestRetention: fsrs.RequestRetention,
		MaximumInterval:  fsrs.MaximumInterval,
		Weights:          fsrs.Weights,
	})
	if err != nil {
		return schedule.Settings{}, fmt.Errorf("fsrs: %w", err)
	}

	settings := schedule.Settings{
		MorningReviewTime:        morning,
		EveningReviewTime:        evening,
		EnqueueNonRepeatingNotes: c.EnqueueNonRepeatingNotes,
		Params:                   params,
	}
	if err := settings.Validate(); err != nil {
		return schedule.Settings{}, err
	}
	return settings, nil
}

// DefaultRecord parses the configured default repeat phrase, used for items
// without a record of their own.
func (c ScheduleConfig) DefaultRecord() domain.Repetition {
	return codec.ParseRepeat(c.DefaultRepeat)
}
