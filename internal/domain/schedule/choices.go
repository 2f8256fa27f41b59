package schedule

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

// Choice labels and fixed steps.
const (
	DismissLabel = "Dismiss"
	NeverLabel   = "Never"
	SkipLabel    = "5 minutes (skip)"

	// SkipPeriod postpones an item without otherwise changing its record.
	SkipPeriod = 5 * time.Minute

	// LearningStep is how soon an adaptive item rated Again comes back.
	LearningStep = 10 * time.Minute
)

// spacedMultipliers are offered for spaced records, in order.
var spacedMultipliers = []float64{0.5, 1, 1.5, 2}

// Choices returns the options offered for rec at now, in display order.
//
// A nil or invalid record yields no choices. A record that is not yet due
// yields a single Dismiss choice. Otherwise the first choice always skips
// the item for five minutes, followed by the strategy's own choices; weekday
// records always get periodic choices whatever their strategy. Synthesized
// records end with a Never choice when settings allow it.
func Choices(rec *domain.Repetition, now time.Time, settings Settings) []domain.Choice {
	if rec == nil || rec.Validate() != nil {
		return nil
	}

	if rec.DueAt.After(now) {
		return []domain.Choice{{Label: DismissLabel, Next: domain.Dismiss()}}
	}

	var choices []domain.Choice
	switch {
	case rec.Strategy == domain.StrategyPeriodic || rec.Unit == domain.UnitWeekdays:
		choices = periodicChoices(*rec, now, settings)
	case rec.Strategy == domain.StrategyAdaptive:
		choices = adaptiveChoices(*rec, now, settings)
	case rec.Strategy == domain.StrategySpaced:
		choices = uniqueLabels(spacedChoices(*rec, now, settings))
	default:
		return nil
	}

	if settings.EnqueueNonRepeatingNotes && rec.Virtual {
		choices = append(choices, domain.Choice{Label: NeverLabel, Next: domain.Never()})
	}
	return choices
}

// skipChoice postpones rec by SkipPeriod and leaves everything else alone.
func skipChoice(rec domain.Repetition, now time.Time) domain.Choice {
	rec.DueAt = now.Add(SkipPeriod)
	return domain.Choice{Label: SkipLabel, Next: domain.Reschedule(rec)}
}

func periodicChoices(rec domain.Repetition, now time.Time, settings Settings) []domain.Choice {
	dueAt := NextDueAt(rec, now, settings)

	label := Summarize(dueAt, now)
	if rec.Unit == domain.UnitWeekdays {
		label = SummarizeWeekday(dueAt, now)
	}

	next := rec
	next.DueAt = dueAt
	return []domain.Choice{
		skipChoice(rec, now),
		{Label: label, Next: domain.Reschedule(next)},
	}
}

// spacedChoices offers multiples of the period measured from now. Each
// choice stores its interval as whole hours so that later reviews scale
// from what the reviewer picked.
func spacedChoices(rec domain.Repetition, now time.Time, settings Settings) []domain.Choice {
	clock := settings.ReviewTime(rec.TimeOfDay)
	period := float64(rec.EffectivePeriod())
	weekOut := now.AddDate(0, 0, 7)

	choices := []domain.Choice{skipChoice(rec, now)}
	for _, multiplier := range spacedMultipliers {
		dueAt := addFraction(now, rec.Unit, multiplier*period)

		// Spaced items due in at least a week respect the time of day
		if !dueAt.Before(weekOut) {
			dueAt = clock.On(dueAt)
		}

		hours := int(math.Round(secondsBetween(now, dueAt) / time.Hour.Seconds()))
		if hours < 1 {
			hours = 1
		}

		next := rec
		next.DueAt = dueAt
		next.Period = hours
		next.Unit = domain.UnitHour
		choices = append(choices, domain.Choice{
			Label: fmt.Sprintf("%s (x%s)", Summarize(dueAt, now), strconv.FormatFloat(multiplier, 'f', -1, 64)),
			Next:  domain.Reschedule(next),
		})
	}
	return choices
}

// adaptiveChoices runs the memory model once per rating. Records without
// history are treated as never reviewed, whatever strategy they used before.
func adaptiveChoices(rec domain.Repetition, now time.Time, settings Settings) []domain.Choice {
	card, ok := rec.History.Snapshot()
	if !ok {
		card = domain.NewCard(now)
	}
	if card.LastReview.IsZero() {
		card.LastReview = now
	}

	choices := []domain.Choice{skipChoice(rec, now)}
	previews, err := settings.preview(card, now)
	if err != nil {
		return choices
	}
	for _, rating := range domain.Ratings() {
		reviewed := previews[rating]

		var (
			dueAt  time.Time
			period int
			unit   domain.PeriodUnit
		)
		switch {
		case rating == domain.RatingAgain:
			dueAt = now.Add(LearningStep)
			period = int(LearningStep / time.Minute)
			unit = domain.UnitMinute
		case reviewed.ScheduledDays < 1:
			period = max(1, int(math.Round(reviewed.ScheduledDays*24*60)))
			dueAt = now.Add(time.Duration(period) * time.Minute)
			unit = domain.UnitMinute
		default:
			period = int(math.Round(reviewed.ScheduledDays))
			dueAt = now.AddDate(0, 0, period)
			unit = domain.UnitDay
		}
		reviewed.Due = dueAt

		next := rec
		next.Strategy = domain.StrategyAdaptive
		next.DueAt = dueAt
		next.Period = period
		next.Unit = unit
		next.History = domain.HistoryOf(reviewed)

		choices = append(choices, domain.Choice{
			Label:  fmt.Sprintf("%s (%s)", rating, pluralize(period, unit.String())),
			Next:   domain.Reschedule(next),
			Rating: rating,
		})
	}
	return choices
}

// uniqueLabels drops choices whose label was already offered.
func uniqueLabels(choices []domain.Choice) []domain.Choice {
	seen := make(map[string]bool, len(choices))
	unique := choices[:0]
	for _, c := range choices {
		if seen[c.Label] {
			continue
		}
		seen[c.Label] = true
		unique = append(unique, c)
	}
	return unique
}
