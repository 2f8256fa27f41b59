package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phrazzld/repeat/internal/domain"
)

// Common errors returned by Decode.
var (
	// ErrNoRepeat indicates the fields carry no repeat value.
	ErrNoRepeat = errors.New("no repeat value")

	// ErrRepeatDisabled indicates the repeat value switches repetition off.
	ErrRepeatDisabled = errors.New("repetition disabled")
)

// Scalar is a textual field value. It accepts any scalar on input so that
// numbers, booleans and timestamps written without quotes still decode.
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*s = Scalar(trimmed)
		return nil
	default:
		return errors.New("field value must be a scalar")
	}
}

// UnmarshalYAML keeps the scalar's source text, so timestamps are not
// reinterpreted by the YAML resolver.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("field value must be a scalar")
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

// String returns the trimmed value.
func (s Scalar) String() string {
	return strings.TrimSpace(string(s))
}

// Fields is the key/value form of a repetition record.
type Fields struct {
	Repeat         Scalar `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	DueAt          Scalar `yaml:"due_at,omitempty" json:"due_at,omitempty"`
	Hidden         Scalar `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	FSRSStability  Scalar `yaml:"fsrs_stability,omitempty" json:"fsrs_stability,omitempty"`
	FSRSDifficulty Scalar `yaml:"fsrs_difficulty,omitempty" json:"fsrs_difficulty,omitempty"`
	FSRSReps       Scalar `yaml:"fsrs_reps,omitempty" json:"fsrs_reps,omitempty"`
	FSRSLapses     Scalar `yaml:"fsrs_lapses,omitempty" json:"fsrs_lapses,omitempty"`
	FSRSLastReview Scalar `yaml:"fsrs_last_review,omitempty" json:"fsrs_last_review,omitempty"`
	FSRSState      Scalar `yaml:"fsrs_state,omitempty" json:"fsrs_state,omitempty"`
}

// pairs lists the fields in frontmatter order.
func (f Fields) pairs() [][2]string {
	return [][2]string{
		{"repeat", f.Repeat.String()},
		{"due_at", f.DueAt.String()},
		{"hidden", f.Hidden.String()},
		{"fsrs_stability", f.FSRSStability.String()},
		{"fsrs_difficulty", f.FSRSDifficulty.String()},
		{"fsrs_reps", f.FSRSReps.String()},
		{"fsrs_lapses", f.FSRSLapses.String()},
		{"fsrs_last_review", f.FSRSLastReview.String()},
		{"fsrs_state", f.FSRSState.String()},
	}
}

// Decode builds a repetition record from its fields.
//
// Parameters:
//   - fields: The stored key/value form
//   - reference: Anchor for a missing or unparsable due date, usually the
//     current time
//
// Returns:
//   - The decoded record, with adaptive history attached when a usable
//     stability value is stored
//   - ErrNoRepeat when the repeat value is empty
//   - ErrRepeatDisabled when the repeat value turns repetition off
func Decode(fields Fields, reference time.Time) (domain.Repetition, error) {
	phrase := fields.Repeat.String()
	if phrase == "" {
		return domain.Repetition{}, ErrNoRepeat
	}
	if IsRepeatDisabled(phrase) {
		return domain.Repetition{}, ErrRepeatDisabled
	}

	rec := ParseRepeat(phrase)
	rec.DueAt = ParseDueAt(fields.DueAt.String(), rec, reference)
	rec.Hidden = ParseBool(fields.Hidden.String())

	if card, ok := decodeCard(fields, reference); ok {
		card.Due = rec.DueAt
		rec.History = domain.HistoryOf(card)
	}
	return rec, nil
}

// decodeCard reads the adaptive fields. A negative or non-finite stability
// means no history. Missing or negative counters read as zero and a missing
// or unknown state is inferred from the counters.
func decodeCard(fields Fields, reference time.Time) (domain.Card, bool) {
	stability, err := strconv.ParseFloat(fields.FSRSStability.String(), 64)
	if err != nil || stability < 0 || math.IsInf(stability, 0) || math.IsNaN(stability) {
		return domain.Card{}, false
	}

	card := domain.Card{Stability: stability}
	if d, err := strconv.ParseFloat(fields.FSRSDifficulty.String(), 64); err == nil && !math.IsInf(d, 0) && !math.IsNaN(d) {
		card.Difficulty = d
	}
	if n, err := strconv.Atoi(fields.FSRSReps.String()); err == nil {
		card.Reps = max(n, 0)
	}
	if n, err := strconv.Atoi(fields.FSRSLapses.String()); err == nil {
		card.Lapses = max(n, 0)
	}
	if raw := fields.FSRSLastReview.String(); raw != "" {
		for _, layout := range dueAtLayouts {
			if t, err := time.ParseInLocation(layout, raw, reference.Location()); err == nil {
				card.LastReview = t
				break
			}
		}
	}

	card.State = domain.InferCardState(card.Reps, card.Stability)
	if n, err := strconv.Atoi(fields.FSRSState.String()); err == nil && domain.CardState(n).Valid() {
		card.State = domain.CardState(n)
	}
	return card, true
}

// NewVirtual synthesizes a record for an item that has none, due one period
// of defaults after reference (typically the item's creation time).
func NewVirtual(defaults domain.Repetition, reference time.Time) domain.Repetition {
	rec := defaults
	rec.DueAt = ParseDueAt("", rec, reference)
	rec.Hidden = false
	rec.Virtual = true
	rec.History = domain.NoHistory()
	return rec
}

// Encode renders the outcome of a choice as fields to write back.
//
// Returns:
//   - The fields to store
//   - false for Dismiss, which leaves the stored record unchanged
func Encode(next domain.NextRepetition) (Fields, bool) {
	switch next.Outcome {
	case domain.OutcomeNever:
		return Fields{Repeat: "never"}, true
	case domain.OutcomeDismiss:
		return Fields{}, false
	}

	rec := next.Repetition
	fields := Fields{
		Repeat: Scalar(SerializeRepeat(rec)),
		DueAt:  Scalar(rec.DueAt.Format(time.RFC3339Nano)),
		Hidden: Scalar(strconv.FormatBool(rec.Hidden)),
	}

	card, ok := rec.History.Snapshot()
	if rec.Strategy != domain.StrategyAdaptive || !ok {
		return fields, true
	}
	fields.FSRSStability = Scalar(strconv.FormatFloat(card.Stability, 'f', -1, 64))
	fields.FSRSDifficulty = Scalar(strconv.FormatFloat(card.Difficulty, 'f', -1, 64))
	fields.FSRSReps = Scalar(strconv.Itoa(card.Reps))
	fields.FSRSLapses = Scalar(strconv.Itoa(card.Lapses))
	if !card.LastReview.IsZero() {
		fields.FSRSLastReview = Scalar(card.LastReview.Format(time.RFC3339Nano))
	}
	fields.FSRSState = Scalar(strconv.Itoa(int(card.State)))
	return fields, true
}
