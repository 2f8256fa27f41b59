package api

import (
	"strings"
	"time"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/schedule"
	"github.com/phrazzld/repeat/internal/service/review"
)

// ChoicesRequest is the payload for POST /api/choices.
type ChoicesRequest struct {
	Fields    codec.Fields `json:"fields"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
	Now       *time.Time   `json:"now,omitempty"`
}

// CommitRequest is the payload for POST /api/reviews.
type CommitRequest struct {
	ItemID      string       `json:"item_id" validate:"required,max=512"`
	Fields      codec.Fields `json:"fields"`
	ChoiceIndex *int         `json:"choice_index" validate:"required,min=0"`
	DurationMs  int64        `json:"duration_ms" validate:"min=0"`
	CreatedAt   *time.Time   `json:"created_at,omitempty"`
	Now         *time.Time   `json:"now,omitempty"`
}

// ScheduleRequest is the payload for POST /api/schedule.
type ScheduleRequest struct {
	Repeat string     `json:"repeat" validate:"max=256"`
	Hidden bool       `json:"hidden"`
	Now    *time.Time `json:"now,omitempty"`
}

// RecordResponse describes the decoded record choices were offered for.
type RecordResponse struct {
	Strategy string    `json:"strategy"`
	Repeat   string    `json:"repeat"`
	DueAt    time.Time `json:"due_at"`
	Hidden   bool      `json:"hidden"`
	Virtual  bool      `json:"virtual"`
}

// ChoiceResponse is one offered choice.
type ChoiceResponse struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Kind   string `json:"kind"` // reschedule, dismiss or never
	Rating string `json:"rating,omitempty"`

	// Fields is the record stored when the choice is taken; Write is false
	// when the stored record stays as it is.
	Fields codec.Fields `json:"fields"`
	Write  bool         `json:"write"`

	DueAt   *time.Time `json:"due_at,omitempty"`
	Summary string     `json:"summary,omitempty"` // Relative due time, e.g. "in 2 days"
}

// ChoicesResponse is the response for POST /api/choices.
type ChoicesResponse struct {
	Record         *RecordResponse  `json:"record,omitempty"`
	Choices        []ChoiceResponse `json:"choices"`
	Retrievability *float64         `json:"retrievability,omitempty"`
}

// CommitResponse is the response for POST /api/reviews.
type CommitResponse struct {
	Label   string       `json:"label"`
	Kind    string       `json:"kind"`
	Fields  codec.Fields `json:"fields"`
	Write   bool         `json:"write"`
	Rating  string       `json:"rating,omitempty"`
	State   string       `json:"state,omitempty"`
	EntryID string       `json:"entry_id,omitempty"`
}

// ScheduleResponse is the response for POST /api/schedule.
type ScheduleResponse struct {
	Fields codec.Fields `json:"fields"`
}

// ratingName returns the lowercase rating name, empty for unrated choices.
func ratingName(r domain.Rating) string {
	if !r.Valid() {
		return ""
	}
	return strings.ToLower(r.String())
}

func choiceToResponse(index int, choice domain.Choice, now time.Time) ChoiceResponse {
	fields, write := codec.Encode(choice.Next)
	resp := ChoiceResponse{
		Index:  index,
		Label:  choice.Label,
		Kind:   choice.Next.Outcome.String(),
		Rating: ratingName(choice.Rating),
		Fields: fields,
		Write:  write,
	}
	if choice.Next.Outcome == domain.OutcomeReschedule {
		dueAt := choice.Next.Repetition.DueAt
		resp.DueAt = &dueAt
		resp.Summary = schedule.Summarize(dueAt, now)
	}
	return resp
}

func choiceSetToResponse(set *review.ChoiceSet, now time.Time) ChoicesResponse {
	resp := ChoicesResponse{
		Choices:        make([]ChoiceResponse, 0, len(set.Choices)),
		Retrievability: set.Retrievability,
	}
	if set.Record != nil {
		resp.Record = &RecordResponse{
			Strategy: set.Record.Strategy.String(),
			Repeat:   codec.SerializeRepeat(*set.Record),
			DueAt:    set.Record.DueAt,
			Hidden:   set.Record.Hidden,
			Virtual:  set.Record.Virtual,
		}
	}
	for i, choice := range set.Choices {
		resp.Choices = append(resp.Choices, choiceToResponse(i, choice, now))
	}
	return resp
}

func commitResultToResponse(result *review.CommitResult) CommitResponse {
	resp := CommitResponse{
		Label:  result.Choice.Label,
		Kind:   result.Choice.Next.Outcome.String(),
		Fields: result.Fields,
		Write:  result.Write,
		Rating: ratingName(result.Choice.Rating),
	}
	if result.Entry != nil {
		resp.State = strings.ToLower(result.Entry.State.String())
		resp.EntryID = result.Entry.ID
	}
	return resp
}

// timeOrZero dereferences an optional request time.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
