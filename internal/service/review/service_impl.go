package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/repeat/internal/codec"
	"github.com/phrazzld/repeat/internal/domain"
	"github.com/phrazzld/repeat/internal/domain/schedule"
	"github.com/phrazzld/repeat/internal/domain/srs"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	revlog     store.ReviewLogStore
	db         store.TxBeginner
	srsService srs.Service
	settings   schedule.Settings
	defaults   domain.Repetition
	clock      func() time.Time
	logger     *slog.Logger
}

// NewService creates a review Service.
//
// db may be nil, in which case review log entries are appended without a
// transaction. defaults is the record synthesized for items without one.
func NewService(
	revlog store.ReviewLogStore,
	db store.TxBeginner,
	srsService srs.Service,
	settings schedule.Settings,
	defaults domain.Repetition,
	logger *slog.Logger,
) (Service, error) {
	// Validate inputs
	if revlog == nil {
		panic("revlog cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule settings: %w", err)
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default record: %w", err)
	}

	// Adaptive choices run on the injected memory model
	settings.Params = srsService.Params()
	settings.Model = srsService

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		revlog:     revlog,
		db:         db,
		srsService: srsService,
		settings:   settings,
		defaults:   defaults,
		clock:      time.Now,
		logger:     logger.With(slog.String("component", "review_service")),
	}, nil
}

func (s *serviceImpl) now(t time.Time) time.Time {
	if t.IsZero() {
		return s.clock()
	}
	return t
}

// record decodes the stored fields, synthesizing a record for items
// without one when settings allow. A nil record means the item is not
// scheduled.
func (s *serviceImpl) record(fields codec.Fields, createdAt, now time.Time) (*domain.Repetition, error) {
	reference := createdAt
	if reference.IsZero() {
		reference = now
	}

	rec, err := codec.Decode(fields, reference)
	switch {
	case err == nil:
		return &rec, nil
	case errors.Is(err, codec.ErrRepeatDisabled):
		return nil, nil
	case errors.Is(err, codec.ErrNoRepeat):
		if !s.settings.EnqueueNonRepeatingNotes {
			return nil, nil
		}
		virtual := codec.NewVirtual(s.defaults, reference)
		return &virtual, nil
	default:
		return nil, err
	}
}

// Choices implements Service.Choices.
func (s *serviceImpl) Choices(ctx context.Context, req ChoicesRequest) (*ChoiceSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now(req.Now)

	rec, err := s.record(req.Fields, req.CreatedAt, now)
	if err != nil {
		log.Warn("failed to decode repetition record", slog.String("error", err.Error()))
		return nil, err
	}
	if rec == nil {
		log.Debug("item is not scheduled for review")
		return &ChoiceSet{Choices: []domain.Choice{}}, nil
	}

	set := &ChoiceSet{
		Record:  rec,
		Choices: schedule.Choices(rec, now, s.settings),
	}
	if set.Choices == nil {
		set.Choices = []domain.Choice{}
	}
	if card, ok := rec.History.Snapshot(); ok && rec.Strategy == domain.StrategyAdaptive {
		r := s.srsService.Retrievability(card, now)
		set.Retrievability = &r
	}

	log.Debug("computed review choices",
		slog.String("strategy", rec.Strategy.String()),
		slog.Int("choices", len(set.Choices)))
	return set, nil
}

// Commit implements Service.Commit.
func (s *serviceImpl) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("item_id", req.ItemID))
	now := s.now(req.Now)

	set, err := s.Choices(ctx, ChoicesRequest{Fields: req.Fields, CreatedAt: req.CreatedAt, Now: now})
	if err != nil {
		return nil, err
	}
	if len(set.Choices) == 0 {
		return nil, ErrNoChoices
	}
	if req.ChoiceIndex < 0 || req.ChoiceIndex >= len(set.Choices) {
		log.Warn("choice index out of range",
			slog.Int("choice_index", req.ChoiceIndex),
			slog.Int("choices", len(set.Choices)))
		return nil, fmt.Errorf("%w: index %d, %d choices offered", ErrInvalidChoice, req.ChoiceIndex, len(set.Choices))
	}

	choice := set.Choices[req.ChoiceIndex]
	fields, write := codec.Encode(choice.Next)
	result := &CommitResult{Choice: choice, Fields: fields, Write: write}

	if !choice.Rated() {
		log.Debug("committed unrated choice", slog.String("label", choice.Label))
		return result, nil
	}

	// Rated choices carry the reviewed card, whose state is logged
	card, ok := choice.Next.Repetition.History.Snapshot()
	if !ok {
		return nil, NewCommitError("rated choice without review history", nil)
	}
	entry, err := domain.NewReviewLogEntry(req.ItemID, choice.Rating, card.State, now, req.Duration)
	if err != nil {
		return nil, err
	}

	if err := s.appendEntry(ctx, entry); err != nil {
		log.Error("failed to append review log entry", slog.String("error", err.Error()))
		return nil, NewCommitError("failed to record review", err)
	}
	result.Entry = entry

	log.Info("review committed",
		slog.String("label", choice.Label),
		slog.String("rating", choice.Rating.String()),
		slog.String("state", card.State.String()),
		slog.Time("due_at", choice.Next.Repetition.DueAt))
	return result, nil
}

func (s *serviceImpl) appendEntry(ctx context.Context, entry *domain.ReviewLogEntry) error {
	if s.db == nil {
		return s.revlog.Append(ctx, entry)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.revlog.WithTx(tx).Append(ctx, entry)
	})
}

// Schedule implements Service.Schedule.
func (s *serviceImpl) Schedule(ctx context.Context, req ScheduleRequest) (codec.Fields, error) {
	now := s.now(req.Now)

	if codec.IsRepeatDisabled(req.Repeat) {
		fields, _ := codec.Encode(domain.Never())
		return fields, nil
	}

	rec := s.defaults
	if req.Repeat != "" {
		rec = codec.ParseRepeat(req.Repeat)
	}
	rec.Hidden = req.Hidden
	rec.History = domain.NoHistory()
	rec.DueAt = schedule.NextDueAt(rec, now, s.settings)

	fields, _ := codec.Encode(domain.Reschedule(rec))
	logger.FromContextOrDefault(ctx, s.logger).Debug("scheduled new record",
		slog.String("repeat", string(fields.Repeat)),
		slog.String("due_at", string(fields.DueAt)))
	return fields, nil
}

// Stats implements Service.Stats.
func (s *serviceImpl) Stats(ctx context.Context, now time.Time) (domain.ReviewStats, error) {
	now = s.now(now)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.revlog.Stats(ctx, dayStart)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute review stats",
			slog.String("error", err.Error()))
		return domain.ReviewStats{}, NewStatsError("failed to read review log", err)
	}
	return stats, nil
}
