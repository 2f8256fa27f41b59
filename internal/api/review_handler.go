package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/repeat/internal/api/shared"
	"github.com/phrazzld/repeat/internal/platform/logger"
	"github.com/phrazzld/repeat/internal/service/review"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviewService review.Service
	clock         func() time.Time
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		clock:         time.Now,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// now resolves an optional request time against the handler clock.
func (h *ReviewHandler) now(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return h.clock()
	}
	return *t
}

// decode reads and validates the request body, writing a 400 response on
// failure.
func (h *ReviewHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.DecodeJSON(r, v); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		log.Warn("invalid request", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// Choices handles POST /api/choices requests.
// It returns the choices offered for the posted repetition record.
func (h *ReviewHandler) Choices(w http.ResponseWriter, r *http.Request) {
	var req ChoicesRequest
	if !h.decode(w, r, &req) {
		return
	}
	now := h.now(req.Now)

	set, err := h.reviewService.Choices(r.Context(), review.ChoicesRequest{
		Fields:    req.Fields,
		CreatedAt: timeOrZero(req.CreatedAt),
		Now:       now,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute choices")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, choiceSetToResponse(set, now))
}

// Commit handles POST /api/reviews requests.
// It applies one of the offered choices and records rated reviews.
func (h *ReviewHandler) Commit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CommitRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.reviewService.Commit(r.Context(), review.CommitRequest{
		ItemID:      req.ItemID,
		Fields:      req.Fields,
		CreatedAt:   timeOrZero(req.CreatedAt),
		ChoiceIndex: *req.ChoiceIndex,
		Duration:    time.Duration(req.DurationMs) * time.Millisecond,
		Now:         h.now(req.Now),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record review")
		return
	}

	log.Debug("review choice committed",
		slog.String("item_id", req.ItemID),
		slog.String("label", result.Choice.Label))
	shared.RespondWithJSON(w, r, http.StatusOK, commitResultToResponse(result))
}

// Schedule handles POST /api/schedule requests.
// It returns the stored fields for a record authored from a repeat phrase.
func (h *ReviewHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	fields, err := h.reviewService.Schedule(r.Context(), review.ScheduleRequest{
		Repeat: req.Repeat,
		Hidden: req.Hidden,
		Now:    h.now(req.Now),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to schedule record")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ScheduleResponse{Fields: fields})
}

// Stats handles GET /api/revlog/stats requests.
// The optional now query parameter (RFC 3339) sets the day counted as today.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid now: must be RFC 3339", err)
			return
		}
		now = parsed
	}

	stats, err := h.reviewService.Stats(r.Context(), now)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get review statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
