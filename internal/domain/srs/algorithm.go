package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

// Power-law forgetting curve constants: R(t, S) = (1 + factor*t/S)^decay.
// With these values R equals 0.9 exactly when t equals S.
const (
	decay  = -0.5
	factor = 19.0 / 81.0
)

const (
	minDifficulty = 1.0
	maxDifficulty = 10.0
	dayDuration   = 24 * time.Hour
)

// Retrievability returns the modeled probability of recalling an item
// elapsedDays after its last review, given its stability.
//
// Returns 0 for non-positive stability, which only occurs for new cards.
func Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+factor*elapsedDays/stability, decay)
}

// NextInterval returns the number of days after which the retrievability of
// an item with the given stability falls to the requested retention.
//
// This is the inverse of Retrievability, rounded and clamped to
// [1, params.MaximumInterval]. Non-positive stability yields 0.
func NextInterval(stability float64, params Params) int {
	if stability <= 0 {
		return 0
	}

	raw := math.Round(stability / factor * (math.Pow(params.RequestRetention, 1/decay) - 1))

	// Compare as floats so huge or infinite stability never reaches an int conversion
	switch {
	case math.IsNaN(raw) || raw < 1:
		return 1
	case raw > float64(params.MaximumInterval):
		return params.MaximumInterval
	default:
		return int(raw)
	}
}

// Review computes the card that results from reviewing card with rating at
// reviewTime.
//
// Parameters:
//   - card: The current memory state; it is not modified
//   - rating: The reviewer's recall quality, Again through Easy
//   - reviewTime: When the review happened
//   - params: The memory model configuration
//
// Returns:
//   - The new card, or domain.ErrInvalidRating for an unknown rating
//
// Algorithm behavior:
//   - New cards seed difficulty from w4/w5 and stability from w[rating-1];
//     Again and Hard enter Learning, Good and Easy enter Review
//   - Learning and Relearning cards reseed stability the same way and only
//     graduate to Review on Good or Easy
//   - Review cards reviewed on the same day scale stability by
//     exp(w17 * (rating - 3 + w18))
//   - Review cards reviewed after at least some time update difficulty with
//     mean reversion, then either lapse (Again) or grow stability
//   - Reps reset on Again and increment otherwise; an Again review is
//     scheduled 0 days out so callers can apply a short learning step
//
// Calling Review twice with the same arguments yields identical results.
func Review(card domain.Card, rating domain.Rating, reviewTime time.Time, params Params) (domain.Card, error) {
	// Validate inputs
	if !rating.Valid() {
		return domain.Card{}, fmt.Errorf("%w: %d", domain.ErrInvalidRating, int(rating))
	}

	return reviewCard(card, rating, reviewTime, params), nil
}

// reviewCard is the unchecked core of Review. The rating must be valid.
func reviewCard(card domain.Card, rating domain.Rating, reviewTime time.Time, params Params) domain.Card {
	w := params.W
	next := card

	// A missing last review counts as a review right now
	lastReview := card.LastReview
	if lastReview.IsZero() {
		lastReview = reviewTime
	}
	elapsedDays := math.Max(0, reviewTime.Sub(lastReview).Hours()/dayDuration.Hours())

	// Retrievability uses the pre-update stability
	retrievability := Retrievability(elapsedDays, card.Stability)

	switch card.State {
	case domain.StateNew:
		next.Difficulty = initialDifficulty(rating, w)
		next.Stability = initialStability(rating, w)
		if rating == domain.RatingAgain || rating == domain.RatingHard {
			next.State = domain.StateLearning
		} else {
			next.State = domain.StateReview
		}

	case domain.StateLearning, domain.StateRelearning:
		next.Stability = initialStability(rating, w)
		if rating == domain.RatingGood || rating == domain.RatingEasy {
			next.State = domain.StateReview
		}

	case domain.StateReview:
		if elapsedDays == 0 {
			next.Stability = shortTermStability(card.Stability, rating, w)
			break
		}

		next.Difficulty = nextDifficulty(card.Difficulty, rating, w)
		if rating == domain.RatingAgain {
			next.Stability = forgetStability(next.Difficulty, card.Stability, retrievability, w)
			next.State = domain.StateRelearning
			next.Lapses = card.Lapses + 1
		} else {
			next.Stability = recallStability(next.Difficulty, card.Stability, retrievability, rating, w)
		}

	default:
		// Unknown states are treated as never reviewed
		next.Difficulty = initialDifficulty(rating, w)
		next.Stability = initialStability(rating, w)
		next.State = domain.StateLearning
		if rating == domain.RatingGood || rating == domain.RatingEasy {
			next.State = domain.StateReview
		}
	}

	// Bookkeeping applies to every branch
	if rating == domain.RatingAgain {
		next.Reps = 0
	} else {
		next.Reps = card.Reps + 1
	}
	next.ElapsedDays = elapsedDays
	next.LastReview = reviewTime

	if rating == domain.RatingAgain {
		next.ScheduledDays = 0
	} else {
		next.ScheduledDays = float64(NextInterval(next.Stability, params))
	}

	return next
}

// initialStability seeds stability from the first four weights.
func initialStability(rating domain.Rating, w [WeightCount]float64) float64 {
	return w[int(rating)-1]
}

// initialDifficulty seeds difficulty for a card's first review.
func initialDifficulty(rating domain.Rating, w [WeightCount]float64) float64 {
	return clampDifficulty(w[4] - float64(rating-3)*w[5])
}

// nextDifficulty moves difficulty by the rating and then reverts it toward
// the initial Good difficulty w4.
func nextDifficulty(difficulty float64, rating domain.Rating, w [WeightCount]float64) float64 {
	next := difficulty - w[6]*float64(rating-3)
	return clampDifficulty(w[7]*w[4] + (1-w[7])*next)
}

// shortTermStability adjusts stability for a review on the same day as the
// previous one.
func shortTermStability(stability float64, rating domain.Rating, w [WeightCount]float64) float64 {
	return stability * math.Exp(w[17]*(float64(rating)-3+w[18]))
}

// forgetStability is the stability after a lapse.
func forgetStability(difficulty, stability, retrievability float64, w [WeightCount]float64) float64 {
	return w[11] *
		math.Pow(difficulty, -w[12]) *
		(math.Pow(stability+1, w[13]) - 1) *
		math.Exp(w[14]*(1-retrievability))
}

// recallStability is the stability after a successful review. Growth is
// larger for easier cards, lower stability and lower retrievability.
func recallStability(
	difficulty, stability, retrievability float64,
	rating domain.Rating,
	w [WeightCount]float64,
) float64 {
	hardPenalty := 1.0
	if rating == domain.RatingHard {
		hardPenalty = w[15]
	}
	easyBonus := 1.0
	if rating == domain.RatingEasy {
		easyBonus = w[16]
	}

	growth := math.Exp(w[8]) *
		(11 - difficulty) *
		math.Pow(stability, -w[9]) *
		(math.Exp(w[10]*(1-retrievability)) - 1)

	return stability * (1 + growth*hardPenalty*easyBonus)
}

func clampDifficulty(d float64) float64 {
	return math.Max(minDifficulty, math.Min(maxDifficulty, d))
}
