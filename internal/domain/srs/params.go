package srs

import (
	"errors"
	"fmt"
)

// WeightCount is the number of weights the memory model is parameterized by.
const WeightCount = 19

// Default memory model configuration.
const (
	DefaultRequestRetention = 0.9
	DefaultMaximumInterval  = 36500
)

// DefaultWeights are the stock trained weights of the memory model.
//
// Indices 0-3 seed stability per first rating, 4-5 seed difficulty, 6-7
// control difficulty mean reversion, 8-10 stability growth on success,
// 11-14 stability after a lapse, 15-16 the hard penalty and easy bonus,
// and 17-18 same-day review adjustment.
var DefaultWeights = [WeightCount]float64{
	0.4, 0.6, 2.4, 5.8, 4.93, 0.94, 0.86, 0.01, 1.49, 0.14,
	0.94, 2.18, 0.05, 0.34, 1.26, 0.29, 2.61, 0.09, 0.03,
}

// ErrInvalidParams is returned when memory model parameters cannot be used.
var ErrInvalidParams = errors.New("invalid memory model parameters")

// Params holds the memory model configuration.
// It is a plain value: copies are independent and nothing in this package
// keeps a shared mutable default.
type Params struct {
	// RequestRetention is the recall probability intervals are planned for.
	RequestRetention float64

	// MaximumInterval caps scheduled intervals, in days.
	MaximumInterval int

	// W parameterizes every formula of the model.
	W [WeightCount]float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params value. Zero fields keep their defaults.
type ParamsConfig struct {
	RequestRetention float64
	MaximumInterval  int
	Weights          []float64
}

// NewDefaultParams returns the stock configuration.
func NewDefaultParams() Params {
	return Params{
		RequestRetention: DefaultRequestRetention,
		MaximumInterval:  DefaultMaximumInterval,
		W:                DefaultWeights,
	}
}

// NewParams creates a Params value from config, failing fast on values the
// model cannot work with instead of substituting defaults.
func NewParams(config ParamsConfig) (Params, error) {
	params := NewDefaultParams()

	// Override request retention if provided
	if config.RequestRetention != 0 {
		if !validRetention(config.RequestRetention) {
			return Params{}, fmt.Errorf(
				"%w: request retention must be in (0, 1), got %v",
				ErrInvalidParams, config.RequestRetention,
			)
		}
		params.RequestRetention = config.RequestRetention
	}

	// Override maximum interval if provided
	if config.MaximumInterval != 0 {
		if config.MaximumInterval < 0 {
			return Params{}, fmt.Errorf(
				"%w: maximum interval must be positive, got %d",
				ErrInvalidParams, config.MaximumInterval,
			)
		}
		params.MaximumInterval = config.MaximumInterval
	}

	// Override weights if provided
	if len(config.Weights) != 0 {
		if len(config.Weights) != WeightCount {
			return Params{}, fmt.Errorf(
				"%w: expected %d weights, got %d",
				ErrInvalidParams, WeightCount, len(config.Weights),
			)
		}
		copy(params.W[:], config.Weights)
	}

	return params, nil
}

// Validate checks a Params value built without NewParams.
func (p Params) Validate() error {
	if !validRetention(p.RequestRetention) {
		return fmt.Errorf("%w: request retention must be in (0, 1), got %v", ErrInvalidParams, p.RequestRetention)
	}
	if p.MaximumInterval <= 0 {
		return fmt.Errorf("%w: maximum interval must be positive, got %d", ErrInvalidParams, p.MaximumInterval)
	}
	return nil
}

// validRetention also rejects NaN.
func validRetention(r float64) bool {
	return r > 0 && r < 1
}
