// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Srijan272002/Kahani-sub000/internal/logging"
	"github.com/Srijan272002/Kahani-sub000/internal/metrics"
	"github.com/Srijan272002/Kahani-sub000/internal/recommend"
)

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	// Default: 3.
	MaxRequests uint32 `koanf:"max_requests" validate:"min=1"`

	// Interval is the measurement window in the closed state.
	// Default: 1m.
	Interval time.Duration `koanf:"interval" validate:"min=0"`

	// OpenTimeout is how long the breaker stays open before half-opening.
	// Default: 30s.
	OpenTimeout time.Duration `koanf:"open_timeout" validate:"min=0"`

	// ConsecutiveFailures trips the breaker on its own.
	// Default: 5.
	ConsecutiveFailures uint32 `koanf:"consecutive_failures" validate:"min=1"`

	// MinRequests is the sample size before FailureRatio is considered.
	// Default: 10.
	MinRequests uint32 `koanf:"min_requests" validate:"min=1"`

	// FailureRatio trips the breaker once MinRequests have been seen.
	// Default: 0.6.
	FailureRatio float64 `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// Config configures a Guard.
type Config struct {
	// Timeout bounds a single upstream call. Zero disables the bound.
	// Default: 1s.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// RateLimit is the sustained calls per second. Zero disables limiting.
	// Default: 0.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`

	// RateBurst is the token bucket size.
	// Default: 50.
	RateBurst int `koanf:"rate_burst" validate:"min=0"`

	// Breaker configures the circuit breaker.
	Breaker BreakerConfig `koanf:"breaker"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   time.Second,
		RateBurst: 50,
		Breaker: BreakerConfig{
			MaxRequests:         3,
			Interval:            time.Minute,
			OpenTimeout:         30 * time.Second,
			ConsecutiveFailures: 5,
			MinRequests:         10,
			FailureRatio:        0.6,
		},
	}
}

// Guard applies timeout, rate limiting and circuit breaking to calls against
// one named dependency. It is safe for concurrent use.
type Guard struct {
	name    string
	timeout time.Duration
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[any]
}

// NewGuard creates a guard for the named dependency.
//
//nolint:gocritic // hugeParam: config is read once at startup
func NewGuard(name string, cfg Config) *Guard {
	def := DefaultConfig().Breaker
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = def.MaxRequests
	}
	if cfg.Breaker.ConsecutiveFailures == 0 {
		cfg.Breaker.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = def.MinRequests
	}
	if cfg.Breaker.FailureRatio <= 0 {
		cfg.Breaker.FailureRatio = def.FailureRatio
	}

	g := &Guard{name: name, timeout: cfg.Timeout}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	bc := cfg.Breaker
	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= bc.ConsecutiveFailures {
				return true
			}
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Warn().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return g
}

// Name returns the dependency name.
func (g *Guard) Name() string {
	return g.name
}

// State returns the breaker state: closed, half-open or open.
func (g *Guard) State() string {
	return stateToString(g.cb.State())
}

// countsAsSuccess keeps caller mistakes and cancellations from tripping the
// breaker.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, recommend.ErrInvalidUser) ||
		errors.Is(err, context.Canceled)
}

// call runs fn under the guard.
func call[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			metrics.UpstreamRateLimited.WithLabelValues(g.name).Inc()
			if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
				return zero, ctx.Err()
			}
			return zero, fmt.Errorf("%s %s: rate limited: %w", g.name, op, recommend.ErrUpstreamUnavailable)
		}
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	result, err := g.cb.Execute(func() (any, error) {
		return fn(callCtx)
	})
	if err != nil {
		return zero, g.classify(ctx, op, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)

	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("%s %s: unexpected result type %T", g.name, op, result)
	}
	return typed, nil
}

// classify records metrics for a failed call and maps the error onto the
// engine's error vocabulary.
func (g *Guard) classify(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		return fmt.Errorf("%s %s: %w: %w", g.name, op, recommend.ErrUpstreamUnavailable, err)

	case countsAsSuccess(err):
		// Passed through untouched: invalid user or caller cancellation.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			break
		}
		return err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))

	if errors.Is(err, recommend.ErrUpstreamUnavailable) {
		return fmt.Errorf("%s %s: %w", g.name, op, err)
	}
	return fmt.Errorf("%s %s: %w: %w", g.name, op, recommend.ErrUpstreamUnavailable, err)
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
