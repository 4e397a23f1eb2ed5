// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package profile

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/metrics"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("profile: store unavailable")

// BreakerStore wraps a remote Store with a circuit breaker. The breaker
// opens after FailureThreshold consecutive failures and rejects calls with
// ErrUnavailable until Timeout has passed.
//
// Caller cancellations and ErrConflict are not counted as failures.
// Timeouts are.
type BreakerStore struct {
	next   Store
	cb     *gobreaker.CircuitBreaker[recommend.UserProfile]
	name   string
	logger zerolog.Logger
}

// NewBreakerStore wraps next.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerStore(name string, next Store, cfg config.BreakerConfig, logger zerolog.Logger) *BreakerStore {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	b := &BreakerStore{next: next, name: name, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[recommend.UserProfile](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrConflict)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return b
}

func (b *BreakerStore) execute(fn func() (recommend.UserProfile, error)) (recommend.UserProfile, error) {
	p, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Debug().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return recommend.UserProfile{}, errors.Join(ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return recommend.UserProfile{}, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return p, nil
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerStore) State() string {
	return stateToString(b.cb.State())
}

func (b *BreakerStore) Get(ctx context.Context, userID string) (recommend.UserProfile, error) {
	return b.execute(func() (recommend.UserProfile, error) {
		return b.next.Get(ctx, userID)
	})
}

func (b *BreakerStore) Update(ctx context.Context, userID string, fn UpdateFunc) (recommend.UserProfile, error) {
	return b.execute(func() (recommend.UserProfile, error) {
		return b.next.Update(ctx, userID, fn)
	})
}

func (b *BreakerStore) Delete(ctx context.Context, userID string) error {
	_, err := b.execute(func() (recommend.UserProfile, error) {
		return recommend.UserProfile{}, b.next.Delete(ctx, userID)
	})
	return err
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := b.execute(func() (recommend.UserProfile, error) {
		return recommend.UserProfile{}, b.next.Ping(ctx)
	})
	return err
}

// Close closes the wrapped store. It bypasses the breaker.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}

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
