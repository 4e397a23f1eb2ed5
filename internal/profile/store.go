// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/metrics"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// ErrConflict is returned when an update kept losing optimistic
// concurrency races and gave up.
var ErrConflict = errors.New("profile: too many concurrent updates")

// maxUpdateRetries bounds optimistic transaction retries.
const maxUpdateRetries = 5

// UpdateFunc derives the new profile from the current one.
type UpdateFunc func(recommend.UserProfile) recommend.UserProfile

// Store persists user profiles.
//
// A user that was never written reads as an empty profile, not an error.
// Update applies fn atomically with respect to other updates of the same user.
type Store interface {
	Get(ctx context.Context, userID string) (recommend.UserProfile, error)
	Update(ctx context.Context, userID string, fn UpdateFunc) (recommend.UserProfile, error)
	Delete(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
	Close() error
}

// record is the stored form of a profile.
type record struct {
	Profile   recommend.UserProfile `json:"profile"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func encode(p recommend.UserProfile, now time.Time) ([]byte, error) {
	data, err := json.Marshal(record{Profile: p, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("profile: marshal: %w", err)
	}
	return data, nil
}

func decode(data []byte) (recommend.UserProfile, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return recommend.UserProfile{}, fmt.Errorf("profile: unmarshal: %w", err)
	}
	return Normalize(r.Profile), nil
}

func empty() recommend.UserProfile {
	return Normalize(recommend.UserProfile{})
}

func observe(backend, op string, start time.Time, err error) {
	metrics.RecordProfileOp(backend, op, time.Since(start), err)
}

// Open builds the store selected by cfg.Backend. Redis stores are wrapped
// in a circuit breaker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(ctx context.Context, cfg config.ProfileConfig, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "profile").Str("backend", cfg.Backend).Logger()

	switch cfg.Backend {
	case config.ProfileBackendBadger:
		s, err := OpenBadger(cfg.Badger)
		if err != nil {
			return nil, err
		}
		logger.Info().Bool("in_memory", cfg.Badger.InMemory).Str("path", cfg.Badger.Path).Msg("Profile store opened")
		return s, nil

	case config.ProfileBackendRedis:
		s, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("key_prefix", cfg.Redis.KeyPrefix).Msg("Profile store opened")
		return NewBreakerStore("profile-redis", s, cfg.Breaker, logger), nil

	default:
		return nil, fmt.Errorf("profile: unknown backend %q", cfg.Backend)
	}
}
