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

	goredis "github.com/redis/go-redis/v9"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

const redisBackend = "redis"

// RedisStore keeps profiles in Redis so several instances can share them.
// Updates use WATCH/MULTI and retry when another writer got there first.
type RedisStore struct {
	c       *goredis.Client
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

// OpenRedis connects using cfg.URL and verifies the connection with PING.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	s := NewRedisStore(goredis.NewClient(opts), cfg.KeyPrefix, cfg.Timeout)
	if err := s.Ping(ctx); err != nil {
		_ = s.c.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return s, nil
}

// NewRedisStore wraps an existing client. A zero timeout means calls are
// bounded only by the caller's context.
func NewRedisStore(c *goredis.Client, prefix string, timeout time.Duration) *RedisStore {
	return &RedisStore{c: c, prefix: prefix, timeout: timeout, now: time.Now}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *RedisStore) read(ctx context.Context, c goredis.Cmdable, userID string) (recommend.UserProfile, error) {
	data, err := c.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return empty(), nil
	}
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return decode(data)
}

// Get returns the stored profile, or an empty one for unknown users.
func (s *RedisStore) Get(ctx context.Context, userID string) (p recommend.UserProfile, err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "get", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.read(ctx, s.c, userID)
}

// Update applies fn under WATCH on the user's key.
func (s *RedisStore) Update(ctx context.Context, userID string, fn UpdateFunc) (p recommend.UserProfile, err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "update", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := s.key(userID)
	txf := func(tx *goredis.Tx) error {
		current, rerr := s.read(ctx, tx, userID)
		if rerr != nil {
			return rerr
		}
		p = Normalize(fn(current))
		data, eerr := encode(p, s.now())
		if eerr != nil {
			return eerr
		}
		_, perr := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return perr
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err = s.c.Watch(ctx, txf, key)
		if !errors.Is(err, goredis.TxFailedErr) {
			if err != nil {
				return recommend.UserProfile{}, fmt.Errorf("update profile: %w", err)
			}
			return p, nil
		}
	}
	err = ErrConflict
	return recommend.UserProfile{}, err
}

// Delete removes a user's profile.
func (s *RedisStore) Delete(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { observe(redisBackend, "delete", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = s.c.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.c.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.c.Close()
}
