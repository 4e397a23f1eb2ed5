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

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

const (
	badgerBackend    = "badger"
	profileKeyPrefix = "profile:"
)

// BadgerStore keeps profiles in an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadger opens the database described by cfg.
func OpenBadger(cfg config.BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for profiles: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already open database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func badgerKey(userID string) []byte {
	return []byte(profileKeyPrefix + userID)
}

func readProfile(txn *badger.Txn, userID string) (recommend.UserProfile, error) {
	item, err := txn.Get(badgerKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return empty(), nil
	}
	if err != nil {
		return recommend.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}

	var p recommend.UserProfile
	err = item.Value(func(val []byte) error {
		var derr error
		p, derr = decode(val)
		return derr
	})
	return p, err
}

// Get returns the stored profile, or an empty one for unknown users.
func (s *BadgerStore) Get(ctx context.Context, userID string) (p recommend.UserProfile, err error) {
	start := time.Now()
	defer func() { observe(badgerBackend, "get", start, err) }()
	if err = ctx.Err(); err != nil {
		return recommend.UserProfile{}, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var rerr error
		p, rerr = readProfile(txn, userID)
		return rerr
	})
	return p, err
}

// Update applies fn inside a read-write transaction, retrying on conflict.
func (s *BadgerStore) Update(ctx context.Context, userID string, fn UpdateFunc) (p recommend.UserProfile, err error) {
	start := time.Now()
	defer func() { observe(badgerBackend, "update", start, err) }()

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return recommend.UserProfile{}, err
		}

		err = s.db.Update(func(txn *badger.Txn) error {
			current, rerr := readProfile(txn, userID)
			if rerr != nil {
				return rerr
			}
			p = Normalize(fn(current))
			data, eerr := encode(p, s.now())
			if eerr != nil {
				return eerr
			}
			if serr := txn.Set(badgerKey(userID), data); serr != nil {
				return fmt.Errorf("set profile: %w", serr)
			}
			return nil
		})
		if !errors.Is(err, badger.ErrConflict) {
			return p, err
		}
	}
	return recommend.UserProfile{}, ErrConflict
}

// Delete removes a user's profile. Deleting an unknown user is not an error.
func (s *BadgerStore) Delete(ctx context.Context, userID string) (err error) {
	start := time.Now()
	defer func() { observe(badgerBackend, "delete", start, err) }()
	if err = ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if derr := txn.Delete(badgerKey(userID)); derr != nil && !errors.Is(derr, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete profile: %w", derr)
		}
		return nil
	})
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("profile: badger db closed")
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
