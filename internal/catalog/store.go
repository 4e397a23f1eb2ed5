// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/metrics"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// ErrReloadThrottled is returned when a reload arrives sooner than
// catalog.min_reload_interval allows.
var ErrReloadThrottled = errors.New("catalog: reload throttled")

// ErrNotLoaded is returned by Reload callers that need a snapshot before the
// first successful load.
var ErrNotLoaded = errors.New("catalog: not loaded")

// Snapshot is an immutable published catalog.
type Snapshot struct {
	Catalog  *recommend.Catalog
	LoadedAt time.Time
	Source   string
}

// Info summarizes the active snapshot.
type Info struct {
	Version  string    `json:"version"`
	Sessions int       `json:"sessions"`
	DJs      int       `json:"djs"`
	LoadedAt time.Time `json:"loaded_at"`
	Source   string    `json:"source"`
}

var emptyCatalog = &recommend.Catalog{}

// Store holds the current catalog snapshot and swaps it on reload. Readers
// never block and always see a complete snapshot.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
	limiter *rate.Limiter
	reload  sync.Mutex
	logger  zerolog.Logger
	now     func() time.Time
}

// NewStore creates a store for cfg.Path. Nothing is read until Load.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore(cfg config.CatalogConfig, logger zerolog.Logger) *Store {
	limit := rate.Inf
	if cfg.MinReloadInterval > 0 {
		limit = rate.Every(cfg.MinReloadInterval)
	}
	return &Store{
		path:    cfg.Path,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "catalog").Logger(),
		now:     time.Now,
	}
}

// Path returns the file the store reads.
func (s *Store) Path() string {
	return s.path
}

// Load performs the initial load. It bypasses the reload limiter and
// fails if the file cannot be read or is invalid.
func (s *Store) Load() error {
	s.reload.Lock()
	defer s.reload.Unlock()

	_, err := s.loadLocked()
	return err
}

// Reload re-reads the file and publishes a new snapshot when its content
// changed. It returns whether a new snapshot was published. On any error
// the previous snapshot stays active.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !s.limiter.Allow() {
		metrics.RecordCatalogReload(metrics.ReloadThrottled, 0, 0)
		return false, ErrReloadThrottled
	}

	s.reload.Lock()
	defer s.reload.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (bool, error) {
	format, err := FormatFromPath(s.path)
	if err != nil {
		return false, s.fail(err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, s.fail(fmt.Errorf("catalog: read %s: %w", s.path, err))
	}

	if snap := s.current.Load(); snap != nil && snap.Catalog.Version == Fingerprint(data) {
		metrics.RecordCatalogReload(metrics.ReloadUnchanged, 0, 0)
		return false, nil
	}

	c, err := Parse(data, format)
	if err != nil {
		return false, s.fail(err)
	}

	if issues := Inspect(c); !issues.Empty() {
		s.logger.Warn().
			Strs("duplicate_sessions", issues.DuplicateSessions).
			Strs("duplicate_djs", issues.DuplicateDJs).
			Strs("unknown_djs", issues.UnknownDJs).
			Msg("Catalog loaded with issues")
	}

	s.current.Store(&Snapshot{Catalog: c, LoadedAt: s.now(), Source: s.path})
	metrics.RecordCatalogReload(metrics.ReloadLoaded, len(c.Sessions), len(c.DJs))
	s.logger.Info().
		Str("version", c.Version).
		Int("sessions", len(c.Sessions)).
		Int("djs", len(c.DJs)).
		Msg("Catalog loaded")
	return true, nil
}

func (s *Store) fail(err error) error {
	metrics.RecordCatalogReload(metrics.ReloadFailed, 0, 0)
	ev := s.logger.Error().Err(err).Str("path", s.path)
	if snap := s.current.Load(); snap != nil {
		ev = ev.Str("kept_version", snap.Catalog.Version)
	}
	ev.Msg("Catalog load failed")
	return err
}

// Catalog returns the active catalog. Before the first successful load it
// returns an empty catalog, so every engine operation yields empty results.
func (s *Store) Catalog() *recommend.Catalog {
	if snap := s.current.Load(); snap != nil {
		return snap.Catalog
	}
	return emptyCatalog
}

// Snapshot returns the active snapshot, or nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Info summarizes the active snapshot.
func (s *Store) Info() (Info, error) {
	snap := s.current.Load()
	if snap == nil {
		return Info{}, ErrNotLoaded
	}
	return Info{
		Version:  snap.Catalog.Version,
		Sessions: len(snap.Catalog.Sessions),
		DJs:      len(snap.Catalog.DJs),
		LoadedAt: snap.LoadedAt,
		Source:   snap.Source,
	}, nil
}

// Set publishes c directly. Used by tests and by callers that build a
// catalog in memory.
func (s *Store) Set(c *recommend.Catalog) {
	s.reload.Lock()
	defer s.reload.Unlock()
	s.current.Store(&Snapshot{Catalog: c, LoadedAt: s.now(), Source: "memory"})
	metrics.RecordCatalogReload(metrics.ReloadLoaded, len(c.Sessions), len(c.DJs))
}
