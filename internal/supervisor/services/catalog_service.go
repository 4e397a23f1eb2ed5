// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionfeed/internal/catalog"
)

// CatalogReloader is satisfied by *catalog.Store.
type CatalogReloader interface {
	Reload(ctx context.Context) (bool, error)
}

// CatalogWatcherConfig holds configuration for the catalog watcher.
type CatalogWatcherConfig struct {
	// PollInterval is how often the catalog file is checked. Must be > 0.
	PollInterval time.Duration

	// ReloadTimeout bounds a single reload.
	// Default: 30s
	ReloadTimeout time.Duration
}

// CatalogWatcherService polls the catalog file and swaps in new versions.
//
// A failed reload keeps the previous catalog and is only logged; the watcher
// never returns an error for it, so a broken file does not burn through the
// supervisor's restart budget.
type CatalogWatcherService struct {
	store  CatalogReloader
	config CatalogWatcherConfig
	logger zerolog.Logger
	name   string

	// onReload is called after each poll; tests use it to synchronise.
	onReload func(changed bool, err error)
}

// NewCatalogWatcherService creates a catalog watcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogWatcherService(store CatalogReloader, cfg CatalogWatcherConfig, logger zerolog.Logger) *CatalogWatcherService {
	if cfg.ReloadTimeout <= 0 {
		cfg.ReloadTimeout = 30 * time.Second
	}
	return &CatalogWatcherService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "catalog-watcher").Logger(),
		name:   "catalog-watcher",
	}
}

// Serve implements suture.Service.
func (s *CatalogWatcherService) Serve(ctx context.Context) error {
	if s.config.PollInterval <= 0 {
		s.logger.Info().Msg("catalog polling disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.logger.Info().Dur("poll_interval", s.config.PollInterval).Msg("catalog watcher running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *CatalogWatcherService) poll(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.config.ReloadTimeout)
	defer cancel()

	changed, err := s.store.Reload(reloadCtx)
	switch {
	case errors.Is(err, catalog.ErrReloadThrottled):
		// A manual reload just ran.
		err = nil
	case err != nil:
		s.logger.Warn().Err(err).Msg("catalog reload failed, keeping previous version")
	case changed:
		s.logger.Info().Msg("catalog changed on disk, reloaded")
	}

	if s.onReload != nil {
		s.onReload(changed, err)
	}
}

// String returns the service name for logging.
func (s *CatalogWatcherService) String() string {
	return s.name
}
