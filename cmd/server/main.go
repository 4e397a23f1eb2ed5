// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionfeed/internal/api"
	"github.com/tomtom215/sessionfeed/internal/catalog"
	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/logging"
	"github.com/tomtom215/sessionfeed/internal/metrics"
	"github.com/tomtom215/sessionfeed/internal/profile"
	"github.com/tomtom215/sessionfeed/internal/recommend"
	"github.com/tomtom215/sessionfeed/internal/recommend/reranking"
	"github.com/tomtom215/sessionfeed/internal/supervisor"
	"github.com/tomtom215/sessionfeed/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Sessionfeed exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Catalog.Path).
		Str("profile_backend", cfg.Profile.Backend).
		Msg("Starting Sessionfeed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := catalog.NewStore(cfg.Catalog, logger)
	if err := store.Load(); err != nil {
		// Not fatal: /health/ready reports 503 until the watcher succeeds.
		logging.Warn().Err(err).Str("path", cfg.Catalog.Path).Msg("Initial catalog load failed")
	} else if info, err := store.Info(); err == nil {
		logging.Info().
			Str("version", info.Version).
			Int("sessions", info.Sessions).
			Int("djs", info.DJs).
			Msg("Catalog loaded")
	}

	profiles, err := profile.Open(ctx, cfg.Profile, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()

	engine, err := newEngine(&cfg.Recommend, logger)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewCatalogWatcherService(store, services.CatalogWatcherConfig{
		PollInterval: cfg.Catalog.PollInterval,
	}, logger))

	handler := api.NewHandler(engine, store, profiles, version)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, cfg.Security).SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Sessionfeed stopped")
	return nil
}

// newEngine builds the recommendation engine with metrics and, when the
// configured lambda asks for it, MMR reranking.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newEngine(cfg *recommend.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}
	engine.SetObserver(metrics.RecommendObserver{})

	if lambda := cfg.Diversity.MMRLambda; lambda < 1 {
		engine.RegisterReranker(reranking.NewMMR(lambda))
	}

	logger.Info().
		Strs("rerankers", engine.Rerankers()).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Recommendation engine ready")
	return engine, nil
}
