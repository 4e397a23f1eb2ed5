// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package supervisor provides process supervision for Sessionfeed using suture v4.

# Overview

	RootSupervisor ("sessionfeed")
	├── DataSupervisor ("data-layer")
	│   └── CatalogWatcherService (if CATALOG_POLL_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The layers count failures independently, so a watcher stuck in a crash loop
backs off without restarting the HTTP server. Supervisor events are written
through sutureslog into the zerolog pipeline (see logging.NewSlogLogger).

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCatalogWatcherService(store, watcherCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. A service returning ctx.Err() after cancellation is a clean stop.

Profile stores are not supervised: Badger runs in-process and the Redis
client reconnects on its own, with the circuit breaker in the profile
package shedding load while it is down.
*/
package supervisor
