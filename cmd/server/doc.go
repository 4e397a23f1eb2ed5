// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package main is the entry point for the Sessionfeed server.

Sessionfeed serves personalised DJ session and DJ recommendations over a
JSON REST API. The catalog of sessions and DJs is read from a JSON or YAML
file and hot-reloaded; per-user profiles (viewing history, favourite DJs,
favourite genres) live in BadgerDB or Redis.

# Application Architecture

	RootSupervisor ("sessionfeed")
	├── DataSupervisor ("data-layer")
	│   └── Catalog watcher (CATALOG_POLL_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Catalog: initial load; a missing or broken file leaves the API
    unready until the watcher loads a good one
 4. Profile store: BadgerDB, or Redis behind a circuit breaker
 5. Recommendation engine, with MMR reranking when RECOMMEND_MMR_LAMBDA < 1
 6. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	CATALOG_PATH=/data/catalog.json
	CATALOG_POLL_INTERVAL=30s    # 0 disables polling
	CATALOG_MIN_RELOAD_INTERVAL=5s

	PROFILE_BACKEND=badger       # badger or redis
	PROFILE_BADGER_PATH=/data/profiles
	REDIS_URL=redis://localhost:6379/0

	ADMIN_API_KEY=<secret>       # enables POST /api/v1/admin/catalog/reload
	CORS_ORIGINS=https://app.example.com
	RATE_LIMIT_REQUESTS=100
	RATE_LIMIT_WINDOW=1m

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for up to HTTP_SHUTDOWN_TIMEOUT, then the profile store
is closed.
*/
package main
