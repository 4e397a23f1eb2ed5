// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package api provides the HTTP REST API for Sessionfeed.

Routes (all JSON, under /api/v1):

	GET    /health, /health/live, /health/ready
	GET    /catalog
	GET    /sessions/trending?limit
	GET    /sessions/new?limit
	GET    /sessions/{sessionID}/similar?limit
	GET    /djs/{djID}/similar?limit
	GET    /users/{userID}/recommendations/sessions?limit&exclude_viewed&diversify
	GET    /users/{userID}/recommendations/sessions/scored?limit
	GET    /users/{userID}/recommendations/djs?limit
	GET    /users/{userID}/recommendations/djs/scored?limit
	GET    /users/{userID}/continue-watching?limit
	GET    /users/{userID}/favorite-genres/sessions?limit
	GET    /users/{userID}/profile
	DELETE /users/{userID}/profile
	POST   /users/{userID}/views                 {"session_id": "..."}
	POST   /users/{userID}/favorite-djs/{djID}/toggle
	PUT    /users/{userID}/favorite-genres/{genre}
	DELETE /users/{userID}/favorite-genres/{genre}
	POST   /admin/catalog/reload                 (X-API-Key)

Prometheus metrics are served at /metrics outside the versioned prefix.

Every response uses the same envelope:

	{"status": "success"|"error", "data": ..., "metadata": {...}, "error": {"code", "message"}}

Path IDs and bodies are checked with the shared validator; failures answer
400 with code VALIDATION_ERROR and per-field details. A limit of zero or an
absent limit selects the engine default. Users that were never seen read as
an empty profile, so recommendation endpoints never 404 on an unknown user.

Middleware order: request ID, real IP, panic recovery, CORS, then per-API
rate limiting (go-chi/httprate), security headers, Prometheus metrics and
access logging.
*/
package api
