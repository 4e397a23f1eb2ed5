// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package profile stores per-user listening profiles and the pure
// transforms that mutate them.
//
// Two backends are available. BadgerStore embeds BadgerDB and suits a single
// instance. RedisStore shares profiles between instances; Open always wraps
// it in a BreakerStore so a Redis outage fails fast instead of stalling
// every request.
//
// Updates are read-modify-write under optimistic concurrency: a Badger
// transaction or a Redis WATCH. Conflicting writers are retried a few times
// before ErrConflict is returned.
package profile
