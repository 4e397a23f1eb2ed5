// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package recommend implements a rule-based recommendation engine for DJ
// sessions and artists.
//
// # Architecture
//
// A scoring pass is a pure function of a catalog snapshot and a user profile:
//
//	Catalog + UserProfile
//	    -> affinity maps (genre, DJ) from the viewing history
//	    -> SessionScorer / DJScorer (additive, individually capped factors)
//	    -> stable sort by score
//	    -> optional reranker chain (DJ/series diversity, MMR)
//	    -> truncate to limit
//
// "More like this" lists come from a separate, profile-independent content
// overlap ranker.
//
// # Design Principles
//
//   - Deterministic: identical inputs produce identical scores and order
//   - Explainable: every candidate carries the reasons that scored it
//   - Stable: equal scores keep catalog order
//   - Side-effect free: inputs are never mutated and no I/O happens
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	sessions := engine.RecommendedSessions(ctx, catalog, profile, recommend.SessionOptions{
//	    ExcludeViewed: true,
//	    Diversify:     true,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Large catalogs are scored on a
// bounded set of goroutines; the merged result is identical to the
// sequential one. Affinity maps may be memoized per catalog version, so
// catalog loaders must change Catalog.Version whenever content changes.
package recommend
