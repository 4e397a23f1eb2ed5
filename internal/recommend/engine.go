// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/sessionfeed/internal/cache"
)

// Operation names reported to the Observer.
const (
	OpTopSessions       = "top_sessions"
	OpTopDJs            = "top_djs"
	OpRecommendSessions = "recommended_sessions"
	OpSimilarSessions   = "similar_sessions"
	OpSimilarDJs        = "similar_djs"
	OpDiversify         = "diversify"
)

// Engine composes the scorers, the similarity ranker and the reranker chain
// over a catalog snapshot and a user profile. Every call is a pure function of
// its arguments; the only state an Engine keeps is its configuration and
// optional memo caches keyed by catalog version. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	rerankers []Reranker
	rrMu      sync.RWMutex

	observer Observer

	// nil when Cache.Enabled is false
	affinityCache       *cache.LRU[Affinities]
	similarSessionCache *cache.LRU[[]ScoredSession]
	similarDJCache      *cache.LRU[[]ScoredDJ]
}

// NewEngine creates a new recommendation engine. The DJ/series diversity
// balancer is always the first reranker in the chain.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		rerankers: []Reranker{NewDiversityBalancer()},
		observer:  nopObserver{},
	}

	if cfg.Cache.Enabled {
		e.affinityCache = cache.NewLRU[Affinities](cfg.Cache.MaxEntries, cfg.Cache.TTL)
		e.similarSessionCache = cache.NewLRU[[]ScoredSession](cfg.Cache.MaxEntries, cfg.Cache.TTL)
		e.similarDJCache = cache.NewLRU[[]ScoredDJ](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// SetObserver installs a measurement hook. Call before serving traffic.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.observer = o
}

// RegisterReranker appends a reranker to the diversification chain.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Rerankers returns the names of the registered rerankers in chain order.
func (e *Engine) Rerankers() []string {
	e.rrMu.RLock()
	defer e.rrMu.RUnlock()

	names := make([]string, len(e.rerankers))
	for i, rr := range e.rerankers {
		names[i] = rr.Name()
	}
	return names
}

// ScoreSession scores one session against a profile.
//
//nolint:gocritic // hugeParam: session is copied into the result
func (e *Engine) ScoreSession(session Session, profile *UserProfile, catalog *Catalog) ScoredSession {
	mustCatalog(catalog)
	return scoreSession(&e.config.Session, e.signals(catalog, profile), session)
}

// ScoreDJ scores one DJ against a profile.
//
//nolint:gocritic // hugeParam: dj is copied into the result
func (e *Engine) ScoreDJ(dj DJ, profile *UserProfile, catalog *Catalog) ScoredDJ {
	mustCatalog(catalog)
	return scoreDJ(&e.config.DJ, e.signals(catalog, profile), dj)
}

// TopSessionRecommendations scores every catalog session and returns the
// best limit candidates, highest score first.
func (e *Engine) TopSessionRecommendations(ctx context.Context, catalog *Catalog, profile *UserProfile, limit int) []ScoredSession {
	mustCatalog(catalog)
	start := time.Now()

	n := e.resolveLimit(limit, e.config.Limits.DefaultSessions)
	if n == 0 {
		return []ScoredSession{}
	}

	ranked := e.rankSessions(catalog, profile, catalog.Sessions)
	out := truncate(ranked, n)

	e.finish(OpTopSessions, len(ranked), len(out), start)
	return out
}

// TopDJRecommendations scores every catalog DJ and returns the best limit
// candidates, highest score first.
func (e *Engine) TopDJRecommendations(ctx context.Context, catalog *Catalog, profile *UserProfile, limit int) []ScoredDJ {
	mustCatalog(catalog)
	start := time.Now()

	n := e.resolveLimit(limit, e.config.Limits.DefaultDJs)
	if n == 0 {
		return []ScoredDJ{}
	}

	sig := e.signals(catalog, profile)
	ranked := scoreAll(e.config.Parallel, catalog.DJs, func(dj *DJ) ScoredDJ {
		return scoreDJ(&e.config.DJ, sig, *dj)
	})
	sortByScore(ranked)
	out := truncate(ranked, n)

	e.finish(OpTopDJs, len(ranked), len(out), start)
	return out
}

// Diversify runs the reranker chain over a score-sorted candidate list.
func (e *Engine) Diversify(ctx context.Context, candidates []ScoredSession, limit int) []ScoredSession {
	start := time.Now()
	if limit <= 0 {
		return []ScoredSession{}
	}
	if limit > e.config.Limits.MaxLimit {
		limit = e.config.Limits.MaxLimit
	}

	out := e.applyRerankers(ctx, candidates, limit)
	e.finish(OpDiversify, len(candidates), len(out), start)
	return out
}

// RecommendedSessions returns personalized sessions. Profiles without any
// history or favorites get the catalog in popularity then recency order, so
// the result is non-empty whenever the catalog is.
func (e *Engine) RecommendedSessions(ctx context.Context, catalog *Catalog, profile *UserProfile, opts SessionOptions) []Session {
	mustCatalog(catalog)
	start := time.Now()

	n := e.resolveLimit(opts.Limit, e.config.Limits.DefaultSessions)
	if n == 0 {
		return []Session{}
	}
	profile = orEmpty(profile)

	pool := catalog.Sessions
	if opts.ExcludeViewed && len(profile.ViewedSessions) > 0 {
		viewed := toSet(profile.ViewedSessions)
		pool = make([]Session, 0, len(catalog.Sessions))
		for i := range catalog.Sessions {
			if _, seen := viewed[catalog.Sessions[i].ID]; !seen {
				pool = append(pool, catalog.Sessions[i])
			}
		}
	}
	if profile.IsEmpty() {
		pool = byPopularityThenRecency(pool)
	}

	ranked := e.rankSessions(catalog, profile, pool)
	if opts.Diversify {
		ranked = e.applyRerankers(ctx, ranked, n)
	}
	out := items(truncate(ranked, n))

	e.finish(OpRecommendSessions, len(pool), len(out), start)
	return out
}

// RecommendedDJs returns personalized DJs.
func (e *Engine) RecommendedDJs(ctx context.Context, catalog *Catalog, profile *UserProfile, limit int) []DJ {
	return items(e.TopDJRecommendations(ctx, catalog, profile, limit))
}

// SimilarSessions returns the sessions most similar to sessionID. An unknown
// ID yields an empty list.
func (e *Engine) SimilarSessions(sessionID string, catalog *Catalog, limit int) []Session {
	mustCatalog(catalog)
	start := time.Now()

	n := e.resolveLimit(limit, e.config.Limits.DefaultSimilar)
	if n == 0 {
		return []Session{}
	}

	ranked, ok := e.similarSessions(sessionID, catalog)
	if !ok {
		return []Session{}
	}
	out := items(truncate(ranked, n))

	e.finish(OpSimilarSessions, len(ranked), len(out), start)
	return out
}

// SimilarDJs returns the DJs most similar to djID. An unknown ID yields an
// empty list.
func (e *Engine) SimilarDJs(djID string, catalog *Catalog, limit int) []DJ {
	mustCatalog(catalog)
	start := time.Now()

	n := e.resolveLimit(limit, e.config.Limits.DefaultSimilar)
	if n == 0 {
		return []DJ{}
	}

	ranked, ok := e.similarDJs(djID, catalog)
	if !ok {
		return []DJ{}
	}
	out := items(truncate(ranked, n))

	e.finish(OpSimilarDJs, len(ranked), len(out), start)
	return out
}

// ContinueWatching maps the first limit history entries back to sessions,
// dropping entries that no longer exist in the catalog.
func (e *Engine) ContinueWatching(profile *UserProfile, catalog *Catalog, limit int) []Session {
	mustCatalog(catalog)

	n := e.resolveLimit(limit, e.config.Limits.DefaultSessions)
	profile = orEmpty(profile)
	history := profile.ViewedSessions
	if len(history) > n {
		history = history[:n]
	}

	byID := indexSessions(catalog.Sessions)
	out := make([]Session, 0, len(history))
	for _, id := range history {
		if idx, ok := byID[id]; ok {
			out = append(out, catalog.Sessions[idx])
		}
	}
	return out
}

// TrendingSessions returns every session by views, most viewed first.
func (e *Engine) TrendingSessions(catalog *Catalog) []Session {
	mustCatalog(catalog)

	out := append([]Session(nil), catalog.Sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Views > out[j].Views
	})
	if out == nil {
		out = []Session{}
	}
	return out
}

// NewReleases returns every session by date, newest first.
func (e *Engine) NewReleases(catalog *Catalog) []Session {
	mustCatalog(catalog)

	out := append([]Session(nil), catalog.Sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if out == nil {
		out = []Session{}
	}
	return out
}

// SessionsByFavoriteGenres returns, in catalog order, the first limit
// sessions that carry at least one favorite genre. No scoring is applied.
func (e *Engine) SessionsByFavoriteGenres(catalog *Catalog, profile *UserProfile, limit int) []Session {
	mustCatalog(catalog)

	n := e.resolveLimit(limit, e.config.Limits.DefaultSessions)
	profile = orEmpty(profile)
	if n == 0 || len(profile.FavoriteGenres) == 0 {
		return []Session{}
	}

	favorites := toSet(profile.FavoriteGenres)
	out := make([]Session, 0, n)
	for i := range catalog.Sessions {
		if len(out) == n {
			break
		}
		if countIn(catalog.Sessions[i].Genres, favorites) > 0 {
			out = append(out, catalog.Sessions[i])
		}
	}
	return out
}

// rankSessions scores pool and sorts it by descending score.
func (e *Engine) rankSessions(catalog *Catalog, profile *UserProfile, pool []Session) []ScoredSession {
	sig := e.signals(catalog, profile)
	ranked := scoreAll(e.config.Parallel, pool, func(s *Session) ScoredSession {
		return scoreSession(&e.config.Session, sig, *s)
	})
	sortByScore(ranked)
	return ranked
}

func (e *Engine) applyRerankers(ctx context.Context, candidates []ScoredSession, k int) []ScoredSession {
	e.rrMu.RLock()
	rerankers := e.rerankers
	e.rrMu.RUnlock()

	for _, rr := range rerankers {
		candidates = rr.Rerank(ctx, candidates, k)
	}
	return candidates
}

// signals derives the per-pass inputs, reusing memoized affinities when the
// catalog is versioned.
func (e *Engine) signals(catalog *Catalog, profile *UserProfile) *signals {
	profile = orEmpty(profile)
	return newSignals(catalog, profile, e.affinities(catalog, profile.ViewedSessions))
}

func (e *Engine) affinities(catalog *Catalog, viewed []string) Affinities {
	if e.affinityCache == nil || catalog.Version == "" {
		return ComputeAffinities(catalog, viewed)
	}

	key := catalog.Version + ":" + historyFingerprint(viewed)
	if aff, ok := e.affinityCache.Get(key); ok {
		e.observer.ObserveAffinityCache(true)
		return aff
	}
	e.observer.ObserveAffinityCache(false)

	aff := ComputeAffinities(catalog, viewed)
	e.affinityCache.Add(key, aff)
	return aff
}

func (e *Engine) similarSessions(id string, catalog *Catalog) ([]ScoredSession, bool) {
	idx, ok := indexSessions(catalog.Sessions)[id]
	if !ok {
		return nil, false
	}

	key := catalog.Version + ":" + id
	if e.similarSessionCache != nil && catalog.Version != "" {
		if ranked, hit := e.similarSessionCache.Get(key); hit {
			return ranked, true
		}
	}

	ranked := truncate(rankSimilarSessions(&e.config.Similarity, catalog, catalog.Sessions[idx]), e.config.Limits.MaxLimit)
	if e.similarSessionCache != nil && catalog.Version != "" {
		e.similarSessionCache.Add(key, ranked)
	}
	return ranked, true
}

func (e *Engine) similarDJs(id string, catalog *Catalog) ([]ScoredDJ, bool) {
	idx := -1
	for i := range catalog.DJs {
		if catalog.DJs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	key := catalog.Version + ":" + id
	if e.similarDJCache != nil && catalog.Version != "" {
		if ranked, hit := e.similarDJCache.Get(key); hit {
			return ranked, true
		}
	}

	ranked := truncate(rankSimilarDJs(&e.config.Similarity, catalog, catalog.DJs[idx]), e.config.Limits.MaxLimit)
	if e.similarDJCache != nil && catalog.Version != "" {
		e.similarDJCache.Add(key, ranked)
	}
	return ranked, true
}

// resolveLimit maps a requested limit to the number of items to return:
// zero selects def, negatives select nothing, and MaxLimit bounds the rest.
func (e *Engine) resolveLimit(limit, def int) int {
	switch {
	case limit < 0:
		return 0
	case limit == 0:
		return def
	case limit > e.config.Limits.MaxLimit:
		return e.config.Limits.MaxLimit
	default:
		return limit
	}
}

func (e *Engine) finish(op string, candidates, returned int, start time.Time) {
	elapsed := time.Since(start)
	e.observer.ObservePass(op, candidates, returned, elapsed)
	e.logger.Debug().
		Str("operation", op).
		Int("candidates", candidates).
		Int("returned", returned).
		Dur("duration", elapsed).
		Msg("recommendation pass complete")
}

// historyFingerprint hashes a viewing history for memo keys.
func historyFingerprint(viewed []string) string {
	d := xxhash.New()
	for _, id := range viewed {
		_, _ = d.WriteString(id)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// byPopularityThenRecency returns a sorted copy of sessions.
func byPopularityThenRecency(sessions []Session) []Session {
	out := append([]Session(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// items unwraps candidates into a fresh slice.
func items[T any](candidates []Candidate[T]) []T {
	out := make([]T, len(candidates))
	for i := range candidates {
		out[i] = candidates[i].Item
	}
	return out
}

var emptyProfile = UserProfile{}

func orEmpty(p *UserProfile) *UserProfile {
	if p == nil {
		return &emptyProfile
	}
	return p
}
