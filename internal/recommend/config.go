// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
// Weights are fixed for the lifetime of an Engine.
type Config struct {
	// Session contains the session scoring weights.
	Session SessionWeights `json:"session" koanf:"session"`

	// DJ contains the DJ scoring weights.
	DJ DJWeights `json:"dj" koanf:"dj"`

	// Similarity contains the "more like this" weights.
	Similarity SimilarityWeights `json:"similarity" koanf:"similarity"`

	// Diversity contains parameters for diversity reranking.
	Diversity DiversityConfig `json:"diversity" koanf:"diversity"`

	// Limits contains list size defaults and bounds.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Parallel controls fan-out scoring for large catalogs.
	Parallel ParallelConfig `json:"parallel" koanf:"parallel"`

	// Cache contains affinity memoization parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// SessionWeights defines the contribution of each session scoring factor.
type SessionWeights struct {
	// GenreAffinity is added per genre, multiplied by the genre affinity.
	// Default: 15.
	GenreAffinity float64 `json:"genre_affinity" koanf:"genre_affinity"`

	// GenreAffinityCap clamps the total genre affinity contribution.
	// Default: 30.
	GenreAffinityCap float64 `json:"genre_affinity_cap" koanf:"genre_affinity_cap"`

	// DJAffinity is multiplied by the DJ affinity. Uncapped.
	// Default: 25.
	DJAffinity float64 `json:"dj_affinity" koanf:"dj_affinity"`

	// FavoriteDJ is the flat bonus for a favorited DJ.
	// Default: 20.
	FavoriteDJ float64 `json:"favorite_dj" koanf:"favorite_dj"`

	// FavoriteGenre is added per genre shared with the favorite genres.
	// Default: 15.
	FavoriteGenre float64 `json:"favorite_genre" koanf:"favorite_genre"`

	// Novelty is the flat bonus for an unviewed session.
	// Default: 10.
	Novelty float64 `json:"novelty" koanf:"novelty"`

	// PopularityCap scales views relative to the most viewed session.
	// Default: 10.
	PopularityCap float64 `json:"popularity_cap" koanf:"popularity_cap"`
}

// DJWeights defines the contribution of each DJ scoring factor.
type DJWeights struct {
	// GenreAffinity is added per genre, multiplied by the genre affinity.
	// Default: 20.
	GenreAffinity float64 `json:"genre_affinity" koanf:"genre_affinity"`

	// GenreAffinityCap clamps the total genre affinity contribution.
	// Default: 40.
	GenreAffinityCap float64 `json:"genre_affinity_cap" koanf:"genre_affinity_cap"`

	// FavoriteGenre is added per genre shared with the favorite genres.
	// Default: 20.
	FavoriteGenre float64 `json:"favorite_genre" koanf:"favorite_genre"`

	// PerSession is added per session the DJ has in the catalog.
	// Default: 3.
	PerSession float64 `json:"per_session" koanf:"per_session"`

	// AvailabilityCap clamps the session availability contribution.
	// Default: 15.
	AvailabilityCap float64 `json:"availability_cap" koanf:"availability_cap"`

	// Featured is the flat bonus for featured DJs.
	// Default: 10.
	Featured float64 `json:"featured" koanf:"featured"`

	// Novelty is the flat bonus for a DJ that is not yet a favorite.
	// Default: 5.
	Novelty float64 `json:"novelty" koanf:"novelty"`
}

// SimilarityWeights defines the content overlap weights.
type SimilarityWeights struct {
	// SameDJ is added when two sessions share a DJ.
	// Default: 5.
	SameDJ float64 `json:"same_dj" koanf:"same_dj"`

	// SameSeries is added when two sessions share a series.
	// Default: 3.
	SameSeries float64 `json:"same_series" koanf:"same_series"`

	// SessionGenre is added per shared session genre.
	// Default: 2.
	SessionGenre float64 `json:"session_genre" koanf:"session_genre"`

	// SessionMood is added per shared mood.
	// Default: 1.
	SessionMood float64 `json:"session_mood" koanf:"session_mood"`

	// DJGenre is added per genre two DJs share.
	// Default: 3.
	DJGenre float64 `json:"dj_genre" koanf:"dj_genre"`

	// SameLocation is added when two DJs share a location.
	// Default: 2.
	SameLocation float64 `json:"same_location" koanf:"same_location"`
}

// DiversityConfig contains parameters for diversity reranking.
type DiversityConfig struct {
	// MMRLambda enables an additional genre-based MMR pass after the DJ/series
	// balancer when below 1.0. 1.0 means pure relevance (MMR disabled).
	// Default: 1.0.
	MMRLambda float64 `json:"mmr_lambda" koanf:"mmr_lambda"`
}

// LimitsConfig contains list size defaults and bounds.
type LimitsConfig struct {
	// DefaultSessions is the session list size when no limit is given.
	// Default: 6.
	DefaultSessions int `json:"default_sessions" koanf:"default_sessions"`

	// DefaultDJs is the DJ list size when no limit is given.
	// Default: 4.
	DefaultDJs int `json:"default_djs" koanf:"default_djs"`

	// DefaultSimilar is the similarity list size when no limit is given.
	// Default: 4.
	DefaultSimilar int `json:"default_similar" koanf:"default_similar"`

	// MaxLimit bounds any requested limit.
	// Default: 100.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
}

// ParallelConfig controls fan-out scoring.
type ParallelConfig struct {
	// MinCandidates is the catalog size at which scoring fans out.
	// Default: 2000.
	MinCandidates int `json:"min_candidates" koanf:"min_candidates"`

	// Workers is the maximum number of scoring goroutines.
	// Default: 4.
	Workers int `json:"workers" koanf:"workers"`
}

// CacheConfig contains affinity memoization parameters.
type CacheConfig struct {
	// Enabled controls whether affinity maps are memoized per catalog
	// version and viewing history.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 4096.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with the standard scoring constants.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionWeights{
			GenreAffinity:    15,
			GenreAffinityCap: 30,
			DJAffinity:       25,
			FavoriteDJ:       20,
			FavoriteGenre:    15,
			Novelty:          10,
			PopularityCap:    10,
		},
		DJ: DJWeights{
			GenreAffinity:    20,
			GenreAffinityCap: 40,
			FavoriteGenre:    20,
			PerSession:       3,
			AvailabilityCap:  15,
			Featured:         10,
			Novelty:          5,
		},
		Similarity: SimilarityWeights{
			SameDJ:       5,
			SameSeries:   3,
			SessionGenre: 2,
			SessionMood:  1,
			DJGenre:      3,
			SameLocation: 2,
		},
		Diversity: DiversityConfig{
			MMRLambda: 1.0,
		},
		Limits: LimitsConfig{
			DefaultSessions: 6,
			DefaultDJs:      4,
			DefaultSimilar:  4,
			MaxLimit:        100,
		},
		Parallel: ParallelConfig{
			MinCandidates: 2000,
			Workers:       4,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 4096,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	weights := map[string]float64{
		"session.genre_affinity":     c.Session.GenreAffinity,
		"session.genre_affinity_cap": c.Session.GenreAffinityCap,
		"session.dj_affinity":        c.Session.DJAffinity,
		"session.favorite_dj":        c.Session.FavoriteDJ,
		"session.favorite_genre":     c.Session.FavoriteGenre,
		"session.novelty":            c.Session.Novelty,
		"session.popularity_cap":     c.Session.PopularityCap,
		"dj.genre_affinity":          c.DJ.GenreAffinity,
		"dj.genre_affinity_cap":      c.DJ.GenreAffinityCap,
		"dj.favorite_genre":          c.DJ.FavoriteGenre,
		"dj.per_session":             c.DJ.PerSession,
		"dj.availability_cap":        c.DJ.AvailabilityCap,
		"dj.featured":                c.DJ.Featured,
		"dj.novelty":                 c.DJ.Novelty,
		"similarity.same_dj":         c.Similarity.SameDJ,
		"similarity.same_series":     c.Similarity.SameSeries,
		"similarity.session_genre":   c.Similarity.SessionGenre,
		"similarity.session_mood":    c.Similarity.SessionMood,
		"similarity.dj_genre":        c.Similarity.DJGenre,
		"similarity.same_location":   c.Similarity.SameLocation,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, w)
		}
	}

	if c.Diversity.MMRLambda < 0 || c.Diversity.MMRLambda > 1 {
		return fmt.Errorf("diversity.mmr_lambda must be in [0, 1], got %f", c.Diversity.MMRLambda)
	}

	if c.Limits.DefaultSessions < 1 {
		return fmt.Errorf("limits.default_sessions must be positive, got %d", c.Limits.DefaultSessions)
	}
	if c.Limits.DefaultDJs < 1 {
		return fmt.Errorf("limits.default_djs must be positive, got %d", c.Limits.DefaultDJs)
	}
	if c.Limits.DefaultSimilar < 1 {
		return fmt.Errorf("limits.default_similar must be positive, got %d", c.Limits.DefaultSimilar)
	}
	maxDefault := max(c.Limits.DefaultSessions, c.Limits.DefaultDJs, c.Limits.DefaultSimilar)
	if c.Limits.MaxLimit < maxDefault {
		return fmt.Errorf("limits.max_limit must be >= every default limit, got %d < %d", c.Limits.MaxLimit, maxDefault)
	}

	if c.Parallel.MinCandidates < 1 {
		return fmt.Errorf("parallel.min_candidates must be positive, got %d", c.Parallel.MinCandidates)
	}
	if c.Parallel.Workers < 1 {
		return fmt.Errorf("parallel.workers must be positive, got %d", c.Parallel.Workers)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}
