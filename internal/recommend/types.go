// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"context"
	"time"
)

// MaxViewedSessions is the maximum length of UserProfile.ViewedSessions.
// Profile stores trim the history to this size on every view.
const MaxViewedSessions = 50

// Genre is a music genre tag such as "house" or "techno".
type Genre string

// Mood is a free-form mood tag attached to a session.
type Mood string

// Series identifies the recording format of a session.
type Series string

const (
	// SeriesStudio is a set recorded in the studio.
	SeriesStudio Series = "studio"
	// SeriesWarehouse is a set recorded at a warehouse event.
	SeriesWarehouse Series = "warehouse"
	// SeriesRooftop is a set recorded on a rooftop.
	SeriesRooftop Series = "rooftop"
)

// Valid reports whether s is one of the known series.
func (s Series) Valid() bool {
	switch s {
	case SeriesStudio, SeriesWarehouse, SeriesRooftop:
		return true
	default:
		return false
	}
}

// String returns the series name.
func (s Series) String() string {
	return string(s)
}

// Session is a recorded DJ set.
type Session struct {
	// ID is the unique session identifier.
	ID string `json:"id" yaml:"id" validate:"required,catalogid"`

	// Title is the display title.
	Title string `json:"title,omitempty" yaml:"title"`

	// DJID references the DJ who played the set. Many sessions share a DJ.
	DJID string `json:"dj_id" yaml:"dj_id" validate:"required,catalogid"`

	// Genres is the set of genres played.
	Genres []Genre `json:"genres" yaml:"genres" validate:"unique,dive,required"`

	// Series is the recording format.
	Series Series `json:"series" yaml:"series" validate:"required,oneof=studio warehouse rooftop"`

	// Moods is the set of mood tags.
	Moods []Mood `json:"moods,omitempty" yaml:"moods" validate:"unique,dive,required"`

	// Date is the publication date.
	Date time.Time `json:"date" yaml:"date"`

	// Views is the lifetime view count.
	Views int `json:"views" yaml:"views" validate:"gte=0"`
}

// DJ is an artist who plays sessions.
type DJ struct {
	ID       string  `json:"id" yaml:"id" validate:"required,catalogid"`
	Name     string  `json:"name" yaml:"name"`
	Genres   []Genre `json:"genres" yaml:"genres" validate:"unique,dive,required"`
	Location string  `json:"location,omitempty" yaml:"location"`
	Featured bool    `json:"featured" yaml:"featured"`
}

// DisplayName returns the DJ name, falling back to the ID.
func (d *DJ) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// UserProfile is the per-user state the engine personalizes against.
// The engine only reads profiles; mutation belongs to the profile store.
type UserProfile struct {
	// ViewedSessions holds session IDs, most recent first, duplicate-free,
	// at most MaxViewedSessions entries.
	ViewedSessions []string `json:"viewed_sessions"`

	// FavoriteDJs is the set of favorited DJ IDs.
	FavoriteDJs []string `json:"favorite_djs"`

	// FavoriteGenres is the set of explicitly chosen genres.
	FavoriteGenres []Genre `json:"favorite_genres"`
}

// IsEmpty reports whether the profile has no history and no favorites.
func (p *UserProfile) IsEmpty() bool {
	return len(p.ViewedSessions) == 0 && len(p.FavoriteDJs) == 0 && len(p.FavoriteGenres) == 0
}

// Catalog is a read-only snapshot of all sessions and DJs.
type Catalog struct {
	// Version fingerprints the snapshot. Affinity memoization is keyed on it,
	// so an empty Version disables memoization.
	Version string `json:"version,omitempty"`

	Sessions []Session `json:"sessions" validate:"dive"`
	DJs      []DJ      `json:"djs" validate:"dive"`
}

// AffinityMap maps a genre or DJ ID to a normalized affinity in [0, 1].
type AffinityMap[K comparable] map[K]float64

// Candidate is an item paired with its score and the reasons behind it.
// Reasons are ordered by the order the scoring factors were applied.
type Candidate[T any] struct {
	Item    T        `json:"item"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// ScoredSession is a scored session candidate.
type ScoredSession = Candidate[Session]

// ScoredDJ is a scored DJ candidate.
type ScoredDJ = Candidate[DJ]

// SessionOptions controls RecommendedSessions.
type SessionOptions struct {
	// Limit is the number of sessions to return.
	// Zero selects Limits.DefaultSessions, negative returns nothing.
	Limit int `json:"limit"`

	// ExcludeViewed drops sessions already in the viewing history.
	ExcludeViewed bool `json:"exclude_viewed"`

	// Diversify runs the reranker chain before truncation.
	Diversify bool `json:"diversify"`
}

// Reranker reorders a score-sorted candidate list.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank returns at most k candidates. It must not invent candidates
	// or mutate the input slice.
	Rerank(ctx context.Context, candidates []ScoredSession, k int) []ScoredSession
}

// Observer receives per-pass measurements. Implementations must be safe for
// concurrent use.
type Observer interface {
	// ObservePass records one engine operation.
	ObservePass(operation string, candidates, returned int, duration time.Duration)

	// ObserveAffinityCache records an affinity memo lookup.
	ObserveAffinityCache(hit bool)
}

type nopObserver struct{}

func (nopObserver) ObservePass(string, int, int, time.Duration) {}
func (nopObserver) ObserveAffinityCache(bool)                   {}
