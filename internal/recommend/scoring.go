// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"fmt"
	"math"
)

// Reason strings shown to users. Presentation layers may map them through
// their own localization, so they must stay stable.
const (
	ReasonGenreMatch       = "Matches your genre preferences"
	ReasonFavoriteDJ       = "From one of your favorite DJs"
	ReasonFavoriteGenres   = "Includes your favorite genres"
	ReasonNewSession       = "New session for you"
	ReasonDJGenreMatch     = "Plays genres you listen to"
	ReasonDJFavoriteGenres = "Plays your favorite genres"
	ReasonFeaturedDJ       = "Featured artist"
	ReasonNewDJ            = "Discover someone new"
)

// ReasonEnjoyedDJ formats the DJ affinity reason.
func ReasonEnjoyedDJ(djName string) string {
	return fmt.Sprintf("You've enjoyed %s's sets", djName)
}

// ReasonSessionsAvailable formats the DJ availability reason.
func ReasonSessionsAvailable(n int) string {
	if n == 1 {
		return "1 session available"
	}
	return fmt.Sprintf("%d sessions available", n)
}

// Affinities holds both affinity maps derived from one viewing history.
type Affinities struct {
	Genres AffinityMap[Genre]
	DJs    AffinityMap[string]
}

// ComputeAffinities computes both affinity maps in one pass setup.
func ComputeAffinities(catalog *Catalog, viewedIDs []string) Affinities {
	return Affinities{
		Genres: ComputeGenreAffinity(catalog, viewedIDs),
		DJs:    ComputeDJAffinity(catalog, viewedIDs),
	}
}

// signals is everything a scoring pass derives once from (catalog, profile).
type signals struct {
	affinities     Affinities
	viewed         map[string]struct{}
	favoriteDJs    map[string]struct{}
	favoriteGenres map[Genre]struct{}
	maxViews       int
	djNames        map[string]string
	sessionsPerDJ  map[string]int
}

func newSignals(catalog *Catalog, profile *UserProfile, aff Affinities) *signals {
	s := &signals{
		affinities:     aff,
		viewed:         toSet(profile.ViewedSessions),
		favoriteDJs:    toSet(profile.FavoriteDJs),
		favoriteGenres: toSet(profile.FavoriteGenres),
		maxViews:       1,
		djNames:        make(map[string]string, len(catalog.DJs)),
		sessionsPerDJ:  make(map[string]int, len(catalog.DJs)),
	}

	for i := range catalog.Sessions {
		sess := &catalog.Sessions[i]
		if sess.Views > s.maxViews {
			s.maxViews = sess.Views
		}
		s.sessionsPerDJ[sess.DJID]++
	}
	for i := range catalog.DJs {
		dj := &catalog.DJs[i]
		if _, seen := s.djNames[dj.ID]; !seen {
			s.djNames[dj.ID] = dj.DisplayName()
		}
	}

	return s
}

// scoreSession sums the independently capped session factors.
//
//nolint:gocritic // hugeParam: session copied into the candidate by design of Candidate
func scoreSession(w *SessionWeights, sig *signals, session Session) ScoredSession {
	c := ScoredSession{Item: session, Reasons: []string{}}

	genreScore := 0.0
	for _, g := range session.Genres {
		genreScore += sig.affinities.Genres[g] * w.GenreAffinity
	}
	genreScore = math.Min(genreScore, w.GenreAffinityCap)
	if genreScore > 0 {
		c.Score += genreScore
		c.Reasons = append(c.Reasons, ReasonGenreMatch)
	}

	if djScore := sig.affinities.DJs[session.DJID] * w.DJAffinity; djScore > 0 {
		c.Score += djScore
		name, ok := sig.djNames[session.DJID]
		if !ok {
			name = session.DJID
		}
		c.Reasons = append(c.Reasons, ReasonEnjoyedDJ(name))
	}

	if _, fav := sig.favoriteDJs[session.DJID]; fav && w.FavoriteDJ > 0 {
		c.Score += w.FavoriteDJ
		c.Reasons = append(c.Reasons, ReasonFavoriteDJ)
	}

	if matches := countIn(session.Genres, sig.favoriteGenres); matches > 0 && w.FavoriteGenre > 0 {
		c.Score += float64(matches) * w.FavoriteGenre
		c.Reasons = append(c.Reasons, ReasonFavoriteGenres)
	}

	if _, seen := sig.viewed[session.ID]; !seen && w.Novelty > 0 {
		c.Score += w.Novelty
		c.Reasons = append(c.Reasons, ReasonNewSession)
	}

	popularity := float64(session.Views) / float64(sig.maxViews) * w.PopularityCap
	c.Score += math.Min(popularity, w.PopularityCap)

	return c
}

// scoreDJ mirrors scoreSession for artists.
//
//nolint:gocritic // hugeParam: dj copied into the candidate
func scoreDJ(w *DJWeights, sig *signals, dj DJ) ScoredDJ {
	c := ScoredDJ{Item: dj, Reasons: []string{}}

	genreScore := 0.0
	for _, g := range dj.Genres {
		genreScore += sig.affinities.Genres[g] * w.GenreAffinity
	}
	genreScore = math.Min(genreScore, w.GenreAffinityCap)
	if genreScore > 0 {
		c.Score += genreScore
		c.Reasons = append(c.Reasons, ReasonDJGenreMatch)
	}

	if matches := countIn(dj.Genres, sig.favoriteGenres); matches > 0 && w.FavoriteGenre > 0 {
		c.Score += float64(matches) * w.FavoriteGenre
		c.Reasons = append(c.Reasons, ReasonDJFavoriteGenres)
	}

	count := sig.sessionsPerDJ[dj.ID]
	if availability := math.Min(float64(count)*w.PerSession, w.AvailabilityCap); availability > 0 {
		c.Score += availability
		c.Reasons = append(c.Reasons, ReasonSessionsAvailable(count))
	}

	if dj.Featured && w.Featured > 0 {
		c.Score += w.Featured
		c.Reasons = append(c.Reasons, ReasonFeaturedDJ)
	}

	if _, fav := sig.favoriteDJs[dj.ID]; !fav && w.Novelty > 0 {
		c.Score += w.Novelty
		c.Reasons = append(c.Reasons, ReasonNewDJ)
	}

	return c
}

func toSet[K comparable](items []K) map[K]struct{} {
	set := make(map[K]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// countIn counts distinct items present in set.
func countIn[K comparable](items []K, set map[K]struct{}) int {
	if len(set) == 0 {
		return 0
	}
	n := 0
	seen := make(map[K]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		if _, ok := set[item]; ok {
			n++
		}
	}
	return n
}
