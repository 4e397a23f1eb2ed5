// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"context"
	"fmt"
	"testing"
)

func TestScoreSession(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{
		ViewedSessions: []string{"s1"},
		FavoriteDJs:    []string{"d2"},
		FavoriteGenres: []Genre{"techno"},
	}

	tests := []struct {
		name        string
		session     int
		wantScore   float64
		wantReasons []string
	}{
		{
			name:        "viewed session capped genre match",
			session:     0,
			wantScore:   30 + 25 + 10,
			wantReasons: []string{ReasonGenreMatch, "You've enjoyed Ana's sets"},
		},
		{
			name:        "same dj unviewed",
			session:     1,
			wantScore:   15 + 25 + 10 + 5,
			wantReasons: []string{ReasonGenreMatch, "You've enjoyed Ana's sets", ReasonNewSession},
		},
		{
			name:        "favorite dj and genre",
			session:     2,
			wantScore:   20 + 15 + 10 + 8,
			wantReasons: []string{ReasonFavoriteDJ, ReasonFavoriteGenres, ReasonNewSession},
		},
		{
			name:        "zero views adds no popularity",
			session:     4,
			wantScore:   20 + 10,
			wantReasons: []string{ReasonFavoriteDJ, ReasonNewSession},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ScoreSession(catalog.Sessions[tt.session], profile, catalog)
			if !approxEqual(got.Score, tt.wantScore) {
				t.Errorf("Score = %f, want %f", got.Score, tt.wantScore)
			}
			if !equalStrings(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestScoreSession_ConcreteScenario(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{Sessions: []Session{
		{ID: "S1", DJID: "D1", Genres: []Genre{"house"}, Series: SeriesStudio, Views: 100},
		{ID: "S2", DJID: "D2", Genres: []Genre{"techno"}, Series: SeriesStudio, Views: 10},
	}}
	profile := &UserProfile{FavoriteGenres: []Genre{"house"}}

	s1 := e.ScoreSession(catalog.Sessions[0], profile, catalog)
	if !approxEqual(s1.Score, 35) {
		t.Errorf("S1 score = %f, want 35", s1.Score)
	}
	s2 := e.ScoreSession(catalog.Sessions[1], profile, catalog)
	if !approxEqual(s2.Score, 11) {
		t.Errorf("S2 score = %f, want 11", s2.Score)
	}

	got := e.RecommendedSessions(context.Background(), catalog, profile, SessionOptions{Limit: 6})
	if want := []string{"S1", "S2"}; !equalStrings(sessionIDs(got), want) {
		t.Errorf("RecommendedSessions = %v, want %v", sessionIDs(got), want)
	}
}

func TestScoreSession_GenreCap(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{Sessions: []Session{
		{ID: "a", DJID: "x", Genres: []Genre{"house", "techno", "disco"}, Series: SeriesStudio},
		{ID: "b", DJID: "y", Genres: []Genre{"house", "techno", "disco"}, Series: SeriesStudio},
	}}
	profile := &UserProfile{ViewedSessions: []string{"a"}}

	// three genres at affinity 1 would give 45 uncapped
	got := e.ScoreSession(catalog.Sessions[1], profile, catalog)
	if !approxEqual(got.Score, 30+10) {
		t.Errorf("Score = %f, want 40", got.Score)
	}
}

func TestScoreSession_UnknownDJUsesID(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{Sessions: []Session{
		{ID: "a", DJID: "ghost", Series: SeriesStudio},
		{ID: "b", DJID: "ghost", Series: SeriesStudio},
	}}
	profile := &UserProfile{ViewedSessions: []string{"a"}}

	got := e.ScoreSession(catalog.Sessions[1], profile, catalog)
	if len(got.Reasons) == 0 || got.Reasons[0] != "You've enjoyed ghost's sets" {
		t.Errorf("Reasons = %v, want DJ id fallback first", got.Reasons)
	}
}

func TestScoreSession_NoveltyBonus(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{Sessions: []Session{
		{ID: "seen", DJID: "x", Genres: []Genre{"dub"}, Series: SeriesRooftop, Views: 7},
		{ID: "fresh", DJID: "x", Genres: []Genre{"dub"}, Series: SeriesRooftop, Views: 7},
	}}
	// same DJ and genres, so every other factor matches
	profile := &UserProfile{ViewedSessions: []string{"seen"}}

	seen := e.ScoreSession(catalog.Sessions[0], profile, catalog)
	fresh := e.ScoreSession(catalog.Sessions[1], profile, catalog)
	if !approxEqual(fresh.Score-seen.Score, 10) {
		t.Errorf("novelty difference = %f, want 10", fresh.Score-seen.Score)
	}
	if fresh.Reasons[len(fresh.Reasons)-1] != ReasonNewSession {
		t.Errorf("fresh reasons = %v, want %q last", fresh.Reasons, ReasonNewSession)
	}
}

func TestScoreSession_MonotonicInFavoriteGenres(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	base := &UserProfile{ViewedSessions: []string{"s3"}, FavoriteGenres: []Genre{"ambient"}}
	more := &UserProfile{ViewedSessions: []string{"s3"}, FavoriteGenres: []Genre{"ambient", "house"}}

	for _, s := range catalog.Sessions {
		if countIn(s.Genres, toSet([]Genre{"house"})) == 0 {
			continue
		}
		before := e.ScoreSession(s, base, catalog).Score
		after := e.ScoreSession(s, more, catalog).Score
		if after < before {
			t.Errorf("session %s: score dropped from %f to %f after adding favorite genre", s.ID, before, after)
		}
	}
}

func TestScoreSession_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s1", "s4"}, FavoriteGenres: []Genre{"techno"}}

	first := e.TopSessionRecommendations(context.Background(), catalog, profile, 5)
	for i := 0; i < 10; i++ {
		again := e.TopSessionRecommendations(context.Background(), catalog, profile, 5)
		for j := range first {
			if first[j].Item.ID != again[j].Item.ID || first[j].Score != again[j].Score {
				t.Fatalf("run %d differs at %d: %s/%f vs %s/%f",
					i, j, first[j].Item.ID, first[j].Score, again[j].Item.ID, again[j].Score)
			}
		}
	}
}

func TestScoreDJ(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{
		ViewedSessions: []string{"s1"},
		FavoriteDJs:    []string{"d2"},
		FavoriteGenres: []Genre{"techno"},
	}

	tests := []struct {
		name        string
		dj          int
		wantScore   float64
		wantReasons []string
	}{
		{
			name:        "featured dj with capped genre match",
			dj:          0,
			wantScore:   40 + 6 + 10 + 5,
			wantReasons: []string{ReasonDJGenreMatch, "2 sessions available", ReasonFeaturedDJ, ReasonNewDJ},
		},
		{
			name:        "favorite dj gets no novelty",
			dj:          1,
			wantScore:   20 + 6,
			wantReasons: []string{ReasonDJFavoriteGenres, "2 sessions available"},
		},
		{
			name:        "single session pluralization",
			dj:          2,
			wantScore:   20 + 3 + 5,
			wantReasons: []string{ReasonDJGenreMatch, "1 session available", ReasonNewDJ},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ScoreDJ(catalog.DJs[tt.dj], profile, catalog)
			if !approxEqual(got.Score, tt.wantScore) {
				t.Errorf("Score = %f, want %f", got.Score, tt.wantScore)
			}
			if !equalStrings(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
		})
	}
}

func TestScoreDJ_AvailabilityCap(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{DJs: []DJ{{ID: "d"}}}
	for i := 0; i < 6; i++ {
		catalog.Sessions = append(catalog.Sessions, Session{ID: fmt.Sprintf("s%d", i), DJID: "d", Series: SeriesStudio})
	}
	profile := &UserProfile{FavoriteDJs: []string{"d"}}

	got := e.ScoreDJ(catalog.DJs[0], profile, catalog)
	if !approxEqual(got.Score, 15) {
		t.Errorf("Score = %f, want 15", got.Score)
	}
	if !equalStrings(got.Reasons, []string{"6 sessions available"}) {
		t.Errorf("Reasons = %v", got.Reasons)
	}
}

func TestReasonSessionsAvailable(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1 session available"},
		{2, "2 sessions available"},
		{12, "12 sessions available"},
	}
	for _, tt := range tests {
		if got := ReasonSessionsAvailable(tt.n); got != tt.want {
			t.Errorf("ReasonSessionsAvailable(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCountIn(t *testing.T) {
	set := toSet([]Genre{"house", "techno"})

	tests := []struct {
		name  string
		items []Genre
		want  int
	}{
		{"none", []Genre{"dub"}, 0},
		{"one", []Genre{"house", "dub"}, 1},
		{"two", []Genre{"house", "techno"}, 2},
		{"duplicates counted once", []Genre{"house", "house"}, 1},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countIn(tt.items, set); got != tt.want {
				t.Errorf("countIn() = %d, want %d", got, tt.want)
			}
		})
	}
}
