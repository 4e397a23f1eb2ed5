// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// recordingObserver implements Observer for testing.
type recordingObserver struct {
	mu     sync.Mutex
	passes map[string]int
	hits   int
	misses int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{passes: make(map[string]int)}
}

func (o *recordingObserver) ObservePass(op string, _, _ int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.passes[op]++
}

func (o *recordingObserver) ObserveAffinityCache(hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

// reverseReranker implements Reranker for testing.
type reverseReranker struct{}

func (reverseReranker) Name() string { return "reverse" }

func (reverseReranker) Rerank(_ context.Context, c []ScoredSession, k int) []ScoredSession {
	out := make([]ScoredSession, 0, len(c))
	for i := len(c) - 1; i >= 0; i-- {
		out = append(out, c[i])
	}
	return truncate(out, k)
}

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error = %v", err)
		}
		if e.Config().Limits.DefaultSessions != 6 {
			t.Errorf("DefaultSessions = %d, want 6", e.Config().Limits.DefaultSessions)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Limits.DefaultDJs = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		e, err := NewEngine(cfg, zerolog.Nop())
		if err != nil {
			t.Fatal(err)
		}
		cfg.Session.Novelty = 99
		if e.Config().Session.Novelty != 10 {
			t.Error("engine config changed after caller mutation")
		}
	})

	t.Run("diversity balancer registered first", func(t *testing.T) {
		e := newTestEngine(t)
		e.RegisterReranker(reverseReranker{})
		if got := e.Rerankers(); !equalStrings(got, []string{"diversity", "reverse"}) {
			t.Errorf("Rerankers() = %v", got)
		}
	})
}

func TestEngine_RecommendedSessions(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	ctx := context.Background()

	tests := []struct {
		name    string
		profile *UserProfile
		opts    SessionOptions
		want    []string
	}{
		{
			name:    "empty profile falls back to popularity",
			profile: &UserProfile{},
			opts:    SessionOptions{},
			want:    []string{"s1", "s3", "s2", "s4", "s5"},
		},
		{
			name:    "nil profile treated as empty",
			profile: nil,
			opts:    SessionOptions{Limit: 2},
			want:    []string{"s1", "s3"},
		},
		{
			name:    "viewed sessions excluded",
			profile: &UserProfile{ViewedSessions: []string{"s1"}},
			opts:    SessionOptions{Limit: 3, ExcludeViewed: true},
			want:    []string{"s2", "s4", "s3"},
		},
		{
			name:    "viewed sessions kept by default",
			profile: &UserProfile{ViewedSessions: []string{"s1"}},
			opts:    SessionOptions{Limit: 1},
			want:    []string{"s1"},
		},
		{
			name:    "negative limit",
			profile: &UserProfile{},
			opts:    SessionOptions{Limit: -1},
			want:    []string{},
		},
		{
			name:    "everything viewed and excluded",
			profile: &UserProfile{ViewedSessions: []string{"s1", "s2", "s3", "s4", "s5"}},
			opts:    SessionOptions{ExcludeViewed: true},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.RecommendedSessions(ctx, catalog, tt.profile, tt.opts)
			if !equalStrings(sessionIDs(got), tt.want) {
				t.Errorf("RecommendedSessions() = %v, want %v", sessionIDs(got), tt.want)
			}
		})
	}
}

func TestEngine_RecommendedSessions_EmptyCatalog(t *testing.T) {
	e := newTestEngine(t)
	got := e.RecommendedSessions(context.Background(), &Catalog{}, &UserProfile{FavoriteGenres: []Genre{"house"}}, SessionOptions{Limit: 6})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestEngine_RecommendedSessions_Diversify(t *testing.T) {
	e := newTestEngine(t)
	catalog := &Catalog{}
	for i := 0; i < 6; i++ {
		catalog.Sessions = append(catalog.Sessions, Session{
			ID: fmt.Sprintf("a%d", i), DJID: "D1", Series: SeriesStudio, Views: 100 - i,
		})
	}
	catalog.Sessions = append(catalog.Sessions,
		Session{ID: "b", DJID: "D2", Series: SeriesWarehouse, Views: 10},
		Session{ID: "c", DJID: "D3", Series: SeriesRooftop, Views: 5},
	)
	profile := &UserProfile{}

	plain := e.RecommendedSessions(context.Background(), catalog, profile, SessionOptions{Limit: 4})
	if want := []string{"a0", "a1", "a2", "a3"}; !equalStrings(sessionIDs(plain), want) {
		t.Errorf("plain = %v, want %v", sessionIDs(plain), want)
	}

	diverse := e.RecommendedSessions(context.Background(), catalog, profile, SessionOptions{Limit: 4, Diversify: true})
	if want := []string{"a0", "a1", "b", "c"}; !equalStrings(sessionIDs(diverse), want) {
		t.Errorf("diverse = %v, want %v", sessionIDs(diverse), want)
	}
}

func TestEngine_Diversify(t *testing.T) {
	e := newTestEngine(t)
	cands := []ScoredSession{
		candidate("a1", "D1", SeriesStudio, 3),
		candidate("a2", "D1", SeriesStudio, 2),
		candidate("a3", "D1", SeriesStudio, 1),
		candidate("b1", "D2", SeriesWarehouse, 0),
	}

	got := e.Diversify(context.Background(), cands, 3)
	if want := []string{"a1", "a2", "b1"}; !equalStrings(candidateIDs(got), want) {
		t.Errorf("Diversify() = %v, want %v", candidateIDs(got), want)
	}

	e.RegisterReranker(reverseReranker{})
	got = e.Diversify(context.Background(), cands, 3)
	if want := []string{"b1", "a2", "a1"}; !equalStrings(candidateIDs(got), want) {
		t.Errorf("chained Diversify() = %v, want %v", candidateIDs(got), want)
	}

	if got := e.Diversify(context.Background(), cands, -1); len(got) != 0 {
		t.Errorf("negative limit returned %d candidates", len(got))
	}
}

func TestEngine_TopSessionRecommendations(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s1"}, FavoriteDJs: []string{"d2"}, FavoriteGenres: []Genre{"techno"}}

	got := e.TopSessionRecommendations(context.Background(), catalog, profile, 0)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("not sorted at %d: %f > %f", i, got[i].Score, got[i-1].Score)
		}
	}
	if got[0].Item.ID != "s1" || !approxEqual(got[0].Score, 65) {
		t.Errorf("top = %s/%f, want s1/65", got[0].Item.ID, got[0].Score)
	}
}

func TestEngine_RecommendedDJs(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s1"}, FavoriteDJs: []string{"d2"}, FavoriteGenres: []Genre{"techno"}}

	got := e.RecommendedDJs(context.Background(), catalog, profile, 0)
	if want := []string{"d1", "d3", "d2"}; !equalStrings(djIDs(got), want) {
		t.Errorf("RecommendedDJs() = %v, want %v", djIDs(got), want)
	}

	if got := e.RecommendedDJs(context.Background(), catalog, profile, 1); len(got) != 1 {
		t.Errorf("limit 1 returned %d", len(got))
	}
}

func TestEngine_SimilarSessions(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()

	if got := e.SimilarSessions("s1", catalog, 0); !equalStrings(sessionIDs(got), []string{"s2", "s4", "s5", "s3"}) {
		t.Errorf("SimilarSessions(s1) = %v", sessionIDs(got))
	}
	if got := e.SimilarSessions("s1", catalog, 2); !equalStrings(sessionIDs(got), []string{"s2", "s4"}) {
		t.Errorf("SimilarSessions(s1, 2) = %v", sessionIDs(got))
	}
	if got := e.SimilarSessions("missing", catalog, 4); got == nil || len(got) != 0 {
		t.Errorf("SimilarSessions(missing) = %v, want empty", got)
	}
}

func TestEngine_SimilarDJs(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()

	if got := e.SimilarDJs("d1", catalog, 0); !equalStrings(djIDs(got), []string{"d3", "d2"}) {
		t.Errorf("SimilarDJs(d1) = %v", djIDs(got))
	}
	if got := e.SimilarDJs("nobody", catalog, 4); len(got) != 0 {
		t.Errorf("SimilarDJs(nobody) = %v, want empty", djIDs(got))
	}
}

func TestEngine_SimilarSessions_CacheFollowsVersion(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	catalog.Version = "v1"

	first := e.SimilarSessions("s1", catalog, 1)
	if !equalStrings(sessionIDs(first), []string{"s2"}) {
		t.Fatalf("first = %v", sessionIDs(first))
	}

	// s2 moves to another DJ and series; a new version must not see the old list
	updated := testCatalog()
	updated.Version = "v2"
	updated.Sessions[1].DJID = "d3"
	updated.Sessions[1].Genres = []Genre{"dub"}

	second := e.SimilarSessions("s1", updated, 1)
	if equalStrings(sessionIDs(second), []string{"s2"}) {
		t.Errorf("stale similarity list served for new catalog version")
	}
}

func TestEngine_ContinueWatching(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s4", "gone", "s2", "s1"}}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"default limit", 0, []string{"s4", "s2", "s1"}},
		{"limit counts dangling entries", 2, []string{"s4"}},
		{"negative limit", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ContinueWatching(profile, catalog, tt.limit)
			if !equalStrings(sessionIDs(got), tt.want) {
				t.Errorf("ContinueWatching() = %v, want %v", sessionIDs(got), tt.want)
			}
		})
	}
}

func TestEngine_TrendingAndNewReleases(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()

	if got := e.TrendingSessions(catalog); !equalStrings(sessionIDs(got), []string{"s1", "s3", "s2", "s4", "s5"}) {
		t.Errorf("TrendingSessions() = %v", sessionIDs(got))
	}
	if got := e.NewReleases(catalog); !equalStrings(sessionIDs(got), []string{"s5", "s4", "s3", "s2", "s1"}) {
		t.Errorf("NewReleases() = %v", sessionIDs(got))
	}
	if catalog.Sessions[0].ID != "s1" {
		t.Error("catalog mutated by sort")
	}
	if got := e.TrendingSessions(&Catalog{}); got == nil || len(got) != 0 {
		t.Errorf("TrendingSessions(empty) = %v", got)
	}
}

func TestEngine_SessionsByFavoriteGenres(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()

	tests := []struct {
		name    string
		profile *UserProfile
		limit   int
		want    []string
	}{
		{"techno", &UserProfile{FavoriteGenres: []Genre{"techno"}}, 0, []string{"s3", "s4"}},
		{"house limited", &UserProfile{FavoriteGenres: []Genre{"house"}}, 2, []string{"s1", "s2"}},
		{"no favorites", &UserProfile{}, 0, []string{}},
		{"unknown genre", &UserProfile{FavoriteGenres: []Genre{"polka"}}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.SessionsByFavoriteGenres(catalog, tt.profile, tt.limit)
			if !equalStrings(sessionIDs(got), tt.want) {
				t.Errorf("SessionsByFavoriteGenres() = %v, want %v", sessionIDs(got), tt.want)
			}
		})
	}
}

func TestEngine_NilCatalogPanics(t *testing.T) {
	e := newTestEngine(t)
	calls := map[string]func(){
		"RecommendedSessions": func() { e.RecommendedSessions(context.Background(), nil, nil, SessionOptions{}) },
		"RecommendedDJs":      func() { e.RecommendedDJs(context.Background(), nil, nil, 0) },
		"SimilarSessions":     func() { e.SimilarSessions("x", nil, 0) },
		"ContinueWatching":    func() { e.ContinueWatching(nil, nil, 0) },
		"TrendingSessions":    func() { e.TrendingSessions(nil) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic on nil catalog", name)
				}
			}()
			call()
		})
	}
}

func TestEngine_LimitClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxLimit = 6
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	catalog := &Catalog{}
	for i := 0; i < 20; i++ {
		catalog.Sessions = append(catalog.Sessions, Session{ID: fmt.Sprintf("s%d", i), DJID: "d", Series: SeriesStudio})
	}

	got := e.RecommendedSessions(context.Background(), catalog, nil, SessionOptions{Limit: 50})
	if len(got) != 6 {
		t.Errorf("len = %d, want 6", len(got))
	}
}

func TestEngine_AffinityMemo(t *testing.T) {
	e := newTestEngine(t)
	obs := newRecordingObserver()
	e.SetObserver(obs)

	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s1", "s3"}}
	ctx := context.Background()

	// unversioned catalogs are never memoized
	e.RecommendedSessions(ctx, catalog, profile, SessionOptions{})
	if obs.hits+obs.misses != 0 {
		t.Fatalf("unversioned catalog consulted the memo: hits=%d misses=%d", obs.hits, obs.misses)
	}

	catalog.Version = "v1"
	first := e.RecommendedSessions(ctx, catalog, profile, SessionOptions{})
	second := e.RecommendedSessions(ctx, catalog, profile, SessionOptions{})
	if obs.misses != 1 || obs.hits != 1 {
		t.Errorf("hits=%d misses=%d, want 1/1", obs.hits, obs.misses)
	}
	if !equalStrings(sessionIDs(first), sessionIDs(second)) {
		t.Errorf("memoized result differs: %v vs %v", sessionIDs(first), sessionIDs(second))
	}

	// a different history is a different key
	e.RecommendedSessions(ctx, catalog, &UserProfile{ViewedSessions: []string{"s2"}}, SessionOptions{})
	if obs.misses != 2 {
		t.Errorf("misses = %d, want 2", obs.misses)
	}

	if obs.passes[OpRecommendSessions] != 4 {
		t.Errorf("passes = %d, want 4", obs.passes[OpRecommendSessions])
	}
}

func TestEngine_AffinityMemoDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	obs := newRecordingObserver()
	e.SetObserver(obs)

	catalog := testCatalog()
	catalog.Version = "v1"
	e.RecommendedSessions(context.Background(), catalog, &UserProfile{ViewedSessions: []string{"s1"}}, SessionOptions{})
	if obs.hits+obs.misses != 0 {
		t.Errorf("memo consulted while disabled")
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	catalog := &Catalog{}
	genres := []Genre{"house", "techno", "disco", "ambient", "dub"}
	series := []Series{SeriesStudio, SeriesWarehouse, SeriesRooftop}
	for i := 0; i < 300; i++ {
		catalog.Sessions = append(catalog.Sessions, Session{
			ID:     fmt.Sprintf("s%03d", i),
			DJID:   fmt.Sprintf("d%d", i%17),
			Genres: []Genre{genres[i%5], genres[(i*3)%5]},
			Series: series[i%3],
			Views:  (i * 37) % 101,
		})
	}
	for d := 0; d < 17; d++ {
		catalog.DJs = append(catalog.DJs, DJ{ID: fmt.Sprintf("d%d", d), Genres: []Genre{genres[d%5]}, Featured: d%4 == 0})
	}
	profile := &UserProfile{
		ViewedSessions: []string{"s001", "s010", "s100", "s222"},
		FavoriteDJs:    []string{"d3"},
		FavoriteGenres: []Genre{"dub"},
	}

	seqCfg := DefaultConfig()
	seqCfg.Limits.MaxLimit = 300
	seq, err := NewEngine(seqCfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	parCfg := DefaultConfig()
	parCfg.Limits.MaxLimit = 300
	parCfg.Parallel.MinCandidates = 1
	parCfg.Parallel.Workers = 7
	par, err := NewEngine(parCfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	want := seq.TopSessionRecommendations(ctx, catalog, profile, 300)
	got := par.TopSessionRecommendations(ctx, catalog, profile, 300)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Item.ID != want[i].Item.ID || got[i].Score != want[i].Score {
			t.Fatalf("position %d: %s/%f vs %s/%f", i, got[i].Item.ID, got[i].Score, want[i].Item.ID, want[i].Score)
		}
	}

	wantDJs := seq.TopDJRecommendations(ctx, catalog, profile, 17)
	gotDJs := par.TopDJRecommendations(ctx, catalog, profile, 17)
	for i := range wantDJs {
		if gotDJs[i].Item.ID != wantDJs[i].Item.ID {
			t.Fatalf("dj position %d: %s vs %s", i, gotDJs[i].Item.ID, wantDJs[i].Item.ID)
		}
	}
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	catalog.Version = "v1"

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			profile := &UserProfile{ViewedSessions: []string{fmt.Sprintf("s%d", n%5+1)}}
			e.RecommendedSessions(context.Background(), catalog, profile, SessionOptions{Diversify: true})
			e.SimilarSessions("s1", catalog, 0)
		}(i)
	}
	wg.Wait()
}

func TestEngine_DoesNotMutateInputs(t *testing.T) {
	e := newTestEngine(t)
	catalog := testCatalog()
	profile := &UserProfile{ViewedSessions: []string{"s2", "s1"}, FavoriteGenres: []Genre{"house"}}

	e.RecommendedSessions(context.Background(), catalog, profile, SessionOptions{ExcludeViewed: true, Diversify: true})
	e.RecommendedDJs(context.Background(), catalog, profile, 0)
	e.TrendingSessions(catalog)

	if !equalStrings(sessionIDs(catalog.Sessions), []string{"s1", "s2", "s3", "s4", "s5"}) {
		t.Errorf("catalog order changed: %v", sessionIDs(catalog.Sessions))
	}
	if !equalStrings(profile.ViewedSessions, []string{"s2", "s1"}) {
		t.Errorf("profile history changed: %v", profile.ViewedSessions)
	}
}
