// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package profile

import (
	"fmt"
	"slices"
	"testing"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

func TestTrackSessionView(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		view    string
		want    []string
	}{
		{"empty history", nil, "s1", []string{"s1"}},
		{"prepends", []string{"s1", "s2"}, "s3", []string{"s3", "s1", "s2"}},
		{"moves repeat to front", []string{"s1", "s2", "s3"}, "s3", []string{"s3", "s1", "s2"}},
		{"already first", []string{"s1", "s2"}, "s1", []string{"s1", "s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := recommend.UserProfile{ViewedSessions: tt.history}
			got := TrackSessionView(in, tt.view)
			if !slices.Equal(got.ViewedSessions, tt.want) {
				t.Errorf("ViewedSessions = %v, want %v", got.ViewedSessions, tt.want)
			}
		})
	}
}

func TestTrackSessionView_Cap(t *testing.T) {
	history := make([]string, recommend.MaxViewedSessions)
	for i := range history {
		history[i] = fmt.Sprintf("s%d", i)
	}
	in := recommend.UserProfile{ViewedSessions: history}

	got := TrackSessionView(in, "new")
	if len(got.ViewedSessions) != recommend.MaxViewedSessions {
		t.Fatalf("len = %d, want %d", len(got.ViewedSessions), recommend.MaxViewedSessions)
	}
	if got.ViewedSessions[0] != "new" {
		t.Errorf("first = %q, want new", got.ViewedSessions[0])
	}
	last := fmt.Sprintf("s%d", recommend.MaxViewedSessions-2)
	if got.ViewedSessions[recommend.MaxViewedSessions-1] != last {
		t.Errorf("last = %q, want %q", got.ViewedSessions[recommend.MaxViewedSessions-1], last)
	}
	if in.ViewedSessions[0] != "s0" {
		t.Error("input history was modified")
	}
}

func TestToggleFavoriteDJ(t *testing.T) {
	in := recommend.UserProfile{FavoriteDJs: []string{"d1", "d2"}}

	added, fav := ToggleFavoriteDJ(in, "d3")
	if !fav || !slices.Equal(added.FavoriteDJs, []string{"d1", "d2", "d3"}) {
		t.Errorf("add: got %v, %v", added.FavoriteDJs, fav)
	}

	removed, fav := ToggleFavoriteDJ(added, "d1")
	if fav || !slices.Equal(removed.FavoriteDJs, []string{"d2", "d3"}) {
		t.Errorf("remove: got %v, %v", removed.FavoriteDJs, fav)
	}

	if !slices.Equal(in.FavoriteDJs, []string{"d1", "d2"}) {
		t.Errorf("input modified: %v", in.FavoriteDJs)
	}
	if !slices.Equal(added.FavoriteDJs, []string{"d1", "d2", "d3"}) {
		t.Errorf("intermediate modified: %v", added.FavoriteDJs)
	}
}

func TestFavoriteGenres(t *testing.T) {
	p := recommend.UserProfile{}
	p = AddFavoriteGenre(p, "house")
	p = AddFavoriteGenre(p, "techno")
	p = AddFavoriteGenre(p, "house")

	if !slices.Equal(p.FavoriteGenres, []recommend.Genre{"house", "techno"}) {
		t.Fatalf("FavoriteGenres = %v", p.FavoriteGenres)
	}

	before := p
	p = RemoveFavoriteGenre(p, "house")
	if !slices.Equal(p.FavoriteGenres, []recommend.Genre{"techno"}) {
		t.Errorf("after remove = %v", p.FavoriteGenres)
	}
	if !slices.Equal(before.FavoriteGenres, []recommend.Genre{"house", "techno"}) {
		t.Errorf("remove modified its input: %v", before.FavoriteGenres)
	}

	p = RemoveFavoriteGenre(p, "disco")
	if len(p.FavoriteGenres) != 1 {
		t.Errorf("removing an absent genre changed the set: %v", p.FavoriteGenres)
	}
}

func TestNormalize(t *testing.T) {
	long := make([]string, recommend.MaxViewedSessions+10)
	for i := range long {
		long[i] = fmt.Sprintf("s%d", i)
	}

	tests := []struct {
		name string
		in   recommend.UserProfile
		want recommend.UserProfile
	}{
		{
			name: "nil slices",
			in:   recommend.UserProfile{},
			want: recommend.UserProfile{ViewedSessions: []string{}, FavoriteDJs: []string{}, FavoriteGenres: []recommend.Genre{}},
		},
		{
			name: "duplicates",
			in: recommend.UserProfile{
				ViewedSessions: []string{"a", "b", "a"},
				FavoriteDJs:    []string{"d", "d"},
				FavoriteGenres: []recommend.Genre{"house", "house"},
			},
			want: recommend.UserProfile{
				ViewedSessions: []string{"a", "b"},
				FavoriteDJs:    []string{"d"},
				FavoriteGenres: []recommend.Genre{"house"},
			},
		},
		{
			name: "capped history",
			in:   recommend.UserProfile{ViewedSessions: long},
			want: recommend.UserProfile{ViewedSessions: long[:recommend.MaxViewedSessions], FavoriteDJs: []string{}, FavoriteGenres: []recommend.Genre{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.ViewedSessions == nil || got.FavoriteDJs == nil || got.FavoriteGenres == nil {
				t.Fatalf("Normalize left a nil slice: %+v", got)
			}
			if !slices.Equal(got.ViewedSessions, tt.want.ViewedSessions) ||
				!slices.Equal(got.FavoriteDJs, tt.want.FavoriteDJs) ||
				!slices.Equal(got.FavoriteGenres, tt.want.FavoriteGenres) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
