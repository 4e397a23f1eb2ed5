// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package profile

import (
	"slices"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// Profile mutations. Each returns a new profile and leaves its input and
// the input's slices untouched, so a profile handed to the engine can never
// change underneath a running pass.

// TrackSessionView moves sessionID to the front of the history, dropping
// any earlier occurrence and trimming to recommend.MaxViewedSessions.
func TrackSessionView(p recommend.UserProfile, sessionID string) recommend.UserProfile {
	history := make([]string, 0, min(len(p.ViewedSessions)+1, recommend.MaxViewedSessions))
	history = append(history, sessionID)
	for _, id := range p.ViewedSessions {
		if len(history) == recommend.MaxViewedSessions {
			break
		}
		if id != sessionID {
			history = append(history, id)
		}
	}

	out := clone(p)
	out.ViewedSessions = history
	return out
}

// ToggleFavoriteDJ adds djID to the favorites, or removes it if present.
// It reports whether the DJ is a favorite afterwards.
func ToggleFavoriteDJ(p recommend.UserProfile, djID string) (recommend.UserProfile, bool) {
	out := clone(p)
	if i := slices.Index(out.FavoriteDJs, djID); i >= 0 {
		out.FavoriteDJs = slices.Delete(out.FavoriteDJs, i, i+1)
		return out, false
	}
	out.FavoriteDJs = append(out.FavoriteDJs, djID)
	return out, true
}

// AddFavoriteGenre adds genre if it is not already a favorite.
func AddFavoriteGenre(p recommend.UserProfile, genre recommend.Genre) recommend.UserProfile {
	out := clone(p)
	if !slices.Contains(out.FavoriteGenres, genre) {
		out.FavoriteGenres = append(out.FavoriteGenres, genre)
	}
	return out
}

// RemoveFavoriteGenre removes genre if present.
func RemoveFavoriteGenre(p recommend.UserProfile, genre recommend.Genre) recommend.UserProfile {
	out := clone(p)
	out.FavoriteGenres = slices.DeleteFunc(out.FavoriteGenres, func(g recommend.Genre) bool {
		return g == genre
	})
	return out
}

// Normalize repairs a stored profile: history deduplicated and capped,
// favorites deduplicated, nil slices replaced with empty ones.
func Normalize(p recommend.UserProfile) recommend.UserProfile {
	out := recommend.UserProfile{
		ViewedSessions: dedupe(p.ViewedSessions),
		FavoriteDJs:    dedupe(p.FavoriteDJs),
		FavoriteGenres: dedupe(p.FavoriteGenres),
	}
	if len(out.ViewedSessions) > recommend.MaxViewedSessions {
		out.ViewedSessions = out.ViewedSessions[:recommend.MaxViewedSessions]
	}
	return out
}

// clone deep-copies the slices so callers may append freely.
func clone(p recommend.UserProfile) recommend.UserProfile {
	return recommend.UserProfile{
		ViewedSessions: append([]string{}, p.ViewedSessions...),
		FavoriteDJs:    append([]string{}, p.FavoriteDJs...),
		FavoriteGenres: append([]recommend.Genre{}, p.FavoriteGenres...),
	}
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	seen := make(map[T]bool, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
