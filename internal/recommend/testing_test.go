// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

// testCatalog returns a small catalog with two DJs per series and
// overlapping genres.
func testCatalog() *Catalog {
	return &Catalog{
		Sessions: []Session{
			{ID: "s1", DJID: "d1", Genres: []Genre{"house", "disco"}, Series: SeriesStudio, Moods: []Mood{"warm"}, Date: day(1), Views: 100},
			{ID: "s2", DJID: "d1", Genres: []Genre{"house"}, Series: SeriesWarehouse, Moods: []Mood{"dark"}, Date: day(2), Views: 50},
			{ID: "s3", DJID: "d2", Genres: []Genre{"techno"}, Series: SeriesWarehouse, Moods: []Mood{"dark"}, Date: day(3), Views: 80},
			{ID: "s4", DJID: "d3", Genres: []Genre{"house", "techno"}, Series: SeriesRooftop, Moods: []Mood{"warm"}, Date: day(4), Views: 20},
			{ID: "s5", DJID: "d2", Genres: []Genre{"ambient"}, Series: SeriesStudio, Date: day(5), Views: 0},
		},
		DJs: []DJ{
			{ID: "d1", Name: "Ana", Genres: []Genre{"house", "disco"}, Location: "Berlin", Featured: true},
			{ID: "d2", Name: "Bo", Genres: []Genre{"techno", "ambient"}, Location: "Berlin"},
			{ID: "d3", Name: "Cy", Genres: []Genre{"house"}, Location: "Lisbon"},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func sessionIDs(sessions []Session) []string {
	return ids(sessions, func(s Session) string { return s.ID })
}

func djIDs(djs []DJ) []string {
	return ids(djs, func(d DJ) string { return d.ID })
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
