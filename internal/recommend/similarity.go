// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import "sort"

// Similarity reasons.
const (
	ReasonSameDJ       = "Same DJ"
	ReasonSameSeries   = "Same series"
	ReasonSharedGenres = "Shared genres"
	ReasonSharedMoods  = "Shared moods"
	ReasonSameLocation = "Same location"
)

// rankSimilarSessions scores every other session against target and returns
// them sorted by score, catalog order breaking ties. The target itself and
// sessions with the target's ID are excluded.
//
//nolint:gocritic // hugeParam: target read-only
func rankSimilarSessions(w *SimilarityWeights, catalog *Catalog, target Session) []ScoredSession {
	genres := toSet(target.Genres)
	moods := toSet(target.Moods)

	out := make([]ScoredSession, 0, len(catalog.Sessions))
	for i := range catalog.Sessions {
		cand := catalog.Sessions[i]
		if cand.ID == target.ID {
			continue
		}

		c := ScoredSession{Item: cand, Reasons: []string{}}
		if cand.DJID == target.DJID {
			c.Score += w.SameDJ
			c.Reasons = append(c.Reasons, ReasonSameDJ)
		}
		if cand.Series == target.Series {
			c.Score += w.SameSeries
			c.Reasons = append(c.Reasons, ReasonSameSeries)
		}
		if n := countIn(cand.Genres, genres); n > 0 {
			c.Score += float64(n) * w.SessionGenre
			c.Reasons = append(c.Reasons, ReasonSharedGenres)
		}
		if n := countIn(cand.Moods, moods); n > 0 {
			c.Score += float64(n) * w.SessionMood
			c.Reasons = append(c.Reasons, ReasonSharedMoods)
		}
		out = append(out, c)
	}

	sortByScore(out)
	return out
}

// rankSimilarDJs scores every other DJ against target.
//
//nolint:gocritic // hugeParam: target read-only
func rankSimilarDJs(w *SimilarityWeights, catalog *Catalog, target DJ) []ScoredDJ {
	genres := toSet(target.Genres)

	out := make([]ScoredDJ, 0, len(catalog.DJs))
	for i := range catalog.DJs {
		cand := catalog.DJs[i]
		if cand.ID == target.ID {
			continue
		}

		c := ScoredDJ{Item: cand, Reasons: []string{}}
		if n := countIn(cand.Genres, genres); n > 0 {
			c.Score += float64(n) * w.DJGenre
			c.Reasons = append(c.Reasons, ReasonSharedGenres)
		}
		if target.Location != "" && cand.Location == target.Location {
			c.Score += w.SameLocation
			c.Reasons = append(c.Reasons, ReasonSameLocation)
		}
		out = append(out, c)
	}

	sortByScore(out)
	return out
}

// sortByScore orders candidates by descending score. The sort is stable so
// equal scores keep their catalog order.
func sortByScore[T any](items []Candidate[T]) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}
