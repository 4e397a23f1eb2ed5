// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

// ComputeGenreAffinity derives a genre affinity map from a viewing history.
// Every viewed session found in the catalog adds one to each of its genres;
// counts are then divided by the largest count. Unknown session IDs are
// skipped. The result is never nil.
func ComputeGenreAffinity(catalog *Catalog, viewedIDs []string) AffinityMap[Genre] {
	mustCatalog(catalog)

	byID := indexSessions(catalog.Sessions)
	counts := make(map[Genre]int)
	for _, id := range viewedIDs {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		for _, g := range catalog.Sessions[idx].Genres {
			counts[g]++
		}
	}
	return normalize(counts)
}

// ComputeDJAffinity derives a DJ affinity map from a viewing history, one
// count per viewed session keyed by its DJ.
func ComputeDJAffinity(catalog *Catalog, viewedIDs []string) AffinityMap[string] {
	mustCatalog(catalog)

	byID := indexSessions(catalog.Sessions)
	counts := make(map[string]int)
	for _, id := range viewedIDs {
		if idx, ok := byID[id]; ok {
			counts[catalog.Sessions[idx].DJID]++
		}
	}
	return normalize(counts)
}

// normalize divides every count by the maximum count, floored at 1.
func normalize[K comparable](counts map[K]int) AffinityMap[K] {
	maxCount := 1
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}

	out := make(AffinityMap[K], len(counts))
	for k, n := range counts {
		out[k] = float64(n) / float64(maxCount)
	}
	return out
}

// indexSessions maps session IDs to catalog positions. The first occurrence
// of a duplicated ID wins.
func indexSessions(sessions []Session) map[string]int {
	idx := make(map[string]int, len(sessions))
	for i := range sessions {
		if _, dup := idx[sessions[i].ID]; !dup {
			idx[sessions[i].ID] = i
		}
	}
	return idx
}

func mustCatalog(catalog *Catalog) {
	if catalog == nil {
		panic("recommend: nil catalog")
	}
}
