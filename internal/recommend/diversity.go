// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import "context"

// Diversify re-ranks a score-sorted candidate list so that no single DJ or
// series dominates the head of the list.
//
// Candidates are walked in order. A candidate is admitted when its DJ has not
// been admitted yet, when its series has not been admitted yet, or while
// fewer than limit/2 candidates have been admitted. If the pass admits fewer
// than limit candidates, the remaining slots are backfilled with the skipped
// candidates in their original order.
//
// The half threshold is taken from the requested limit even when fewer
// candidates are available. The result holds min(limit, len(candidates))
// candidates, all taken from the input. A non-positive limit returns an
// empty slice. The input is not modified.
func Diversify(candidates []ScoredSession, limit int) []ScoredSession {
	if limit <= 0 || len(candidates) == 0 {
		return []ScoredSession{}
	}
	n := min(limit, len(candidates))

	out := make([]ScoredSession, 0, n)
	admitted := make([]bool, len(candidates))
	usedDJs := make(map[string]struct{}, n)
	usedSeries := make(map[Series]struct{}, 3)

	for i := range candidates {
		if len(out) >= n {
			break
		}
		item := &candidates[i].Item
		_, djUsed := usedDJs[item.DJID]
		_, seriesUsed := usedSeries[item.Series]

		// 2*len(out) < limit is len(out) < limit/2 without integer truncation.
		if !djUsed || !seriesUsed || 2*len(out) < limit {
			out = append(out, candidates[i])
			admitted[i] = true
			usedDJs[item.DJID] = struct{}{}
			usedSeries[item.Series] = struct{}{}
		}
	}

	for i := range candidates {
		if len(out) >= n {
			break
		}
		if !admitted[i] {
			out = append(out, candidates[i])
		}
	}

	return out
}

// DiversityBalancer is the Reranker form of Diversify.
type DiversityBalancer struct{}

// NewDiversityBalancer creates the DJ/series diversity reranker.
func NewDiversityBalancer() *DiversityBalancer {
	return &DiversityBalancer{}
}

// Name returns the reranker identifier.
func (b *DiversityBalancer) Name() string {
	return "diversity"
}

// Rerank applies Diversify.
func (b *DiversityBalancer) Rerank(_ context.Context, candidates []ScoredSession, k int) []ScoredSession {
	return Diversify(candidates, k)
}

var _ Reranker = (*DiversityBalancer)(nil)
