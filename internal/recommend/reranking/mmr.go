// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package reranking

import (
	"context"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking over session content.
// It iteratively selects the session that best balances its own score against
// its maximum tag similarity to the sessions already selected:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Scores are divided by the top score first so both terms share the [0, 1]
// range. sim is the Jaccard similarity of the combined genre and mood tags.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	// lambda balances relevance vs. diversity (0.0 to 1.0)
	lambda float64
}

// NewMMR creates a new MMR reranker. lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank applies MMR selection and returns at most k candidates.
//
//nolint:gocritic // rangeValCopy: candidates read in range for clarity
func (m *MMR) Rerank(_ context.Context, items []recommend.ScoredSession, k int) []recommend.ScoredSession {
	if len(items) == 0 || k <= 0 {
		return []recommend.ScoredSession{}
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	if m.lambda >= 1.0 {
		return append([]recommend.ScoredSession(nil), items[:k]...)
	}

	maxScore := 0.0
	for _, item := range items {
		if item.Score > maxScore {
			maxScore = item.Score
		}
	}
	if maxScore <= 0 {
		maxScore = 1
	}

	tags := make([]map[string]struct{}, len(items))
	for i := range items {
		tags[i] = tagSet(&items[i].Item)
	}

	selected := make([]recommend.ScoredSession, 0, k)
	picked := make([]bool, len(items))
	// maxSim[i] is the highest similarity of i to any selected item so far
	maxSim := make([]float64, len(items))

	for len(selected) < k {
		bestIdx := -1
		bestMMR := 0.0

		for i, item := range items {
			if picked[i] {
				continue
			}
			score := m.lambda*(item.Score/maxScore) - (1-m.lambda)*maxSim[i]
			// strict comparison keeps the earlier (higher ranked) item on ties
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}

		selected = append(selected, items[bestIdx])
		picked[bestIdx] = true

		for i := range items {
			if picked[i] {
				continue
			}
			if sim := jaccard(tags[i], tags[bestIdx]); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return selected
}

// tagSet collects the genre and mood tags of a session.
func tagSet(s *recommend.Session) map[string]struct{} {
	set := make(map[string]struct{}, len(s.Genres)+len(s.Moods))
	for _, g := range s.Genres {
		set["genre:"+string(g)] = struct{}{}
	}
	for _, mood := range s.Moods {
		set["mood:"+string(mood)] = struct{}{}
	}
	return set
}

// jaccard computes the Jaccard similarity of two tag sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
