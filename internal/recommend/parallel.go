// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package recommend

import (
	"golang.org/x/sync/errgroup"
)

// scoreAll applies score to every item and returns the results in input
// order. Inputs at or above MinCandidates are split into contiguous chunks
// scored on up to Workers goroutines; each goroutine writes only its own
// index range, so the output is identical to the sequential path.
func scoreAll[T, C any](cfg ParallelConfig, items []T, score func(*T) C) []C {
	out := make([]C, len(items))

	if len(items) < cfg.MinCandidates || cfg.Workers <= 1 {
		for i := range items {
			out[i] = score(&items[i])
		}
		return out
	}

	chunk := (len(items) + cfg.Workers - 1) / cfg.Workers

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = score(&items[i])
			}
			return nil
		})
	}
	_ = g.Wait() // scorers never fail

	return out
}
