// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package reranking implements optional post-processing rerankers for
// session recommendation lists.
//
// The engine always runs its DJ/series diversity balancer first. Rerankers
// from this package are appended to the chain by the server when configured:
//
//	Scorers -> Initial Ranking -> DiversityBalancer -> MMR -> Final Ranking
//
// # Available Rerankers
//
// Maximal Marginal Relevance (MMR):
//   - Balances relevance with genre and mood variety
//   - Penalizes sessions whose tags overlap already-selected sessions
//   - Lambda controls the relevance/diversity tradeoff; 1.0 disables it
//
// # Usage Example
//
//	if cfg.Diversity.MMRLambda < 1 {
//	    engine.RegisterReranker(reranking.NewMMR(cfg.Diversity.MMRLambda))
//	}
package reranking
