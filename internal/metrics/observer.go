// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package metrics

import (
	"time"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

var _ recommend.Observer = RecommendObserver{}

// RecommendObserver forwards engine measurements to the Prometheus
// collectors above. Attach it with Engine.SetObserver.
type RecommendObserver struct{}

// ObservePass implements recommend.Observer.
func (RecommendObserver) ObservePass(operation string, candidates, returned int, duration time.Duration) {
	RecommendPassDuration.WithLabelValues(operation).Observe(duration.Seconds())
	RecommendCandidates.WithLabelValues(operation).Observe(float64(candidates))
	RecommendResults.WithLabelValues(operation).Observe(float64(returned))
}

// ObserveAffinityCache implements recommend.Observer.
func (RecommendObserver) ObserveAffinityCache(hit bool) {
	if hit {
		AffinityCacheHits.Inc()
		return
	}
	AffinityCacheMisses.Inc()
}
