// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Engine Metrics
	RecommendPassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_pass_duration_seconds",
			Help:    "Duration of recommendation engine passes in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"operation"},
	)

	RecommendCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Number of candidates considered per pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
		[]string{"operation"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of items returned per pass",
			Buckets: []float64{0, 1, 2, 4, 6, 10, 20, 50, 100},
		},
		[]string{"operation"},
	)

	AffinityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_affinity_cache_hits_total",
			Help: "Total number of affinity memo hits",
		},
	)

	AffinityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_affinity_cache_misses_total",
			Help: "Total number of affinity memo misses",
		},
	)

	// Catalog Metrics
	CatalogSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_sessions",
			Help: "Number of sessions in the active catalog snapshot",
		},
	)

	CatalogDJs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_djs",
			Help: "Number of DJs in the active catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"result"}, // "loaded", "unchanged", "failed", "throttled"
	)

	CatalogLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_last_reload_timestamp_seconds",
			Help: "Unix timestamp of the last successful catalog load",
		},
	)

	// Profile Store Metrics
	ProfileStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_operations_total",
			Help: "Total number of profile store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	ProfileStoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profile_store_duration_seconds",
			Help:    "Profile store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// Catalog reload results.
const (
	ReloadLoaded    = "loaded"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
	ReloadThrottled = "throttled"
)

// RecordCatalogReload records a reload attempt. Size gauges only move when
// a new snapshot was published.
func RecordCatalogReload(result string, sessions, djs int) {
	CatalogReloads.WithLabelValues(result).Inc()
	if result != ReloadLoaded {
		return
	}
	CatalogSessions.Set(float64(sessions))
	CatalogDJs.Set(float64(djs))
	CatalogLastReload.Set(float64(time.Now().Unix()))
}

// RecordProfileOp records one profile store call.
func RecordProfileOp(backend, operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	ProfileStoreOps.WithLabelValues(backend, operation, result).Inc()
	ProfileStoreDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}
