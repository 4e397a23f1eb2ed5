// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// sampleCount reads the observation count of one histogram series.
func sampleCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		method, endpoint, status string
		duration                 time.Duration
	}{
		{"GET", "/api/v1/users/{userID}/recommendations/sessions", "200", 3 * time.Millisecond},
		{"POST", "/api/v1/users/{userID}/views", "400", time.Millisecond},
		{"GET", "/api/v1/sessions/{sessionID}/similar", "500", 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.status, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
			countBefore := sampleCount(t, APIRequestDuration, tt.method, tt.endpoint)

			RecordAPIRequest(tt.method, tt.endpoint, tt.status, tt.duration)

			if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status)); got != before+1 {
				t.Errorf("api_requests_total = %v, want %v", got, before+1)
			}
			if got := sampleCount(t, APIRequestDuration, tt.method, tt.endpoint); got != countBefore+1 {
				t.Errorf("duration samples = %d, want %d", got, countBefore+1)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordCatalogReload(t *testing.T) {
	RecordCatalogReload(ReloadLoaded, 120, 14)
	if got := testutil.ToFloat64(CatalogSessions); got != 120 {
		t.Errorf("catalog_sessions = %v, want 120", got)
	}
	if got := testutil.ToFloat64(CatalogDJs); got != 14 {
		t.Errorf("catalog_djs = %v, want 14", got)
	}
	if testutil.ToFloat64(CatalogLastReload) == 0 {
		t.Error("catalog_last_reload_timestamp_seconds not set")
	}

	failedBefore := testutil.ToFloat64(CatalogReloads.WithLabelValues(ReloadFailed))
	RecordCatalogReload(ReloadFailed, 0, 0)

	if got := testutil.ToFloat64(CatalogReloads.WithLabelValues(ReloadFailed)); got != failedBefore+1 {
		t.Errorf("failed reloads = %v, want %v", got, failedBefore+1)
	}
	if got := testutil.ToFloat64(CatalogSessions); got != 120 {
		t.Errorf("failed reload changed catalog_sessions to %v", got)
	}
}

func TestRecordProfileOp(t *testing.T) {
	okBefore := testutil.ToFloat64(ProfileStoreOps.WithLabelValues("badger", "get", "success"))
	errBefore := testutil.ToFloat64(ProfileStoreOps.WithLabelValues("badger", "get", "error"))

	RecordProfileOp("badger", "get", time.Millisecond, nil)
	RecordProfileOp("badger", "get", time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(ProfileStoreOps.WithLabelValues("badger", "get", "success")); got != okBefore+1 {
		t.Errorf("success count = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(ProfileStoreOps.WithLabelValues("badger", "get", "error")); got != errBefore+1 {
		t.Errorf("error count = %v, want %v", got, errBefore+1)
	}
}

func TestRecommendObserver(t *testing.T) {
	obs := RecommendObserver{}

	before := sampleCount(t, RecommendPassDuration, "top_sessions")
	obs.ObservePass("top_sessions", 40, 6, 200*time.Microsecond)
	if got := sampleCount(t, RecommendPassDuration, "top_sessions"); got != before+1 {
		t.Errorf("pass samples = %d, want %d", got, before+1)
	}

	hits := testutil.ToFloat64(AffinityCacheHits)
	misses := testutil.ToFloat64(AffinityCacheMisses)
	obs.ObserveAffinityCache(true)
	obs.ObserveAffinityCache(false)
	obs.ObserveAffinityCache(false)

	if got := testutil.ToFloat64(AffinityCacheHits); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(AffinityCacheMisses); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	name := "profile-redis"

	CircuitBreakerState.WithLabelValues(name).Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}

	before := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(name, "closed", "open"))
	CircuitBreakerTransitions.WithLabelValues(name, "closed", "open").Inc()
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(name, "closed", "open")); got != before+1 {
		t.Errorf("transitions = %v, want %v", got, before+1)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordRateLimitHit("/api/v1/sessions/trending")

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"api_rate_limit_hits_total", "catalog_reloads_total", "recommend_pass_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint problem in %s: %s", p.Metric, p.Text)
	}
}
