// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package metrics provides Prometheus instrumentation for Sessionfeed.

Collectors are registered with promauto on the default registry and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation engine (via RecommendObserver):
  - recommend_pass_duration_seconds{operation}
  - recommend_candidates{operation}, recommend_results{operation}
  - recommend_affinity_cache_hits_total, recommend_affinity_cache_misses_total

Catalog:
  - catalog_sessions, catalog_djs
  - catalog_reloads_total{result}: loaded, unchanged, failed, throttled
  - catalog_last_reload_timestamp_seconds

Profile store:
  - profile_store_operations_total{backend,operation,result}
  - profile_store_duration_seconds{backend,operation}

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests, api_rate_limit_hits_total{endpoint}

Circuit breaker:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

# Example Alerts

	- alert: ProfileStoreCircuitOpen
	  expr: circuit_breaker_state{name="profile-redis"} == 2
	  for: 2m
	- alert: CatalogReloadFailing
	  expr: increase(catalog_reloads_total{result="failed"}[15m]) > 3
*/
package metrics
