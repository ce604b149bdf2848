// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Labels method, endpoint, status_code
  - api_request_duration_seconds: Labels method, endpoint
  - api_active_requests, api_rate_limit_hits_total

Recommendation Metrics:
  - recommendations_total: Labels source (catalog, fallback, empty)
  - recommendation_duration_seconds, recommendation_items
  - recommendation_errors_total: Labels reason
  - recommendation_trending_items_total, interest_backfills_total
  - saved_items_total, interest_replacements_total: Labels result

Catalog Metrics:
  - catalog_requests_total: Labels query, result
  - catalog_request_duration_seconds: Labels query
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open

Store and Sweep Metrics:
  - store_operation_duration_seconds, store_operation_errors_total: Labels backend, operation
  - decay_sweep_runs_total, decay_sweep_duration_seconds
  - decay_sweep_users_decayed_total, decay_sweep_last_success_timestamp

# Usage

	start := time.Now()
	resp, err := engine.Recommend(ctx)
	if err == nil {
	    metrics.RecordRecommendation(string(resp.Metadata.Source), len(resp.Items),
	        resp.Metadata.TrendingCount, resp.Metadata.Backfilled, time.Since(start))
	}

# Thread Safety

All functions are safe for concurrent use; Prometheus collectors are
internally synchronized.
*/
package metrics
