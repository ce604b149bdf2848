// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for production observability:
// - API endpoint latency and throughput
// - Recommendation outcomes (catalog, fallback, empty)
// - Catalog client calls, cache and circuit breaker
// - User store operations
// - Decay sweep runs

var (
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
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

	// Authentication Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of request authentication attempts",
		},
		[]string{"method", "result"}, // method: "jwt", "header"; result: "success", "failure"
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation responses by item source",
		},
		[]string{"source"}, // "catalog", "fallback", "empty"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to build a recommendation response",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	RecommendationItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_items",
			Help:    "Number of items per recommendation response",
			Buckets: []float64{0, 1, 2, 4, 6, 8, 12, 16},
		},
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_errors_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"reason"}, // "unauthenticated", "not_found", "internal"
	)

	TrendingItemsMixed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_trending_items_total",
			Help: "Total number of trending items spliced into responses",
		},
	)

	InterestBackfills = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interest_backfills_total",
			Help: "Total number of interest vectors rebuilt from saved items",
		},
	)

	// Interest Mutation Metrics
	SavedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saved_items_total",
			Help: "Total number of save requests",
		},
		[]string{"result"}, // "new", "duplicate", "error"
	)

	InterestReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interest_replacements_total",
			Help: "Total number of explicit interest replacements",
		},
		[]string{"result"}, // "success", "invalid", "error"
	)

	// Catalog Client Metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of upstream catalog requests",
		},
		[]string{"query", "result"}, // query: "categories", "trending"; result: "success", "error", "rate_limited", "cached"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Upstream catalog request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "catalog"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry or capacity)",
		},
		[]string{"cache_type"},
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
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

	// User Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of user store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of user store operation errors",
		},
		[]string{"backend", "operation"},
	)

	// Decay Sweep Metrics
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decay_sweep_runs_total",
			Help: "Total number of interest decay sweeps",
		},
		[]string{"result"}, // "success", "error"
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "decay_sweep_duration_seconds",
			Help:    "Duration of interest decay sweeps in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	SweepUsersDecayed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "decay_sweep_users_decayed_total",
			Help: "Total number of user interest vectors decayed by sweeps",
		},
	)

	SweepLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "decay_sweep_last_success_timestamp",
			Help: "Unix timestamp of last successful decay sweep",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
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

// RecordAuthAttempt records one authentication outcome
func RecordAuthAttempt(method string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	AuthAttemptsTotal.WithLabelValues(method, result).Inc()
}

// RecordRecommendation records a successful recommendation response
func RecordRecommendation(source string, items, trending int, backfilled bool, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(source).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	RecommendationItems.Observe(float64(items))
	if trending > 0 {
		TrendingItemsMixed.Add(float64(trending))
	}
	if backfilled {
		InterestBackfills.Inc()
	}
}

// RecordRecommendationError records a failed recommendation request
func RecordRecommendationError(reason string) {
	RecommendationErrors.WithLabelValues(reason).Inc()
}

// RecordSave records the outcome of a save request
func RecordSave(added bool, err error) {
	switch {
	case err != nil:
		SavedItemsTotal.WithLabelValues("error").Inc()
	case added:
		SavedItemsTotal.WithLabelValues("new").Inc()
	default:
		SavedItemsTotal.WithLabelValues("duplicate").Inc()
	}
}

// RecordInterestReplacement records the outcome of an explicit interest replacement
func RecordInterestReplacement(result string) {
	InterestReplacements.WithLabelValues(result).Inc()
}

// RecordCatalogRequest records an upstream catalog call
func RecordCatalogRequest(query, result string, duration time.Duration) {
	CatalogRequestsTotal.WithLabelValues(query, result).Inc()
	if duration > 0 {
		CatalogRequestDuration.WithLabelValues(query).Observe(duration.Seconds())
	}
}

// RecordStoreOperation records a user store operation metric
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordSweep records a decay sweep run
func RecordSweep(decayed int, duration time.Duration, err error) {
	SweepDuration.Observe(duration.Seconds())
	SweepUsersDecayed.Add(float64(decayed))
	if err != nil {
		SweepRunsTotal.WithLabelValues("error").Inc()
		return
	}
	SweepRunsTotal.WithLabelValues("success").Inc()
	SweepLastSuccess.Set(float64(time.Now().Unix()))
}

// SetAppInfo publishes the build information gauge
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

// UpdateUptime sets the uptime gauge from the process start time
func UpdateUptime(start time.Time) {
	AppUptime.Set(time.Since(start).Seconds())
}

// StatusLabel converts an HTTP status code to a metric label
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
