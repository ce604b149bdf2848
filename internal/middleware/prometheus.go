// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/gamematch/internal/metrics"
)

// PrometheusMetrics records request count, latency and in-flight requests.
// Responses with status 429 also count as rate limit hits.
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		rec := newStatusRecorder(w)
		next(rec, r)

		// The route pattern is complete only after routing has finished.
		endpoint := routeLabel(r)
		metrics.RecordAPIRequest(r.Method, endpoint, metrics.StatusLabel(rec.statusCode), time.Since(start))
		if rec.statusCode == http.StatusTooManyRequests {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
		}
	}
}
