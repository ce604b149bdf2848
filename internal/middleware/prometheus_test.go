// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/gamematch/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		status       int
		wantEndpoint string
	}{
		{name: "ok uses route pattern", path: "/games/42", status: http.StatusOK, wantEndpoint: "/games/{id}"},
		{name: "server error", path: "/games/7", status: http.StatusInternalServerError, wantEndpoint: "/games/{id}"},
		{name: "rate limited", path: "/games/9", status: http.StatusTooManyRequests, wantEndpoint: "/games/{id}"},
		{name: "unmatched", path: "/nowhere", status: http.StatusNotFound, wantEndpoint: "unmatched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler { return PrometheusMetrics(next.ServeHTTP) })
			r.Get("/games/{id}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, tt.wantEndpoint, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(counter)
			limitBefore := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues(tt.wantEndpoint))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if d := testutil.ToFloat64(counter) - before; d != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", d)
			}
			wantLimit := 0.0
			if tt.status == http.StatusTooManyRequests {
				wantLimit = 1
			}
			if d := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues(tt.wantEndpoint)) - limitBefore; d != wantLimit {
				t.Errorf("api_rate_limit_hits_total delta = %v, want %v", d, wantLimit)
			}
		})
	}
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	_, _ = rec.Write([]byte("body"))
	rec.WriteHeader(http.StatusTeapot)
	if rec.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want 200 after implicit write", rec.statusCode)
	}
}
