// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/gamematch/internal/logging"
)

// requestSample is one observed request.
type requestSample struct {
	endpoint   string
	durationMS int64
	statusCode int
}

// EndpointStats summarizes the retained samples of one route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgDuration  float64 `json:"avg_duration_ms"`
	P50Duration  int64   `json:"p50_duration_ms"`
	P95Duration  int64   `json:"p95_duration_ms"`
	P99Duration  int64   `json:"p99_duration_ms"`
	MaxDuration  int64   `json:"max_duration_ms"`
}

// PerformanceMonitor keeps a sliding window of recent requests.
type PerformanceMonitor struct {
	mu            sync.Mutex
	samples       []requestSample
	next          int
	full          bool
	slowThreshold time.Duration
}

// NewPerformanceMonitor retains the last window requests and logs any
// request slower than slowThreshold. A zero threshold disables logging.
func NewPerformanceMonitor(window int, slowThreshold time.Duration) *PerformanceMonitor {
	if window < 1 {
		window = 1
	}
	return &PerformanceMonitor{
		samples:       make([]requestSample, window),
		slowThreshold: slowThreshold,
	}
}

func (pm *PerformanceMonitor) record(s requestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
}

// Stats returns per-route statistics, busiest route first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.Lock()
	n := pm.next
	if pm.full {
		n = len(pm.samples)
	}
	window := make([]requestSample, n)
	copy(window, pm.samples[:n])
	pm.mu.Unlock()

	durations := make(map[string][]int64)
	errorsByRoute := make(map[string]int64)
	for _, s := range window {
		durations[s.endpoint] = append(durations[s.endpoint], s.durationMS)
		if s.statusCode >= http.StatusInternalServerError {
			errorsByRoute[s.endpoint]++
		}
	}

	stats := make([]EndpointStats, 0, len(durations))
	for endpoint, ds := range durations {
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
		var sum int64
		for _, d := range ds {
			sum += d
		}
		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(ds)),
			ErrorCount:   errorsByRoute[endpoint],
			AvgDuration:  float64(sum) / float64(len(ds)),
			P50Duration:  percentile(ds, 0.50),
			P95Duration:  percentile(ds, 0.95),
			P99Duration:  percentile(ds, 0.99),
			MaxDuration:  ds[len(ds)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Middleware records every request passing through next.
func (pm *PerformanceMonitor) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next(rec, r)
		elapsed := time.Since(start)

		endpoint := r.Method + " " + routeLabel(r)
		pm.record(requestSample{endpoint: endpoint, durationMS: elapsed.Milliseconds(), statusCode: rec.statusCode})

		if pm.slowThreshold > 0 && elapsed > pm.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("endpoint", endpoint).
				Int("status", rec.statusCode).
				Dur("duration", elapsed).
				Msg("slow request")
		}
	}
}

// percentile reads the p-th percentile from sorted.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
