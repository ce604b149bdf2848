// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))

	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 25*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 40*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	if after-before != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
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

func TestRecordAuthAttempt(t *testing.T) {
	okBefore := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("jwt", "success"))
	failBefore := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("jwt", "failure"))

	RecordAuthAttempt("jwt", true)
	RecordAuthAttempt("jwt", false)
	RecordAuthAttempt("jwt", false)

	if d := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("jwt", "success")) - okBefore; d != 1 {
		t.Errorf("success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(AuthAttemptsTotal.WithLabelValues("jwt", "failure")) - failBefore; d != 2 {
		t.Errorf("failure delta = %v, want 2", d)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name          string
		source        string
		trending      int
		backfilled    bool
		wantTrending  float64
		wantBackfills float64
	}{
		{name: "catalog with trending", source: "catalog", trending: 2, wantTrending: 2},
		{name: "fallback", source: "fallback"},
		{name: "backfilled", source: "catalog", backfilled: true, wantBackfills: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beforeSource := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.source))
			beforeTrending := testutil.ToFloat64(TrendingItemsMixed)
			beforeBackfills := testutil.ToFloat64(InterestBackfills)

			RecordRecommendation(tt.source, 8, tt.trending, tt.backfilled, 30*time.Millisecond)

			if d := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.source)) - beforeSource; d != 1 {
				t.Errorf("recommendations_total{source=%q} delta = %v, want 1", tt.source, d)
			}
			if d := testutil.ToFloat64(TrendingItemsMixed) - beforeTrending; d != tt.wantTrending {
				t.Errorf("trending delta = %v, want %v", d, tt.wantTrending)
			}
			if d := testutil.ToFloat64(InterestBackfills) - beforeBackfills; d != tt.wantBackfills {
				t.Errorf("backfills delta = %v, want %v", d, tt.wantBackfills)
			}
		})
	}
}

func TestRecordSave(t *testing.T) {
	tests := []struct {
		name   string
		added  bool
		err    error
		result string
	}{
		{name: "new save", added: true, result: "new"},
		{name: "duplicate", added: false, result: "duplicate"},
		{name: "failure", err: errors.New("store down"), result: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(SavedItemsTotal.WithLabelValues(tt.result))
			RecordSave(tt.added, tt.err)
			if d := testutil.ToFloat64(SavedItemsTotal.WithLabelValues(tt.result)) - before; d != 1 {
				t.Errorf("saved_items_total{result=%q} delta = %v, want 1", tt.result, d)
			}
		})
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("memory", "get_user"))

	RecordStoreOperation("memory", "get_user", time.Millisecond, nil)
	RecordStoreOperation("memory", "get_user", time.Millisecond, errors.New("boom"))

	if d := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("memory", "get_user")) - before; d != 1 {
		t.Errorf("store_operation_errors_total delta = %v, want 1", d)
	}
}

func TestRecordCatalogRequest(t *testing.T) {
	before := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("trending", "cached"))
	RecordCatalogRequest("trending", "cached", 0)
	if d := testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("trending", "cached")) - before; d != 1 {
		t.Errorf("catalog_requests_total delta = %v, want 1", d)
	}
}

func TestRecordSweep(t *testing.T) {
	t.Run("success sets timestamp", func(t *testing.T) {
		beforeRuns := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("success"))
		beforeUsers := testutil.ToFloat64(SweepUsersDecayed)

		RecordSweep(3, time.Second, nil)

		if d := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("success")) - beforeRuns; d != 1 {
			t.Errorf("runs delta = %v, want 1", d)
		}
		if d := testutil.ToFloat64(SweepUsersDecayed) - beforeUsers; d != 3 {
			t.Errorf("users delta = %v, want 3", d)
		}
		if ts := testutil.ToFloat64(SweepLastSuccess); ts <= 0 {
			t.Errorf("last success = %v, want > 0", ts)
		}
	})

	t.Run("failure", func(t *testing.T) {
		before := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("error"))
		RecordSweep(0, time.Second, errors.New("store closed"))
		if d := testutil.ToFloat64(SweepRunsTotal.WithLabelValues("error")) - before; d != 1 {
			t.Errorf("error runs delta = %v, want 1", d)
		}
	})
}

func TestAppInfo(t *testing.T) {
	SetAppInfo("test", "go1.24")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("test", "go1.24")); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}

	UpdateUptime(time.Now().Add(-time.Minute))
	if got := testutil.ToFloat64(AppUptime); got < 59 {
		t.Errorf("app_uptime_seconds = %v, want >= 59", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(404); got != "404" {
		t.Errorf("StatusLabel(404) = %q, want 404", got)
	}
}
