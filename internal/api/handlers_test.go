// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/auth"
	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/middleware"
	"github.com/tomtom215/gamematch/internal/models"
	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/store"
)

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type testServer struct {
	handler http.Handler
	store   *store.MemoryStore
	engine  *recommend.Engine
}

type serverOption func(*HandlerConfig, *ChiMiddlewareConfig)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	eng, err := recommend.NewEngine(nil, st, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	hc := HandlerConfig{
		Engine:       eng,
		Users:        st,
		Version:      "test",
		StoreBackend: config.StoreMemory,
	}
	mc := DefaultChiMiddlewareConfig()
	mc.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&hc, mc)
	}

	perf := middleware.NewPerformanceMonitor(100, time.Second)
	hc.Perf = perf
	h, err := NewHandler(hc)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	authn, err := auth.NewAuthenticator(&config.AuthConfig{AllowHeader: true}, zerolog.Nop(),
		auth.WithUnauthorizedHandler(Unauthorized))
	if err != nil {
		t.Fatalf("NewAuthenticator() error = %v", err)
	}

	return &testServer{
		handler: NewRouter(h, authn, NewChiMiddleware(mc), perf).SetupChi(),
		store:   st,
		engine:  eng,
	}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	if userID != "" {
		req.Header.Set(auth.UserIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	st := store.NewMemoryStore()
	defer st.Close()
	eng, err := recommend.NewEngine(nil, st, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	tests := []struct {
		name string
		cfg  HandlerConfig
	}{
		{name: "missing engine", cfg: HandlerConfig{Users: st}},
		{name: "missing users", cfg: HandlerConfig{Engine: eng}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewHandler(tt.cfg); err == nil {
				t.Error("NewHandler() should fail")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("healthy without catalog", func(t *testing.T) {
		s := newTestServer(t)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health", "", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var health models.HealthStatus
		if err := json.Unmarshal(env.Data, &health); err != nil {
			t.Fatalf("decode health: %v", err)
		}
		if health.Status != "healthy" {
			t.Errorf("Status = %q, want healthy", health.Status)
		}
		if health.StoreBackend != config.StoreMemory {
			t.Errorf("StoreBackend = %q, want %q", health.StoreBackend, config.StoreMemory)
		}
		if health.CatalogEnabled {
			t.Error("CatalogEnabled should be false without a catalog")
		}
	})

	t.Run("degraded when breaker is open", func(t *testing.T) {
		s := newTestServer(t, func(hc *HandlerConfig, _ *ChiMiddlewareConfig) {
			hc.CatalogState = func() string { return "open" }
		})
		_, env := s.do(t, http.MethodGet, "/api/v1/health", "", "")

		var health models.HealthStatus
		if err := json.Unmarshal(env.Data, &health); err != nil {
			t.Fatalf("decode health: %v", err)
		}
		if health.Status != "degraded" || health.CatalogBreaker != "open" {
			t.Errorf("health = %+v, want degraded with open breaker", health)
		}
	})

	t.Run("security headers", func(t *testing.T) {
		s := newTestServer(t)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/health", "", "")

		if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
		}
		if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q, want DENY", got)
		}
		if got := rec.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control = %q, want no-store", got)
		}
	})
}

func TestAuthenticatedRoutes_RequireIdentity(t *testing.T) {
	s := newTestServer(t)

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/recommendations", ""},
		{http.MethodGet, "/api/v1/interests", ""},
		{http.MethodPut, "/api/v1/interests", `{"interests":[]}`},
		{http.MethodPost, "/api/v1/saved", `{"id":"g1"}`},
		{http.MethodGet, "/api/v1/stats", ""},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec, env := s.do(t, rt.method, rt.path, "", rt.body)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if env.Error == nil || env.Error.Code != models.ErrCodeUnauthorized {
				t.Errorf("error = %+v, want %s", env.Error, models.ErrCodeUnauthorized)
			}
			if rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestRecommendations_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations", "stranger", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != models.ErrCodeUserNotFound {
		t.Errorf("error = %+v, want %s", env.Error, models.ErrCodeUserNotFound)
	}
}

func TestGetInterests_UnknownUser(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/interests", "stranger", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSaveThenRecommend(t *testing.T) {
	s := newTestServer(t)
	const user = "player-1"
	body := `{"id":"g1","name":"Hollow Knight","genres":["RPG"],"perspectives":["Third-Person"]}`

	t.Run("first save creates the user", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/saved", user, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var saved models.SaveItemResponse
		if err := json.Unmarshal(env.Data, &saved); err != nil {
			t.Fatalf("decode save: %v", err)
		}
		if !saved.Added || saved.ID != "g1" {
			t.Errorf("save = %+v, want added g1", saved)
		}
	})

	t.Run("repeat save is a no-op", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/api/v1/saved", user, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var saved models.SaveItemResponse
		if err := json.Unmarshal(env.Data, &saved); err != nil {
			t.Fatalf("decode save: %v", err)
		}
		if saved.Added {
			t.Error("repeat save reported added")
		}
	})

	t.Run("interests reflect the save once", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/interests", user, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp models.InterestsResponse
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatalf("decode interests: %v", err)
		}
		weights := make(map[string]float64)
		for _, e := range resp.Interests {
			weights[e.Label] = e.Weight
		}
		if weights["RPG"] != 1 || weights["Third-Person"] != 1 {
			t.Errorf("weights = %v, want RPG and Third-Person at 1", weights)
		}
	})

	t.Run("recommendations come from the fallback catalog", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/recommendations", user, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var resp recommend.Response
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatalf("decode recommendations: %v", err)
		}
		if resp.Metadata.Source != recommend.SourceFallback {
			t.Errorf("Source = %q, want %q", resp.Metadata.Source, recommend.SourceFallback)
		}
		if len(resp.Items) != 8 {
			t.Errorf("len(Items) = %d, want 8", len(resp.Items))
		}
		if resp.Metadata.UserID != user {
			t.Errorf("UserID = %q, want %q", resp.Metadata.UserID, user)
		}
		for _, it := range resp.Items {
			if it.MatchPercentage < 0 || it.MatchPercentage > 95 {
				t.Errorf("item %s match = %d, want within [0, 95]", it.ID, it.MatchPercentage)
			}
		}
	})

	t.Run("stats count the request", func(t *testing.T) {
		rec, env := s.do(t, http.MethodGet, "/api/v1/stats", user, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var stats StatsResponse
		if err := json.Unmarshal(env.Data, &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.Engine.Requests != 1 || stats.Engine.Fallbacks != 1 {
			t.Errorf("engine stats = %+v, want 1 request served by fallback", stats.Engine)
		}
		if len(stats.Endpoints) == 0 {
			t.Error("expected endpoint latency stats")
		}
	})
}

func TestPutInterests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "valid replacement",
			body:     `{"interests":[{"label":"rpg","weight":2.5},{"label":"Strategy","weight":1}]}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "empty replacement",
			body:     `{"interests":[]}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "negative weight",
			body:     `{"interests":[{"label":"RPG","weight":-1}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeValidation,
		},
		{
			name:     "missing label",
			body:     `{"interests":[{"weight":1}]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeValidation,
		},
		{
			name:     "unknown field",
			body:     `{"interests":[],"extra":true}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeInvalidJSON,
		},
		{
			name:     "malformed json",
			body:     `{"interests":`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec, env := s.do(t, http.MethodPut, "/api/v1/interests", "player-2", tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr != "" {
				if env.Error == nil || env.Error.Code != tt.wantErr {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantErr)
				}
				return
			}
			if env.Status != "success" {
				t.Errorf("Status = %q, want success", env.Status)
			}
		})
	}
}

func TestPutInterests_NormalizesLabels(t *testing.T) {
	s := newTestServer(t)

	_, env := s.do(t, http.MethodPut, "/api/v1/interests", "player-3",
		`{"interests":[{"label":"role playing","weight":2}]}`)

	var resp models.InterestsResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode interests: %v", err)
	}
	if len(resp.Interests) != 1 || resp.Interests[0].Label != "RPG" {
		t.Errorf("interests = %+v, want a single RPG entry", resp.Interests)
	}
}

func TestSaveItem_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing id", body: `{"name":"x"}`, wantErr: models.ErrCodeValidation},
		{name: "blank id", body: `{"id":"   "}`, wantErr: models.ErrCodeValidation},
		{name: "blank genre", body: `{"id":"g1","genres":[""]}`, wantErr: models.ErrCodeValidation},
		{name: "not an object", body: `[1,2]`, wantErr: models.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec, env := s.do(t, http.MethodPost, "/api/v1/saved", "player-4", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantErr)
			}
		})
	}
}

func TestSaveItem_ValidationDoesNotCreateUser(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/saved", "player-5", `{"name":"x"}`)

	if _, err := s.store.GetUser(context.Background(), "player-5"); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
	}
}

func TestRequestID_Propagation(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/saved", "player-6", `{"id":"g1","genres":["Shooter"]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", http.NoBody)
	req.Header.Set(auth.UserIDHeader, "player-6")
	req.Header.Set(middleware.RequestIDHeader, "trace-abc-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "trace-abc-123" {
		t.Errorf("response header = %q, want trace-abc-123", got)
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Metadata.RequestID != "trace-abc-123" {
		t.Errorf("envelope request_id = %q, want trace-abc-123", env.Metadata.RequestID)
	}
	var resp recommend.Response
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode recommendations: %v", err)
	}
	if resp.Metadata.RequestID != "trace-abc-123" {
		t.Errorf("recommendation request_id = %q, want trace-abc-123", resp.Metadata.RequestID)
	}
}

func TestRouting_Fallthrough(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown route", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodGet, "/api/v2/nothing", "", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		rec, _ := s.do(t, http.MethodDelete, "/api/v1/health", "", "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# HELP") {
		t.Error("metrics body has no HELP lines")
	}
}
