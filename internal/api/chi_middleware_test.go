// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/models"
)

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	m := NewChiMiddleware(nil)

	if m.config == nil {
		t.Fatal("config is nil")
	}
	if len(m.config.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want []", m.config.CORSAllowedOrigins)
	}
	if m.config.RateLimitRequests != 100 || m.config.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d per %v, want 100 per 1m", m.config.RateLimitRequests, m.config.RateLimitWindow)
	}
}

func TestChiMiddlewareConfigFromServer(t *testing.T) {
	tests := []struct {
		name       string
		server     config.ServerConfig
		wantReqs   int
		wantWindow time.Duration
	}{
		{
			name: "explicit limits",
			server: config.ServerConfig{
				CORSOrigins:     []string{"https://games.example.com"},
				RateLimitReqs:   20,
				RateLimitWindow: 10 * time.Second,
			},
			wantReqs:   20,
			wantWindow: 10 * time.Second,
		},
		{
			name:       "zero values keep defaults",
			server:     config.ServerConfig{},
			wantReqs:   100,
			wantWindow: time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := ChiMiddlewareConfigFromServer(&tt.server)
			if mc.RateLimitRequests != tt.wantReqs {
				t.Errorf("RateLimitRequests = %d, want %d", mc.RateLimitRequests, tt.wantReqs)
			}
			if mc.RateLimitWindow != tt.wantWindow {
				t.Errorf("RateLimitWindow = %v, want %v", mc.RateLimitWindow, tt.wantWindow)
			}
			if len(mc.CORSAllowedOrigins) != len(tt.server.CORSOrigins) {
				t.Errorf("CORSAllowedOrigins = %v, want %v", mc.CORSAllowedOrigins, tt.server.CORSOrigins)
			}
			if mc.RateLimitOnLimit == nil {
				t.Error("RateLimitOnLimit should be set")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(_ *HandlerConfig, mc *ChiMiddlewareConfig) {
		mc.RateLimitDisabled = false
		mc.RateLimitRequests = 2
		mc.RateLimitWindow = time.Minute
		mc.RateLimitOnLimit = rateLimited
	})

	for i := 0; i < 2; i++ {
		rec, _ := s.do(t, http.MethodGet, "/api/v1/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != models.ErrCodeRateLimited {
		t.Errorf("error = %+v, want %s", env.Error, models.ErrCodeRateLimited)
	}

	// Limits are counted per route.
	rec, _ = s.do(t, http.MethodGet, "/api/v1/recommendations", "", "")
	if rec.Code == http.StatusTooManyRequests {
		t.Error("a different route should have its own budget")
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true, RateLimitRequests: 1, RateLimitWindow: time.Minute})
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, rec.Code)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	const origin = "https://games.example.com"
	s := newTestServer(t, func(_ *HandlerConfig, mc *ChiMiddlewareConfig) {
		mc.CORSAllowedOrigins = []string{origin}
	})

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{name: "allowed origin", origin: origin, wantAllow: origin},
		{name: "unknown origin", origin: "https://evil.example.com", wantAllow: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestAPISecurityHeaders_HSTS(t *testing.T) {
	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	tests := []struct {
		name     string
		proto    string
		wantHSTS bool
	}{
		{name: "plain http", proto: "", wantHSTS: false},
		{name: "behind tls proxy", proto: "https", wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get("Strict-Transport-Security") != ""
			if got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
		})
	}
}
