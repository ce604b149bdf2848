// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/gamematch/internal/logging"
	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/middleware"
	"github.com/tomtom215/gamematch/internal/models"
	"github.com/tomtom215/gamematch/internal/recommend"
)

// UserProvisioner creates user records on first write.
type UserProvisioner interface {
	CreateUser(ctx context.Context, userID string) error
}

// HandlerConfig lists the handler's dependencies.
type HandlerConfig struct {
	// Engine serves every user-facing operation. Required.
	Engine *recommend.Engine

	// Users provisions records before writes. Required.
	Users UserProvisioner

	// CatalogState reports the catalog circuit breaker state; nil when the
	// catalog is disabled.
	CatalogState func() string

	// Perf tracks endpoint latency for /api/v1/stats. Optional.
	Perf *middleware.PerformanceMonitor

	Version      string
	StoreBackend string
}

// Handler serves the HTTP API.
type Handler struct {
	engine       *recommend.Engine
	users        UserProvisioner
	catalogState func() string
	perf         *middleware.PerformanceMonitor
	version      string
	storeBackend string
	startTime    time.Time
}

// NewHandler creates a handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if cfg.Users == nil {
		return nil, errors.New("api: user provisioner is required")
	}
	return &Handler{
		engine:       cfg.Engine,
		users:        cfg.Users,
		catalogState: cfg.CatalogState,
		perf:         cfg.Perf,
		version:      cfg.Version,
		storeBackend: cfg.StoreBackend,
		startTime:    time.Now(),
	}, nil
}

// Health handles GET /api/v1/health. The service stays healthy with the
// catalog breaker open because the fallback catalog keeps serving.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	metrics.UpdateUptime(h.startTime)
	status := models.HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		StoreBackend:   h.storeBackend,
		CatalogEnabled: h.catalogState != nil,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.catalogState != nil {
		status.CatalogBreaker = h.catalogState()
		if status.CatalogBreaker == "open" {
			status.Status = "degraded"
		}
	}
	respondSuccess(w, r, http.StatusOK, status, 0)
}

// Recommendations handles GET /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	resp, err := h.engine.Recommend(r.Context())
	if err != nil {
		_, _, reason := engineErrorStatus(err)
		metrics.RecordRecommendationError(reason)
		respondEngineError(w, r, err)
		return
	}

	metrics.RecordRecommendation(string(resp.Metadata.Source), len(resp.Items),
		resp.Metadata.TrendingCount, resp.Metadata.Backfilled, time.Since(start))

	respondSuccess(w, r, http.StatusOK, resp, resp.Metadata.LatencyMS)
}

// GetInterests handles GET /api/v1/interests.
func (h *Handler) GetInterests(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.Interests(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, models.NewInterestsResponse(v), 0)
}

// PutInterests handles PUT /api/v1/interests.
func (h *Handler) PutInterests(w http.ResponseWriter, r *http.Request) {
	var req models.ReplaceInterestsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.RecordInterestReplacement("invalid")
		respondInvalidJSON(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordInterestReplacement("invalid")
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	if !h.provision(w, r) {
		metrics.RecordInterestReplacement("error")
		return
	}

	v, err := h.engine.ReplaceInterests(r.Context(), req.Interests)
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidInterests) {
			metrics.RecordInterestReplacement("invalid")
		} else {
			metrics.RecordInterestReplacement("error")
		}
		respondEngineError(w, r, err)
		return
	}

	metrics.RecordInterestReplacement("ok")
	respondSuccess(w, r, http.StatusOK, models.NewInterestsResponse(v), 0)
}

// SaveItem handles POST /api/v1/saved. A new save answers 201, a repeat 200.
func (h *Handler) SaveItem(w http.ResponseWriter, r *http.Request) {
	var req models.SaveItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondInvalidJSON(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	if !h.provision(w, r) {
		return
	}

	added, err := h.engine.RecordSave(r.Context(), recommend.SavedItem{
		ItemID:       req.ID,
		Name:         req.Name,
		Genres:       req.Genres,
		Perspectives: req.Perspectives,
	})
	metrics.RecordSave(added, err)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondSuccess(w, r, status, models.SaveItemResponse{ID: req.ID, Added: added}, 0)
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	Engine    recommend.Stats            `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Engine:    h.engine.Stats(),
		Endpoints: []middleware.EndpointStats{},
	}
	if h.perf != nil {
		if stats := h.perf.Stats(); stats != nil {
			resp.Endpoints = stats
		}
	}
	respondSuccess(w, r, http.StatusOK, resp, 0)
}

// provision makes sure the caller has a record before a write. It reports
// false after writing an error response.
func (h *Handler) provision(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := recommend.UserIDFromContext(r.Context())
	if !ok {
		respondEngineError(w, r, recommend.ErrNotAuthenticated)
		return false
	}
	if err := h.users.CreateUser(r.Context(), userID); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("provision user failed")
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "internal error", nil)
		return false
	}
	return true
}
