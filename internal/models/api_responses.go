// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package models

import (
	"time"

	"github.com/tomtom215/gamematch/internal/recommend/interest"
)

// APIResponse wraps every API response.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "metadata": {"source": "catalog", ...}},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "…", "query_time_ms": 42}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"},
//	  "error": {"code": "USER_NOT_FOUND", "message": "user not found"}
//	}
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the error body.
//
// Codes:
//   - UNAUTHORIZED: no or invalid identity
//   - USER_NOT_FOUND: identity has no user record
//   - VALIDATION_ERROR: request body failed validation
//   - INVALID_JSON: request body is not decodable
//   - INVALID_INTERESTS: labels or weights rejected by the engine
//   - RATE_LIMITED: too many requests
//   - NOT_FOUND, METHOD_NOT_ALLOWED: no such route
//   - INTERNAL_ERROR: anything else
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidInterests = "INVALID_INTERESTS"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreBackend   string  `json:"store_backend"`
	CatalogEnabled bool    `json:"catalog_enabled"`
	CatalogBreaker string  `json:"catalog_breaker,omitempty"`
	Uptime         float64 `json:"uptime_seconds"`
}

// ReplaceInterestsRequest is the body of PUT /api/v1/interests.
type ReplaceInterestsRequest struct {
	Interests []interest.Entry `json:"interests" validate:"max=256,dive"`
}

// SaveItemRequest is the body of POST /api/v1/saved.
type SaveItemRequest struct {
	ID           string   `json:"id" validate:"required,notblank,max=64"`
	Name         string   `json:"name" validate:"max=256"`
	Genres       []string `json:"genres" validate:"max=32,dive,notblank,max=64"`
	Perspectives []string `json:"perspectives" validate:"max=16,dive,notblank,max=64"`
}

// SaveItemResponse reports whether the save changed anything.
type SaveItemResponse struct {
	ID    string `json:"id"`
	Added bool   `json:"added"`
}

// InterestsResponse is the body of the interest endpoints.
type InterestsResponse struct {
	Interests     []interest.Entry `json:"interests"`
	LastDecayedAt time.Time        `json:"last_decayed_at"`
}

// NewInterestsResponse flattens v; a nil vector yields an empty list.
func NewInterestsResponse(v *interest.Vector) InterestsResponse {
	if v == nil {
		return InterestsResponse{Interests: []interest.Entry{}}
	}
	entries := v.Entries()
	if entries == nil {
		entries = []interest.Entry{}
	}
	return InterestsResponse{Interests: entries, LastDecayedAt: v.LastDecayedAt()}
}
