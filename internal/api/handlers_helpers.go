// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package api

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gamematch/internal/logging"
	"github.com/tomtom215/gamematch/internal/middleware"
	"github.com/tomtom215/gamematch/internal/models"
	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers. Responses are
// per-user, so they are never cached by intermediaries.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak validator from the FNV-1a hash of data.
func generateETag(data []byte) string {
	h := fnv.New32a()
	//nolint:errcheck // hash writes never fail
	h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondSuccess wraps data in the success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data any, queryTimeMS int64) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			RequestID:   middleware.GetRequestID(r.Context()),
			QueryTimeMS: queryTimeMS,
		},
	})
}

// respondError writes the error envelope. A non-nil err is logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError writes a prepared APIError.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
		Error: apiErr,
	})
}

// Unauthorized writes the 401 envelope. It is installed as the
// authenticator's rejection handler.
func Unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="gamematch"`)
	respondError(w, r, http.StatusUnauthorized, models.ErrCodeUnauthorized, reason, nil)
}

// decodeJSON reads a bounded JSON body into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// respondInvalidJSON reports a body decodeJSON rejected.
func respondInvalidJSON(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, r, http.StatusRequestEntityTooLarge, models.ErrCodeInvalidJSON,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil)
		return
	}
	respondError(w, r, http.StatusBadRequest, models.ErrCodeInvalidJSON, "request body is not valid JSON", nil)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v any) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// engineErrorStatus maps an engine error to an HTTP status, an API error code
// and a metric reason.
func engineErrorStatus(err error) (status int, code, reason string) {
	switch {
	case errors.Is(err, recommend.ErrNotAuthenticated):
		return http.StatusUnauthorized, models.ErrCodeUnauthorized, "unauthenticated"
	case errors.Is(err, recommend.ErrUserNotFound):
		return http.StatusNotFound, models.ErrCodeUserNotFound, "user_not_found"
	case errors.Is(err, recommend.ErrInvalidInterests):
		return http.StatusBadRequest, models.ErrCodeInvalidInterests, "invalid"
	case errors.Is(err, recommend.ErrInvalidItem):
		return http.StatusBadRequest, models.ErrCodeValidation, "invalid"
	default:
		return http.StatusInternalServerError, models.ErrCodeInternal, "internal"
	}
}

// respondEngineError writes the envelope for an engine error. Client errors
// carry the engine's message; internal errors never do.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, _ := engineErrorStatus(err)
	if status == http.StatusInternalServerError {
		respondError(w, r, status, code, "internal error", err)
		return
	}
	respondError(w, r, status, code, err.Error(), nil)
}
