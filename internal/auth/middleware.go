// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package auth

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/recommend"
)

// UserIDHeader carries a proxy-asserted user ID.
const UserIDHeader = "X-User-ID"

// maxUserIDLength bounds header-supplied IDs.
const maxUserIDLength = 128

// UnauthorizedFunc writes the response for a rejected request.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, reason string)

// Authenticator resolves the caller's user ID and stores it in the request
// context.
type Authenticator struct {
	verifier       *Verifier
	allowHeader    bool
	onUnauthorized UnauthorizedFunc
	logger         zerolog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithUnauthorizedHandler replaces the default 401 JSON body.
func WithUnauthorizedHandler(fn UnauthorizedFunc) Option {
	return func(a *Authenticator) {
		a.onUnauthorized = fn
	}
}

// NewAuthenticator builds an authenticator from cfg. At least one identity
// source must be enabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAuthenticator(cfg *config.AuthConfig, logger zerolog.Logger, opts ...Option) (*Authenticator, error) {
	if cfg == nil {
		return nil, errors.New("auth config is required")
	}

	a := &Authenticator{
		allowHeader:    cfg.AllowHeader,
		onUnauthorized: writeUnauthorized,
		logger:         logger.With().Str("component", "auth").Logger(),
	}
	if cfg.JWTSecret != "" {
		v, err := NewVerifier(cfg.JWTSecret, cfg.Issuer)
		if err != nil {
			return nil, err
		}
		a.verifier = v
	}
	if a.verifier == nil && !a.allowHeader {
		return nil, errors.New("no identity source configured: set JWT_SECRET or AUTH_ALLOW_HEADER")
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Verifier returns the token verifier, or nil when tokens are disabled.
func (a *Authenticator) Verifier() *Verifier {
	return a.verifier
}

// Middleware rejects unauthenticated requests with 401 and passes the rest on
// with the user ID in the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, method, reason := a.identify(r)
		if reason != "" {
			if method != "" {
				metrics.RecordAuthAttempt(method, false)
			}
			a.logger.Debug().Str("method", method).Str("path", r.URL.Path).Str("reason", reason).Msg("request rejected")
			a.onUnauthorized(w, r, reason)
			return
		}

		metrics.RecordAuthAttempt(method, true)
		next.ServeHTTP(w, r.WithContext(recommend.WithUserID(r.Context(), userID)))
	})
}

// identify returns the user ID and the method that produced it, or a
// non-empty rejection reason.
func (a *Authenticator) identify(r *http.Request) (userID, method, reason string) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if a.verifier == nil {
			return "", "jwt", "bearer tokens are not accepted"
		}
		scheme, token, ok := strings.Cut(authz, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", "jwt", "malformed authorization header"
		}
		sub, err := a.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			return "", "jwt", "invalid token"
		}
		return sub, "jwt", ""
	}

	if a.allowHeader {
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			if !validHeaderID(id) {
				return "", "header", "invalid user id header"
			}
			return id, "header", ""
		}
	}

	return "", "", "authentication required"
}

func validHeaderID(id string) bool {
	if len(id) > maxUserIDLength {
		return false
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="gamematch"`)
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  map[string]string{"code": "UNAUTHORIZED", "message": reason},
	})
}
