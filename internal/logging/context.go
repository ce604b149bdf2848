// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/recommend"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

// NewRequestID returns a random UUID.
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID stores the HTTP request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithLogger stores a preconfigured logger in ctx.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the logger stored in ctx or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger carrying the request_id and user_id found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("recommendations served")
//	// {"level":"info","request_id":"…","user_id":"alice","message":"recommendations served"}
func Ctx(ctx context.Context) *zerolog.Logger {
	c := LoggerFromContext(ctx).With()
	if id := RequestIDFromContext(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	if userID, ok := recommend.UserIDFromContext(ctx); ok {
		c = c.Str("user_id", userID)
	}
	l := c.Logger()
	return &l
}
