// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package logging configures the process-wide zerolog logger.

Call Init once from main with the values of config.LoggingConfig:

	logging.Init(logging.Config{Level: "info", Format: "json"})
	logging.Info().Str("addr", addr).Msg("server starting")

Request-scoped code should log through Ctx, which attaches the request ID
and authenticated user ID carried by the context:

	logging.Ctx(r.Context()).Warn().Err(err).Msg("save failed")

Components that need an slog.Logger (the suture supervisor via sutureslog)
get one backed by the same zerolog output from NewSlogLogger.

Always terminate an event with Msg or Send; an unterminated event is never
written.
*/
package logging
