// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package api exposes the recommendation engine over HTTP.

Routes are served by a chi router:

	GET  /api/v1/health            liveness and dependency state (no auth)
	GET  /api/v1/recommendations   personalized recommendations
	GET  /api/v1/interests         the decayed interest vector
	PUT  /api/v1/interests         replace the interest vector
	POST /api/v1/saved             record a saved game
	GET  /api/v1/stats             engine counters and endpoint latency
	GET  /metrics                  Prometheus exposition

Every JSON response uses the envelope from internal/models:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "request_id": "..."}}

Authenticated routes resolve the caller through internal/auth; the engine
reads the user ID from the request context and never from the body or URL.

Middleware order (outermost first): request ID, real IP, panic recovery,
CORS, then per-group rate limiting, security headers, Prometheus metrics,
endpoint latency tracking and gzip compression.
*/
package api
