// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package auth establishes the identity of API callers.

The recommendation engine never authenticates anyone itself; it reads the
user ID that this package stores in the request context with
recommend.WithUserID. Two sources of identity are supported:

  - Bearer tokens: HMAC-signed JWTs (HS256/384/512) whose "sub" claim is the
    user ID. The issuer is checked when JWT_ISSUER is set.
  - X-User-ID header: accepted only when AUTH_ALLOW_HEADER is enabled, for
    deployments behind a proxy that has already authenticated the caller.

A request carrying an Authorization header is always judged by its token,
even when header identity is allowed.

	authn, err := auth.NewAuthenticator(&cfg.Auth, logger)
	r.With(authn.Middleware).Get("/api/v1/recommendations", h.Recommendations)
*/
package auth
