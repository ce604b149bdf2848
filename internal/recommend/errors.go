// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package recommend

import (
	"errors"
	"fmt"
)

// Caller-visible errors.
var (
	// ErrNotAuthenticated means the context carries no user identity.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUserNotFound means the identity has no backing record.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInterests rejects a malformed interest replacement.
	ErrInvalidInterests = errors.New("invalid interests")

	// ErrInvalidItem rejects a saved item without an ID.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInternal hides any other failure. The cause is logged, not returned.
	ErrInternal = errors.New("internal error")
)

// Catalog errors. These never leave the engine.
var (
	// ErrCatalogUnavailable covers timeouts, upstream errors and malformed responses.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrRateLimited is the routine case of ErrCatalogUnavailable.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrCatalogUnavailable)
)
