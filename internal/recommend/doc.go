// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package recommend turns a user's category interests into a short,
// personalized list of games.
//
// # Architecture
//
// A request flows through the following stages:
//
//   - Load: the user record is fetched and its interest vector is decayed
//     up to the current time (see package interest).
//   - Select: the heaviest significant labels become a catalog query. Users
//     with no signal but with saved games get their vector rebuilt first.
//   - Query: the primary query and the trending query run concurrently,
//     each under its own deadline.
//   - Sample: candidates are scored against the vector (package scoring),
//     shortlisted and drawn by weight without replacement (package sampling).
//   - Mix: a few trending games replace the weakest picks.
//   - Present: picks are shuffled, given a match percentage and ordered by a
//     jittered match so equal scores do not always appear in the same order.
//
// Catalog failures of any kind are absorbed: the embedded fallback dataset is
// sampled instead and the caller still gets a full list.
//
// # Errors
//
// Callers see ErrNotAuthenticated, ErrUserNotFound, the input validation
// errors, or ErrInternal. Underlying causes are logged, never returned.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, userStore, catalogClient, logger)
//	if err != nil {
//	    return err
//	}
//
//	ctx = recommend.WithUserID(ctx, userID)
//	resp, err := engine.Recommend(ctx)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Each request derives its own random
// source from the engine's seeded source, so the shared source is locked once
// per request.
package recommend
