// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package store provides recommend.UserStore implementations.

Backends:
  - memory: process-local maps, for tests and the one-shot CLI
  - badger: embedded key-value store (dgraph-io/badger/v4), one JSON
    document per user under "user:<id>"
  - duckdb: DuckDB through database/sql (duckdb/duckdb-go/v2)
  - sqlite: SQLite through database/sql (modernc.org/sqlite, pure Go)

The two SQL backends share SQLStore and the same schema:

	users(id TEXT PRIMARY KEY, interests TEXT, created_at BIGINT)
	saved_items(user_id TEXT, item_id TEXT, name TEXT, genres TEXT,
	            perspectives TEXT, saved_at BIGINT, PRIMARY KEY(user_id, item_id))

Interest vectors and label lists are stored as JSON text. Timestamps are
Unix nanoseconds so both engines round-trip them identically.

Open builds the configured backend and wraps it with Prometheus
instrumentation (store_operation_duration_seconds, store_operation_errors_total).

# Semantics

Every backend returns copies; callers may mutate what they receive.
AddSavedItem is idempotent per item ID and reports whether the item was new.
RemoveSavedItem undoes it; removing an absent item is a no-op.
Operations on unknown users return an error wrapping recommend.ErrUserNotFound.
*/
package store
