// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package cache provides a thread-safe, typed in-memory cache with TTL support.

The catalog client uses it to keep recent category and trending query results
so bursts of requests for similar interests do not each cost an upstream call
against the catalog's rate limit.

# Overview

  - Thread-safe concurrent access (sync.RWMutex)
  - Per-entry expiration, checked lazily on Get
  - Optional size bound; the entry closest to expiry is evicted first
  - Hit, miss and eviction statistics for metrics export

# Usage Example

	c := cache.New[[]recommend.CatalogItem](5*time.Minute, 256)
	key := cache.GenerateKey("trending", params)
	if items, ok := c.Get(key); ok {
	    return items, nil
	}
	c.Set(key, items)

Expired entries are also removed by Run, which blocks until its context is
cancelled and is meant to be started by the owner of the cache.
*/
package cache
