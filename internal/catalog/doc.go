// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package catalog implements recommend.CatalogSource against an IGDB-compatible
game catalog API.

Queries are POSTed to {base_url}/games as Apicalypse bodies:

	fields name,cover.image_id,summary,genres.name,player_perspectives.name,total_rating,total_rating_count;
	where genres.name = ("Shooter","Role-playing (RPG)") | player_perspectives.name = ("First person");
	sort total_rating_count desc;
	limit 100;

Canonical labels are translated to upstream names on the way out and back to
canonical labels on the way in, using the shared taxonomy.

# Resilience

Every call passes through, in order:
  - a TTL cache keyed on the query (hits skip the network entirely)
  - a token bucket limiter (golang.org/x/time/rate); an exhausted budget
    surfaces as recommend.ErrRateLimited without waiting past the deadline
  - a circuit breaker (sony/gobreaker); an open breaker surfaces as
    recommend.ErrCatalogUnavailable

HTTP 429 maps to recommend.ErrRateLimited. Any other failure, including
malformed JSON, maps to recommend.ErrCatalogUnavailable. The engine treats
both the same way and serves its fallback catalog.

# Thread Safety

Client is safe for concurrent use.
*/
package catalog
