// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package config provides centralized configuration management for Gamematch.

Configuration is layered with Koanf v2. Built-in defaults are loaded first,
then an optional YAML file, then environment variables. Each later layer
overrides the earlier ones.

# Configuration File

The first file found is used:
  - $CONFIG_PATH
  - ./config.yaml, ./config.yml
  - /etc/gamematch/config.yaml, /etc/gamematch/config.yml

Example:

	server:
	  port: 8080
	  cors_origins: ["https://games.example.com"]
	store:
	  backend: sqlite
	  path: /data/gamematch.db
	catalog:
	  base_url: https://api.igdb.com/v4
	  client_id: abc123
	recommend:
	  result_size: 8
	  trending_enabled: true
	decay:
	  policy: exponential
	  half_life: 720h
	sweep:
	  enabled: true
	  schedule: "0 4 * * *"

# Environment Variables

Only mapped variables are read; unrelated environment variables are ignored.

Server:
  - HTTP_HOST, HTTP_PORT: Listen address (default: 0.0.0.0:8080)
  - ENVIRONMENT: development or production
  - CORS_ORIGINS: Comma-separated allowed origins
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Identity:
  - JWT_SECRET: HS256 secret (min 32 chars)
  - AUTH_ALLOW_HEADER: Trust X-User-ID (development only without JWT_SECRET)

Store:
  - STORE_BACKEND: memory, badger, duckdb, sqlite
  - STORE_PATH: Directory or file for the backend

Catalog:
  - CATALOG_URL, CATALOG_CLIENT_ID, CATALOG_TOKEN
  - CATALOG_RPS, CATALOG_BURST, CATALOG_TIMEOUT
  - CATALOG_CACHE_TTL, CATALOG_CACHE_SIZE, CATALOG_FALLBACK_PATH

Engine:
  - RECOMMEND_*: Every engine tunable (see envMappings)
  - DECAY_POLICY, DECAY_HALF_LIFE, DECAY_LINEAR_PER_DAY, DECAY_MIN_INTERVAL
  - SWEEP_ENABLED, SWEEP_SCHEDULE

# Validation

Load fails fast on invalid settings. Engine tunables are checked by
recommend.Config.Validate so the CLI and the server reject the same values.
*/
package config
