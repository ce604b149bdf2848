// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/gamematch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/gamematch/config.yaml",
	"/etc/gamematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// Engine tunables come from recommend.DefaultConfig so both stay in sync.
func defaultConfig() *Config {
	eng := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Auth: AuthConfig{
			AllowHeader: false,
		},
		Store: StoreConfig{
			Backend: "badger",
			Path:    "/data/gamematch",
		},
		Catalog: CatalogConfig{
			Enabled:             true,
			BaseURL:             "https://api.igdb.com/v4",
			Timeout:             8 * time.Second,
			RequestsPerSecond:   4,
			Burst:               4,
			CacheTTL:            5 * time.Minute,
			CacheSize:           512,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerOpenTimeout:  time.Minute,
		},
		Recommend: RecommendConfig{
			SignificanceThreshold: eng.Interests.SignificanceThreshold,
			TopCategories:         eng.Interests.TopCategories,
			MaxLabels:             eng.Interests.MaxLabels,
			StrictLabels:          eng.Interests.StrictLabels,
			CandidateLimit:        eng.Sampling.CandidateLimit,
			ShortlistSize:         eng.Sampling.ShortlistSize,
			ResultSize:            eng.Sampling.ResultSize,
			Alpha:                 eng.Sampling.Alpha,
			Epsilon:               eng.Sampling.Epsilon,
			MatchDivisor:          eng.Match.Divisor,
			MatchCap:              eng.Match.Cap,
			Jitter:                eng.Match.Jitter,
			TrendingEnabled:       eng.Trending.Enabled,
			TrendingMinRating:     eng.Trending.MinRating,
			TrendingLimit:         eng.Trending.Limit,
			TrendingMinPicks:      eng.Trending.MinPicks,
			TrendingMaxPicks:      eng.Trending.MaxPicks,
			CatalogTimeout:        eng.Limits.CatalogTimeout,
			Seed:                  eng.Seed,
		},
		Decay: DecayConfig{
			Policy:       eng.Decay.Policy,
			HalfLife:     eng.Decay.HalfLife,
			LinearPerDay: eng.Decay.LinearPerDay,
			MinInterval:  eng.Decay.MinInterval,
		},
		Sweep: SweepConfig{
			Enabled:  false,
			Schedule: "0 4 * * *",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from defaults or YAML)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":           "server.port",
	"http_host":           "server.host",
	"http_read_timeout":   "server.read_timeout",
	"http_write_timeout":  "server.write_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"environment":         "server.environment",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Auth
	"jwt_secret":        "auth.jwt_secret",
	"jwt_issuer":        "auth.issuer",
	"auth_allow_header": "auth.allow_header",

	// Store
	"store_backend": "store.backend",
	"store_path":    "store.path",

	// Catalog
	"catalog_enabled":               "catalog.enabled",
	"catalog_url":                   "catalog.base_url",
	"catalog_client_id":             "catalog.client_id",
	"catalog_token":                 "catalog.token",
	"catalog_timeout":               "catalog.timeout",
	"catalog_rps":                   "catalog.requests_per_second",
	"catalog_burst":                 "catalog.burst",
	"catalog_cache_ttl":             "catalog.cache_ttl",
	"catalog_cache_size":            "catalog.cache_size",
	"catalog_fallback_path":         "catalog.fallback_path",
	"catalog_breaker_min_requests":  "catalog.breaker_min_requests",
	"catalog_breaker_failure_ratio": "catalog.breaker_failure_ratio",
	"catalog_breaker_open_timeout":  "catalog.breaker_open_timeout",

	// Recommendation engine
	"recommend_significance_threshold": "recommend.significance_threshold",
	"recommend_top_categories":         "recommend.top_categories",
	"recommend_max_labels":             "recommend.max_labels",
	"recommend_strict_labels":          "recommend.strict_labels",
	"recommend_candidate_limit":        "recommend.candidate_limit",
	"recommend_shortlist_size":         "recommend.shortlist_size",
	"recommend_result_size":            "recommend.result_size",
	"recommend_alpha":                  "recommend.alpha",
	"recommend_epsilon":                "recommend.epsilon",
	"recommend_match_divisor":          "recommend.match_divisor",
	"recommend_match_cap":              "recommend.match_cap",
	"recommend_jitter":                 "recommend.jitter",
	"recommend_trending_enabled":       "recommend.trending_enabled",
	"recommend_trending_min_rating":    "recommend.trending_min_rating",
	"recommend_trending_limit":         "recommend.trending_limit",
	"recommend_trending_min_picks":     "recommend.trending_min_picks",
	"recommend_trending_max_picks":     "recommend.trending_max_picks",
	"recommend_catalog_timeout":        "recommend.catalog_timeout",
	"recommend_seed":                   "recommend.seed",

	// Decay
	"decay_policy":         "decay.policy",
	"decay_half_life":      "decay.half_life",
	"decay_linear_per_day": "decay.linear_per_day",
	"decay_min_interval":   "decay.min_interval",

	// Sweep
	"sweep_enabled":  "sweep.enabled",
	"sweep_schedule": "sweep.schedule",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_BACKEND -> store.backend
//   - CATALOG_RPS -> catalog.requests_per_second
//   - DECAY_HALF_LIFE -> decay.half_life
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// cannot pollute the config.
	return ""
}
