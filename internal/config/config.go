// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/gamematch/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Service: Server (HTTP listener, CORS, rate limits), Logging, Auth
//  2. Data: Store (user records backend), Catalog (remote game catalog)
//  3. Engine: Recommend (scoring and sampling tunables), Decay, Sweep
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	engine, err := recommend.NewEngine(cfg.EngineConfig(), userStore, catalogClient, logger)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Auth      AuthConfig      `koanf:"auth"`
	Store     StoreConfig     `koanf:"store"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Decay     DecayConfig     `koanf:"decay"`
	Sweep     SweepConfig     `koanf:"sweep"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// AuthConfig controls how request identity is established.
//
// Environment Variables:
//   - JWT_SECRET: HMAC secret for bearer tokens
//   - JWT_ISSUER: required issuer claim (optional)
//   - AUTH_ALLOW_HEADER: accept X-User-ID from a trusted proxy (default: false)
type AuthConfig struct {
	JWTSecret   string `koanf:"jwt_secret"`
	Issuer      string `koanf:"issuer"`
	AllowHeader bool   `koanf:"allow_header"`
}

// StoreConfig selects the user record backend.
//
// Environment Variables:
//   - STORE_BACKEND: memory, badger, duckdb, sqlite (default: badger)
//   - STORE_PATH: data directory (badger) or database file (duckdb, sqlite)
type StoreConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// CatalogConfig holds the remote game catalog client settings.
//
// Environment Variables:
//   - CATALOG_URL: API base URL (default: https://api.igdb.com/v4)
//   - CATALOG_CLIENT_ID / CATALOG_TOKEN: API credentials
//   - CATALOG_RPS / CATALOG_BURST: client-side request budget (default: 4 / 4)
//   - CATALOG_CACHE_TTL: how long query results are reused (default: 5m)
//   - CATALOG_FALLBACK_PATH: YAML file replacing the embedded fallback dataset
type CatalogConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	ClientID          string        `koanf:"client_id"`
	Token             string        `koanf:"token"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	CacheSize         int           `koanf:"cache_size"`
	FallbackPath      string        `koanf:"fallback_path"`

	// Circuit breaker: opens when FailureRatio of at least MinRequests calls
	// in a window fail, and probes again after OpenTimeout.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// RecommendConfig holds the engine tunables.
type RecommendConfig struct {
	SignificanceThreshold float64       `koanf:"significance_threshold"`
	TopCategories         int           `koanf:"top_categories"`
	MaxLabels             int           `koanf:"max_labels"`
	StrictLabels          bool          `koanf:"strict_labels"`
	CandidateLimit        int           `koanf:"candidate_limit"`
	ShortlistSize         int           `koanf:"shortlist_size"`
	ResultSize            int           `koanf:"result_size"`
	Alpha                 float64       `koanf:"alpha"`
	Epsilon               float64       `koanf:"epsilon"`
	MatchDivisor          float64       `koanf:"match_divisor"`
	MatchCap              float64       `koanf:"match_cap"`
	Jitter                float64       `koanf:"jitter"`
	TrendingEnabled       bool          `koanf:"trending_enabled"`
	TrendingMinRating     float64       `koanf:"trending_min_rating"`
	TrendingLimit         int           `koanf:"trending_limit"`
	TrendingMinPicks      int           `koanf:"trending_min_picks"`
	TrendingMaxPicks      int           `koanf:"trending_max_picks"`
	CatalogTimeout        time.Duration `koanf:"catalog_timeout"`
	Seed                  int64         `koanf:"seed"`
}

// DecayConfig controls how interest weights fade.
type DecayConfig struct {
	Policy       string        `koanf:"policy"` // exponential or linear
	HalfLife     time.Duration `koanf:"half_life"`
	LinearPerDay float64       `koanf:"linear_per_day"`
	MinInterval  time.Duration `koanf:"min_interval"`
}

// SweepConfig controls the periodic decay sweep.
//
// Environment Variables:
//   - SWEEP_ENABLED: run the sweep in serve mode (default: false)
//   - SWEEP_SCHEDULE: standard 5-field cron expression (default: "0 4 * * *")
type SweepConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Schedule string `koanf:"schedule"`
}

// EngineConfig converts the loaded settings into the engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	r := c.Recommend
	return &recommend.Config{
		Interests: recommend.InterestsConfig{
			SignificanceThreshold: r.SignificanceThreshold,
			TopCategories:         r.TopCategories,
			MaxLabels:             r.MaxLabels,
			StrictLabels:          r.StrictLabels,
		},
		Decay: recommend.DecayConfig{
			Policy:       c.Decay.Policy,
			HalfLife:     c.Decay.HalfLife,
			LinearPerDay: c.Decay.LinearPerDay,
			MinInterval:  c.Decay.MinInterval,
		},
		Sampling: recommend.SamplingConfig{
			CandidateLimit: r.CandidateLimit,
			ShortlistSize:  r.ShortlistSize,
			ResultSize:     r.ResultSize,
			Alpha:          r.Alpha,
			Epsilon:        r.Epsilon,
		},
		Match: recommend.MatchConfig{
			Divisor: r.MatchDivisor,
			Cap:     r.MatchCap,
			Jitter:  r.Jitter,
		},
		Trending: recommend.TrendingConfig{
			Enabled:   r.TrendingEnabled,
			MinRating: r.TrendingMinRating,
			Limit:     r.TrendingLimit,
			MinPicks:  r.TrendingMinPicks,
			MaxPicks:  r.TrendingMaxPicks,
		},
		Limits: recommend.LimitsConfig{
			CatalogTimeout: r.CatalogTimeout,
		},
		Seed: r.Seed,
	}
}

// Load loads configuration using Koanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
