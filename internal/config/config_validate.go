// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateStore,
		c.validateCatalog,
		c.validateRecommend,
		c.validateSweep,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT and HTTP_WRITE_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates identity, CORS and rate limiting configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateAuth requires a usable way to identify callers.
func (c *Config) validateAuth() error {
	if c.Auth.JWTSecret == "" {
		if !c.Auth.AllowHeader {
			return fmt.Errorf("JWT_SECRET is required unless AUTH_ALLOW_HEADER=true")
		}
		if c.IsProduction() {
			return fmt.Errorf("AUTH_ALLOW_HEADER without JWT_SECRET is not allowed when ENVIRONMENT=production. " +
				"Set JWT_SECRET or use ENVIRONMENT=development for testing purposes")
		}
		return nil
	}
	return c.validateJWTSecret()
}

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Auth.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration. Empty values fall back
// to the logging package defaults.
func (c *Config) validateLogging() error {
	if c.Logging.Level != "" && !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// Store backends accepted by STORE_BACKEND.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
	StoreDuckDB = "duckdb"
	StoreSQLite = "sqlite"
)

// validateStore validates the user record backend selection
func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreMemory:
		return nil
	case StoreBadger, StoreDuckDB, StoreSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=%s", c.Store.Backend)
		}
		return nil
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: memory, badger, duckdb, sqlite")
	}
}

// validateCatalog validates the remote catalog client (only if enabled)
func (c *Config) validateCatalog() error {
	if !c.Catalog.Enabled {
		return nil
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_URL is required when CATALOG_ENABLED=true")
	}
	if err := checkAPIBaseURL(c.Catalog.BaseURL); err != nil {
		return fmt.Errorf("CATALOG_URL is invalid: %w", err)
	}
	if containsPlaceholder(c.Catalog.Token) || containsPlaceholder(c.Catalog.ClientID) {
		return fmt.Errorf("CATALOG_CLIENT_ID or CATALOG_TOKEN contains a placeholder value")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("CATALOG_RPS must be positive")
	}
	if c.Catalog.Burst < 1 {
		return fmt.Errorf("CATALOG_BURST must be at least 1")
	}
	if c.Catalog.CacheSize < 0 || c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_SIZE and CATALOG_CACHE_TTL must not be negative")
	}
	return c.validateBreaker()
}

// checkAPIBaseURL accepts absolute http(s) URLs with an optional version
// path such as https://api.igdb.com/v4. Query strings are rejected because
// the client appends endpoint paths.
func checkAPIBaseURL(raw string) error {
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return err
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	case u.Host == "":
		return fmt.Errorf("host is required")
	case u.RawQuery != "" || u.Fragment != "":
		return fmt.Errorf("must not carry a query or fragment")
	}
	return nil
}

// validateBreaker validates the catalog circuit breaker thresholds
func (c *Config) validateBreaker() error {
	if c.Catalog.BreakerMinRequests < 1 {
		return fmt.Errorf("CATALOG_BREAKER_MIN_REQUESTS must be at least 1")
	}
	if c.Catalog.BreakerFailureRatio <= 0 || c.Catalog.BreakerFailureRatio > 1 {
		return fmt.Errorf("CATALOG_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.Catalog.BreakerOpenTimeout <= 0 {
		return fmt.Errorf("CATALOG_BREAKER_OPEN_TIMEOUT must be positive")
	}
	return nil
}

// validateRecommend delegates to the engine's own validation so both
// entry points agree on what a usable configuration is.
func (c *Config) validateRecommend() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateSweep parses the sweep schedule (only if enabled)
func (c *Config) validateSweep() error {
	if !c.Sweep.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Sweep.Schedule); err != nil {
		return fmt.Errorf("SWEEP_SCHEDULE is invalid: %w", err)
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_TOKEN",
	"PLACEHOLDER",
	"TODO",
	"FIXME",
	"XXX",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
