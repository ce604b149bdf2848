// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/gamematch/internal/recommend/interest"
	"github.com/tomtom215/gamematch/internal/recommend/sampling"
	"github.com/tomtom215/gamematch/internal/recommend/scoring"
)

// Config contains all tunables for the recommendation engine. The defaults
// reproduce the long-standing behavior; none of the constants has a derivation
// beyond that.
type Config struct {
	// Interests controls category selection from the interest vector.
	Interests InterestsConfig `json:"interests"`

	// Decay controls how interest weights fade over time.
	Decay DecayConfig `json:"decay"`

	// Sampling controls candidate selection.
	Sampling SamplingConfig `json:"sampling"`

	// Match controls the displayed match percentage.
	Match MatchConfig `json:"match"`

	// Trending controls the trending mix-in.
	Trending TrendingConfig `json:"trending"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Seed seeds the engine's random source. Zero picks a time-based seed.
	Seed int64 `json:"seed"`
}

// InterestsConfig controls category selection.
type InterestsConfig struct {
	// SignificanceThreshold is the minimum weight for a label to count.
	// Default: 0.5.
	SignificanceThreshold float64 `json:"significance_threshold"`

	// TopCategories is how many labels drive the catalog query.
	// Default: 5.
	TopCategories int `json:"top_categories"`

	// MaxLabels caps the vector size; the lightest labels are evicted.
	// Default: 128.
	MaxLabels int `json:"max_labels"`

	// StrictLabels rejects labels outside the taxonomy.
	// Default: false.
	StrictLabels bool `json:"strict_labels"`
}

// DecayConfig controls interest decay.
type DecayConfig struct {
	// Policy is "exponential" or "linear".
	// Default: exponential.
	Policy string `json:"policy"`

	// HalfLife is the exponential half-life.
	// Default: 720h (30 days).
	HalfLife time.Duration `json:"half_life"`

	// LinearPerDay is the linear policy's daily reduction.
	// Default: 0.1.
	LinearPerDay float64 `json:"linear_per_day"`

	// MinInterval is the shortest gap worth decaying over.
	// Default: 1h.
	MinInterval time.Duration `json:"min_interval"`
}

// SamplingConfig controls candidate selection.
type SamplingConfig struct {
	// CandidateLimit is the primary catalog query size.
	// Default: 100.
	CandidateLimit int `json:"candidate_limit"`

	// ShortlistSize is how many top-scored candidates enter sampling.
	// Default: 20.
	ShortlistSize int `json:"shortlist_size"`

	// ResultSize is how many items a response carries.
	// Default: 8.
	ResultSize int `json:"result_size"`

	// Alpha is the weight exponent.
	// Default: 2.
	Alpha float64 `json:"alpha"`

	// Epsilon floors scores before exponentiation.
	// Default: 0.1.
	Epsilon float64 `json:"epsilon"`
}

// MatchConfig controls the match percentage.
type MatchConfig struct {
	// Divisor is the score that maps to 100% before capping.
	// Default: 3.
	Divisor float64 `json:"divisor"`

	// Cap is the highest percentage shown.
	// Default: 95.
	Cap float64 `json:"cap"`

	// Jitter is the maximum random offset, in points, used when ordering.
	// Default: 5.
	Jitter float64 `json:"jitter"`
}

// TrendingConfig controls the trending mix-in.
type TrendingConfig struct {
	// Enabled turns the mix-in on.
	// Default: true.
	Enabled bool `json:"enabled"`

	// MinRating is the rating threshold passed to the catalog.
	// Default: 75.
	MinRating float64 `json:"min_rating"`

	// Limit is the trending query size.
	// Default: 20.
	Limit int `json:"limit"`

	// MinPicks and MaxPicks bound how many trending items are spliced in.
	// Default: 1 and 2.
	MinPicks int `json:"min_picks"`
	MaxPicks int `json:"max_picks"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// CatalogTimeout bounds each catalog call.
	// Default: 10s.
	CatalogTimeout time.Duration `json:"catalog_timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Interests: InterestsConfig{
			SignificanceThreshold: 0.5,
			TopCategories:         5,
			MaxLabels:             128,
		},
		Decay: DecayConfig{
			Policy:       "exponential",
			HalfLife:     30 * 24 * time.Hour,
			LinearPerDay: 0.1,
			MinInterval:  time.Hour,
		},
		Sampling: SamplingConfig{
			CandidateLimit: 100,
			ShortlistSize:  20,
			ResultSize:     8,
			Alpha:          2,
			Epsilon:        0.1,
		},
		Match: MatchConfig{
			Divisor: 3,
			Cap:     95,
			Jitter:  5,
		},
		Trending: TrendingConfig{
			Enabled:   true,
			MinRating: 75,
			Limit:     20,
			MinPicks:  1,
			MaxPicks:  2,
		},
		Limits: LimitsConfig{
			CatalogTimeout: 10 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Interests.SignificanceThreshold < 0 {
		return fmt.Errorf("interests.significance_threshold must be non-negative, got %f", c.Interests.SignificanceThreshold)
	}
	if c.Interests.TopCategories < 1 {
		return fmt.Errorf("interests.top_categories must be positive, got %d", c.Interests.TopCategories)
	}
	if c.Interests.MaxLabels < 0 {
		return fmt.Errorf("interests.max_labels must be non-negative, got %d", c.Interests.MaxLabels)
	}

	if _, err := c.DecayPolicy(); err != nil {
		return fmt.Errorf("decay: %w", err)
	}
	if c.Decay.MinInterval < 0 {
		return fmt.Errorf("decay.min_interval must be non-negative, got %v", c.Decay.MinInterval)
	}

	if c.Sampling.CandidateLimit < 1 {
		return fmt.Errorf("sampling.candidate_limit must be positive, got %d", c.Sampling.CandidateLimit)
	}
	if c.Sampling.ResultSize < 1 {
		return fmt.Errorf("sampling.result_size must be positive, got %d", c.Sampling.ResultSize)
	}
	if c.Sampling.ShortlistSize < c.Sampling.ResultSize {
		return fmt.Errorf("sampling.shortlist_size must be >= sampling.result_size, got %d < %d",
			c.Sampling.ShortlistSize, c.Sampling.ResultSize)
	}
	if c.Sampling.Alpha <= 0 || math.IsInf(c.Sampling.Alpha, 0) {
		return fmt.Errorf("sampling.alpha must be positive, got %f", c.Sampling.Alpha)
	}
	if c.Sampling.Epsilon <= 0 {
		return fmt.Errorf("sampling.epsilon must be positive, got %f", c.Sampling.Epsilon)
	}

	if c.Match.Divisor <= 0 {
		return fmt.Errorf("match.divisor must be positive, got %f", c.Match.Divisor)
	}
	if c.Match.Cap < 0 || c.Match.Cap > 100 {
		return fmt.Errorf("match.cap must be in [0, 100], got %f", c.Match.Cap)
	}
	if c.Match.Jitter < 0 {
		return fmt.Errorf("match.jitter must be non-negative, got %f", c.Match.Jitter)
	}

	if c.Trending.Enabled {
		if c.Trending.Limit < 1 {
			return fmt.Errorf("trending.limit must be positive, got %d", c.Trending.Limit)
		}
		if c.Trending.MinPicks < 0 || c.Trending.MaxPicks < c.Trending.MinPicks {
			return fmt.Errorf("trending picks must satisfy 0 <= min <= max, got %d..%d",
				c.Trending.MinPicks, c.Trending.MaxPicks)
		}
	}

	if c.Limits.CatalogTimeout <= 0 {
		return fmt.Errorf("limits.catalog_timeout must be positive, got %v", c.Limits.CatalogTimeout)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs hold value types only.
	clone := *c
	return &clone
}

// DecayPolicy builds the configured interest decay policy.
func (c *Config) DecayPolicy() (interest.Policy, error) {
	return interest.NewPolicy(c.Decay.Policy, c.Decay.HalfLife, c.Decay.LinearPerDay)
}

// Weighting returns the sampling weight function.
func (c *Config) Weighting() sampling.Weighting {
	return sampling.Weighting{Alpha: c.Sampling.Alpha, Epsilon: c.Sampling.Epsilon}
}

// MatchScale returns the match percentage scale.
func (c *Config) MatchScale() scoring.MatchScale {
	return scoring.MatchScale{Divisor: c.Match.Divisor, Cap: c.Match.Cap}
}
