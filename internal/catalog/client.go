// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/gamematch/internal/cache"
	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/taxonomy"
)

const (
	// maxResponseSize bounds how much of a response body is decoded.
	maxResponseSize = 4 << 20 // 4MB

	// maxErrorBodySize bounds how much of an error body is logged.
	maxErrorBodySize = 1024

	// cacheType labels cache metrics.
	cacheType = "catalog"

	queryCategories = "categories"
	queryTrending   = "trending"
)

// Client queries the remote game catalog.
type Client struct {
	httpClient *http.Client
	endpoint   string
	clientID   string
	token      string
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]recommend.CatalogItem]
	cache      *cache.Cache[[]recommend.CatalogItem]
	taxonomy   *taxonomy.Taxonomy
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a catalog client. The taxonomy translates between canonical
// and upstream label names.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.CatalogConfig, tax *taxonomy.Taxonomy, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("catalog config is required")
	}
	if tax == nil {
		return nil, errors.New("taxonomy is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}

	logger = logger.With().Str("component", "catalog").Logger()

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/games",
		clientID:   cfg.ClientID,
		token:      cfg.Token,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:         newBreaker(cfg, logger),
		taxonomy:   tax,
		logger:     logger,
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New[[]recommend.CatalogItem](cfg.CacheTTL, cfg.CacheSize)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// QueryByCategories returns up to limit items matching any of the filter's
// genres or perspectives.
func (c *Client) QueryByCategories(ctx context.Context, filter recommend.CategoryFilter, limit int) ([]recommend.CatalogItem, error) {
	body := categoriesQuery(c.upstream(filter.Genres), c.upstream(filter.Perspectives), limit)
	return c.query(ctx, queryCategories, body)
}

// QueryTrending returns up to limit popular items rated at least minRating.
func (c *Client) QueryTrending(ctx context.Context, minRating float64, limit int) ([]recommend.CatalogItem, error) {
	return c.query(ctx, queryTrending, trendingQuery(minRating, limit))
}

// RunCacheCleanup evicts expired cache entries until ctx is done.
func (c *Client) RunCacheCleanup(ctx context.Context, interval time.Duration) {
	if c.cache == nil {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.cache.Cleanup(); n > 0 {
				metrics.CacheEvictions.WithLabelValues(cacheType).Add(float64(n))
			}
			metrics.CacheSize.WithLabelValues(cacheType).Set(float64(c.cache.Len()))
		}
	}
}

// query serves from cache or runs the request through limiter and breaker.
func (c *Client) query(ctx context.Context, kind, body string) ([]recommend.CatalogItem, error) {
	key := cache.GenerateKey(kind, body)
	if c.cache != nil {
		if items, ok := c.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues(cacheType).Inc()
			metrics.RecordCatalogRequest(kind, "cached", 0)
			return cloneItems(items), nil
		}
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordCatalogRequest(kind, "rate_limited", 0)
		return nil, fmt.Errorf("%w: local budget: %v", recommend.ErrRateLimited, err)
	}

	start := time.Now()
	items, err := c.execute(func() ([]recommend.CatalogItem, error) {
		return c.fetch(ctx, body)
	})
	duration := time.Since(start)

	if err != nil {
		result := "error"
		if errors.Is(err, recommend.ErrRateLimited) {
			result = "rate_limited"
		}
		metrics.RecordCatalogRequest(kind, result, duration)
		c.logger.Debug().Err(err).Str("query", kind).Dur("duration", duration).Msg("catalog request failed")
		return nil, err
	}

	metrics.RecordCatalogRequest(kind, "success", duration)
	if c.cache != nil {
		c.cache.Set(key, items)
		metrics.CacheSize.WithLabelValues(cacheType).Set(float64(c.cache.Len()))
	}
	return cloneItems(items), nil
}

// fetch performs one HTTP round trip.
func (c *Client) fetch(ctx context.Context, body string) ([]recommend.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", recommend.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")
	if c.clientID != "" {
		req.Header.Set("Client-ID", c.clientID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", recommend.ErrCatalogUnavailable, ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", recommend.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: upstream returned 429", recommend.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: upstream returned %d: %s",
			recommend.ErrCatalogUnavailable, resp.StatusCode, readBodyForError(resp.Body))
	}

	var games []igdbGame
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&games); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", recommend.ErrCatalogUnavailable, err)
	}
	return toItems(games, c.taxonomy), nil
}

// upstream translates canonical labels to the catalog's names.
func (c *Client) upstream(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = c.taxonomy.Upstream(l)
	}
	return out
}

// readBodyForError reads a bounded prefix of an error body.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}

// cloneItems copies the slice so callers cannot reorder cached results.
func cloneItems(items []recommend.CatalogItem) []recommend.CatalogItem {
	out := make([]recommend.CatalogItem, len(items))
	copy(out, items)
	return out
}
