// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/recommend/interest"
	"github.com/tomtom215/gamematch/internal/recommend/sampling"
	"github.com/tomtom215/gamematch/internal/recommend/scoring"
	"github.com/tomtom215/gamematch/internal/recommend/taxonomy"
)

// Note: storage and the remote catalog are reached only through the
// UserStore and CatalogSource interfaces so this package never imports
// internal/store or internal/catalog.

// Engine turns a user's interest vector into a short list of games.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config    *Config
	logger    zerolog.Logger
	decayer   interest.Decayer
	weighting sampling.Weighting
	match     scoring.MatchScale

	// Collaborators
	store    UserStore
	catalog  CatalogSource
	taxonomy *taxonomy.Taxonomy
	fallback []CatalogItem
	now      func() time.Time

	// Random source (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	// Counters
	requests      atomic.Int64
	fallbacks     atomic.Int64
	rateLimited   atomic.Int64
	empty         atomic.Int64
	backfills     atomic.Int64
	trendingMixed atomic.Int64
	errorCount    atomic.Int64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFallbackCatalog replaces the embedded fallback dataset.
func WithFallbackCatalog(items []CatalogItem) Option {
	return func(e *Engine) {
		e.fallback = items
	}
}

// WithTaxonomy replaces the default game taxonomy.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(e *Engine) {
		e.taxonomy = t
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRand overrides the engine random source.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// NewEngine creates a recommendation engine. A nil catalog is allowed and
// makes every request use the fallback dataset.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store UserStore, catalog CatalogSource, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("user store is required")
	}

	policy, err := cfg.DecayPolicy()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		decayer:   interest.Decayer{Policy: policy, MinInterval: cfg.Decay.MinInterval},
		weighting: cfg.Weighting(),
		match:     cfg.MatchScale(),
		store:     store,
		catalog:   catalog,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation sampling
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.taxonomy == nil {
		t, err := taxonomy.New(taxonomy.GameCategories, cfg.Interests.StrictLabels)
		if err != nil {
			return nil, fmt.Errorf("build taxonomy: %w", err)
		}
		e.taxonomy = t
	}
	if e.fallback == nil {
		e.fallback = DefaultFallbackCatalog()
	}
	e.fallback = e.normalizeItems(e.fallback)

	return e, nil
}

// normalizeItems returns a copy of items with canonical labels.
func (e *Engine) normalizeItems(items []CatalogItem) []CatalogItem {
	out := make([]CatalogItem, len(items))
	for i, it := range items {
		it.Genres = e.taxonomy.NormalizeAll(it.Genres)
		it.Perspectives = e.taxonomy.NormalizeAll(it.Perspectives)
		out[i] = it
	}
	return out
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Taxonomy returns the label taxonomy the engine normalizes with.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy {
	return e.taxonomy
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:      e.requests.Load(),
		Fallbacks:     e.fallbacks.Load(),
		RateLimited:   e.rateLimited.Load(),
		Empty:         e.empty.Load(),
		Backfills:     e.backfills.Load(),
		TrendingMixed: e.trendingMixed.Load(),
		Errors:        e.errorCount.Load(),
	}
}

// Recommend produces recommendations for the user carried by ctx.
//
// Only ErrNotAuthenticated and ErrUserNotFound are returned as-is. Anything
// else, panics included, is logged and surfaced as ErrInternal. Catalog
// failures never reach the caller: the fallback dataset is used instead.
func (e *Engine) Recommend(ctx context.Context) (resp *Response, err error) {
	start := time.Now()
	e.requests.Add(1)

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	requestID := requestIDFromContext(ctx)
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("user_id", userID).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	defer func() {
		if r := recover(); r != nil {
			e.errorCount.Add(1)
			logger.Error().Interface("panic", r).Msg("recommendation panicked")
			resp, err = nil, ErrInternal
		}
	}()

	resp, err = e.recommend(ctx, userID, logger)
	if err != nil {
		return nil, e.surface(err, logger, "recommendation failed")
	}

	resp.Metadata.RequestID = requestID
	resp.Metadata.UserID = userID
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = e.now()

	logger.Debug().
		Str("source", string(resp.Metadata.Source)).
		Int("returned", len(resp.Items)).
		Int("trending", resp.Metadata.TrendingCount).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

func (e *Engine) recommend(ctx context.Context, userID string, logger zerolog.Logger) (*Response, error) {
	rec, err := e.loadUser(ctx, userID, logger)
	if err != nil {
		return nil, err
	}
	vector := rec.Interests

	resp := &Response{Items: []Recommendation{}}

	top := e.topCategories(vector)
	if len(top) == 0 {
		if len(rec.SavedItems) == 0 {
			e.empty.Add(1)
			resp.Metadata.Source = SourceEmpty
			logger.Debug().Msg("no interest signal")
			return resp, nil
		}
		e.backfill(ctx, userID, vector, rec.SavedItems, logger)
		resp.Metadata.Backfilled = true
		top = e.topCategories(vector)
	}
	resp.Metadata.Categories = top

	rng := e.requestRand()
	picks, trending, source := e.selectCandidates(ctx, vector, top, rng, logger)

	resp.Metadata.Source = source
	resp.Metadata.TrendingCount = trending
	resp.Items = e.finalize(picks, rng)
	return resp, nil
}

// loadUser fetches the record and brings its interests up to date.
func (e *Engine) loadUser(ctx context.Context, userID string, logger zerolog.Logger) (*UserRecord, error) {
	rec, err := e.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if rec.Interests == nil {
		rec.Interests = interest.NewVector()
	}

	if e.decayer.DecayTo(rec.Interests, e.now()) {
		if err := e.store.SaveInterests(ctx, userID, rec.Interests); err != nil {
			logger.Warn().Err(err).Msg("failed to persist decayed interests")
		}
	}
	return rec, nil
}

func (e *Engine) topCategories(v *interest.Vector) []string {
	return v.TopCategories(e.config.Interests.TopCategories, e.config.Interests.SignificanceThreshold)
}

// backfill rebuilds interests from saved items. Persistence failures are
// logged and the in-memory vector is still used for this request.
func (e *Engine) backfill(ctx context.Context, userID string, v *interest.Vector, saved []SavedItem, logger zerolog.Logger) {
	for i := range saved {
		v.Increment(e.taxonomy.NormalizeAll(saved[i].Genres)...)
		v.Increment(e.taxonomy.NormalizeAll(saved[i].Perspectives)...)
	}
	v.Trim(e.config.Interests.MaxLabels)
	e.backfills.Add(1)

	if err := e.store.SaveInterests(ctx, userID, v); err != nil {
		logger.Warn().Err(err).Msg("failed to persist backfilled interests")
	}

	logger.Info().
		Int("saved_items", len(saved)).
		Int("labels", v.Len()).
		Msg("backfilled interests from saved items")
}

type catalogResult struct {
	items []CatalogItem
	err   error
}

// selectCandidates queries the catalog (trending concurrently with the
// primary query) and returns the picks, how many came from trending, and the
// response source.
func (e *Engine) selectCandidates(
	ctx context.Context,
	v *interest.Vector,
	top []string,
	rng *rand.Rand,
	logger zerolog.Logger,
) ([]sampling.Candidate[CatalogItem], int, Source) {
	if len(top) == 0 {
		// Saved items carried no usable labels.
		e.fallbacks.Add(1)
		return e.fromFallback(v, rng), 0, SourceFallback
	}

	var trendingCh chan catalogResult
	if e.config.Trending.Enabled && e.catalog != nil {
		trendingCh = make(chan catalogResult, 1)
		go func() {
			items, err := e.callCatalog(ctx, func(ctx context.Context) ([]CatalogItem, error) {
				return e.catalog.QueryTrending(ctx, e.config.Trending.MinRating, e.config.Trending.Limit)
			})
			trendingCh <- catalogResult{items: items, err: err}
		}()
	}

	filter := e.buildFilter(top)
	items, err := e.callCatalog(ctx, func(ctx context.Context) ([]CatalogItem, error) {
		if e.catalog == nil {
			return nil, fmt.Errorf("%w: no catalog configured", ErrCatalogUnavailable)
		}
		return e.catalog.QueryByCategories(ctx, filter, e.config.Sampling.CandidateLimit)
	})
	if err != nil || len(items) == 0 {
		e.logCatalogFailure(logger, err)
		e.fallbacks.Add(1)
		return e.fromFallback(v, rng), 0, SourceFallback
	}

	picks := e.sample(items, v, rng)

	trending := 0
	if trendingCh != nil {
		res := <-trendingCh
		if res.err != nil {
			logger.Debug().Err(res.err).Msg("trending query failed, skipping mix-in")
		} else {
			picks, trending = e.mixTrending(picks, res.items, v, rng)
			if trending > 0 {
				e.trendingMixed.Add(1)
			}
		}
	}

	return picks, trending, SourceCatalog
}

// callCatalog runs fn under the catalog timeout. It returns when the deadline
// passes even if fn ignores its context, and converts panics into errors.
func (e *Engine) callCatalog(ctx context.Context, fn func(context.Context) ([]CatalogItem, error)) ([]CatalogItem, error) {
	cctx, cancel := context.WithTimeout(ctx, e.config.Limits.CatalogTimeout)
	defer cancel()

	ch := make(chan catalogResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- catalogResult{err: fmt.Errorf("%w: panic: %v", ErrCatalogUnavailable, r)}
			}
		}()
		items, err := fn(cctx)
		ch <- catalogResult{items: items, err: err}
	}()

	select {
	case res := <-ch:
		return res.items, res.err
	case <-cctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, cctx.Err())
	}
}

func (e *Engine) logCatalogFailure(logger zerolog.Logger, err error) {
	switch {
	case err == nil:
		logger.Info().Msg("catalog returned no candidates, using fallback")
	case errors.Is(err, ErrRateLimited):
		e.rateLimited.Add(1)
		logger.Info().Err(err).Msg("catalog rate limited, using fallback")
	default:
		logger.Warn().Err(err).Msg("catalog query failed, using fallback")
	}
}

// buildFilter routes labels to the genre or perspective side of the query.
func (e *Engine) buildFilter(labels []string) CategoryFilter {
	var f CategoryFilter
	for _, l := range labels {
		if e.taxonomy.IsPerspective(l) {
			f.Perspectives = append(f.Perspectives, l)
		} else {
			f.Genres = append(f.Genres, l)
		}
	}
	return f
}

func (e *Engine) candidates(items []CatalogItem, v *interest.Vector) []sampling.Candidate[CatalogItem] {
	return sampling.Build(items,
		func(it CatalogItem) string { return it.ID },
		func(it CatalogItem) float64 { return scoring.Score(v, it.Genres, it.Perspectives) },
		e.weighting,
	)
}

// sample shortlists the best-scoring candidates, draws ResultSize of them by
// weight and tops up from the full pool if draws collapsed on duplicates.
func (e *Engine) sample(items []CatalogItem, v *interest.Vector, rng *rand.Rand) []sampling.Candidate[CatalogItem] {
	k := e.config.Sampling.ResultSize
	pool := e.candidates(items, v)
	shortlist := sampling.TopByScore(pool, e.config.Sampling.ShortlistSize)
	picks := sampling.SampleWithoutReplacement(shortlist, k, rng)
	return sampling.TopUp(picks, pool, k)
}

// fromFallback samples from the whole fallback pool.
func (e *Engine) fromFallback(v *interest.Vector, rng *rand.Rand) []sampling.Candidate[CatalogItem] {
	k := e.config.Sampling.ResultSize
	pool := e.candidates(e.fallback, v)
	picks := sampling.SampleWithoutReplacement(pool, k, rng)
	return sampling.TopUp(picks, pool, k)
}

// mixTrending splices MinPicks..MaxPicks random trending items into picks.
// Free slots are filled first, then the lowest-scored picks are replaced, so
// the result never grows past ResultSize.
func (e *Engine) mixTrending(
	picks []sampling.Candidate[CatalogItem],
	trending []CatalogItem,
	v *interest.Vector,
	rng *rand.Rand,
) ([]sampling.Candidate[CatalogItem], int) {
	taken := make(map[string]struct{}, len(picks)+len(trending))
	for _, p := range picks {
		taken[p.ID] = struct{}{}
	}

	available := make([]CatalogItem, 0, len(trending))
	for _, it := range trending {
		if it.ID == "" {
			continue
		}
		if _, dup := taken[it.ID]; dup {
			continue
		}
		taken[it.ID] = struct{}{}
		available = append(available, it)
	}
	if len(available) == 0 {
		return picks, 0
	}

	lo, hi := e.config.Trending.MinPicks, e.config.Trending.MaxPicks
	n := lo
	if hi > lo {
		n += rng.Intn(hi - lo + 1)
	}
	if n > len(available) {
		n = len(available)
	}
	if n == 0 {
		return picks, 0
	}

	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	chosen := e.candidates(available[:n], v)

	// Replacement order: lowest score first.
	order := make([]int, len(picks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return picks[order[a]].Score < picks[order[b]].Score
	})

	k := e.config.Sampling.ResultSize
	out := make([]sampling.Candidate[CatalogItem], len(picks), max(k, len(picks)))
	copy(out, picks)

	mixed, replaced := 0, 0
	for _, c := range chosen {
		switch {
		case len(out) < k:
			out = append(out, c)
		case replaced < len(order):
			out[order[replaced]] = c
			replaced++
		default:
			return out, mixed
		}
		mixed++
	}
	return out, mixed
}

// finalize shuffles, attaches match percentages and orders by jittered match.
func (e *Engine) finalize(picks []sampling.Candidate[CatalogItem], rng *rand.Rand) []Recommendation {
	rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})

	items := make([]Recommendation, len(picks))
	for i := range picks {
		items[i] = toRecommendation(&picks[i].Value, e.match.Percentage(picks[i].Score))
	}

	scoring.JitterSort(items, func(r Recommendation) int { return r.MatchPercentage }, e.config.Match.Jitter, rng)
	return items
}

func toRecommendation(it *CatalogItem, match int) Recommendation {
	return Recommendation{
		ID:              it.ID,
		Name:            it.Name,
		Cover:           it.Cover,
		Summary:         it.Summary,
		Genres:          cloneLabels(it.Genres),
		Perspectives:    cloneLabels(it.Perspectives),
		MatchPercentage: match,
		RatingCount:     it.RatingCount,
	}
}

func cloneLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// requestRand derives an independent random source for one request so the
// shared source is locked only once.
func (e *Engine) requestRand() *rand.Rand {
	e.rngMu.Lock()
	seed := e.rng.Int63()
	e.rngMu.Unlock()
	return rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for recommendation sampling
}

// surface maps an internal failure to a caller-visible error.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) surface(err error, logger zerolog.Logger, msg string) error {
	switch {
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidInterests),
		errors.Is(err, ErrInvalidItem):
		return err
	}
	e.errorCount.Add(1)
	logger.Error().Err(err).Msg(msg)
	return ErrInternal
}

// RecordSave stores a saved game for the user and counts its labels into the
// interest vector. Saving the same item twice only counts once. It reports
// whether the item was new.
func (e *Engine) RecordSave(ctx context.Context, item SavedItem) (bool, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return false, ErrNotAuthenticated
	}
	if item.ItemID == "" {
		return false, fmt.Errorf("%w: item id is required", ErrInvalidItem)
	}
	logger := e.logger.With().Str("user_id", userID).Str("item_id", item.ItemID).Logger()

	item.Genres = e.taxonomy.NormalizeAll(item.Genres)
	item.Perspectives = e.taxonomy.NormalizeAll(item.Perspectives)
	if item.SavedAt.IsZero() {
		item.SavedAt = e.now()
	}

	added, err := e.store.AddSavedItem(ctx, userID, item)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, ErrUserNotFound
		}
		return false, e.surface(fmt.Errorf("add saved item: %w", err), logger, "record save failed")
	}
	if !added {
		logger.Debug().Msg("item already saved")
		return false, nil
	}

	if err := e.countSave(ctx, userID, item); err != nil {
		// Undo the save so a retry counts the labels.
		if rbErr := e.store.RemoveSavedItem(context.WithoutCancel(ctx), userID, item.ItemID); rbErr != nil {
			logger.Warn().Err(rbErr).Msg("rollback of saved item failed")
		}
		return false, e.surface(err, logger, "record save failed")
	}

	logger.Debug().
		Int("genres", len(item.Genres)).
		Int("perspectives", len(item.Perspectives)).
		Msg("recorded save")
	return true, nil
}

// countSave adds item's labels to the user's decayed vector and persists it.
func (e *Engine) countSave(ctx context.Context, userID string, item SavedItem) error {
	rec, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	v := rec.Interests
	if v == nil {
		v = interest.NewVector()
	}
	e.decayer.DecayTo(v, e.now())
	v.Increment(item.Genres...)
	v.Increment(item.Perspectives...)
	v.Trim(e.config.Interests.MaxLabels)

	if err := e.store.SaveInterests(ctx, userID, v); err != nil {
		return fmt.Errorf("save interests: %w", err)
	}
	return nil
}

// ReplaceInterests overwrites the user's vector with entries and resets its
// decay clock. Labels are normalized; weights must be finite and non-negative.
func (e *Engine) ReplaceInterests(ctx context.Context, entries []interest.Entry) (*interest.Vector, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	logger := e.logger.With().Str("user_id", userID).Logger()

	normalized := make([]interest.Entry, 0, len(entries))
	for _, en := range entries {
		if math.IsNaN(en.Weight) || math.IsInf(en.Weight, 0) || en.Weight < 0 {
			return nil, fmt.Errorf("%w: weight for %q must be a finite non-negative number", ErrInvalidInterests, en.Label)
		}
		label, ok := e.taxonomy.Normalize(en.Label)
		if !ok {
			return nil, fmt.Errorf("%w: unknown label %q", ErrInvalidInterests, en.Label)
		}
		normalized = append(normalized, interest.Entry{Label: label, Weight: en.Weight})
	}

	rec, err := e.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, e.surface(fmt.Errorf("load user: %w", err), logger, "replace interests failed")
	}
	v := rec.Interests
	if v == nil {
		v = interest.NewVector()
	}
	v.ReplaceAll(normalized, e.now())
	v.Trim(e.config.Interests.MaxLabels)

	if err := e.store.SaveInterests(ctx, userID, v); err != nil {
		return nil, e.surface(fmt.Errorf("save interests: %w", err), logger, "replace interests failed")
	}

	logger.Info().Int("labels", v.Len()).Msg("replaced interests")
	return v.Clone(), nil
}

// Interests returns the user's decayed interest vector.
func (e *Engine) Interests(ctx context.Context) (*interest.Vector, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	logger := e.logger.With().Str("user_id", userID).Logger()

	rec, err := e.loadUser(ctx, userID, logger)
	if err != nil {
		return nil, e.surface(err, logger, "load interests failed")
	}
	return rec.Interests.Clone(), nil
}

// SweepResult summarizes one decay sweep.
type SweepResult struct {
	Visited int `json:"visited"`
	Decayed int `json:"decayed"`
}

// SweepDecay applies decay to every stored user so idle vectors do not keep
// stale weights until their next request. It stops at the first store error
// or when ctx is done.
func (e *Engine) SweepDecay(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	ids, err := e.store.ListUserIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}

	now := e.now()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec, err := e.store.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return res, fmt.Errorf("load user %s: %w", id, err)
		}
		res.Visited++

		if rec.Interests == nil || !e.decayer.DecayTo(rec.Interests, now) {
			continue
		}
		if err := e.store.SaveInterests(ctx, id, rec.Interests); err != nil {
			return res, fmt.Errorf("save interests for %s: %w", id, err)
		}
		res.Decayed++
	}

	e.logger.Info().
		Int("visited", res.Visited).
		Int("decayed", res.Decayed).
		Msg("decay sweep complete")
	return res, nil
}
