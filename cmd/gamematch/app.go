// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/catalog"
	"github.com/tomtom215/gamematch/internal/config"
	"github.com/tomtom215/gamematch/internal/logging"
	"github.com/tomtom215/gamematch/internal/recommend"
	"github.com/tomtom215/gamematch/internal/recommend/taxonomy"
	"github.com/tomtom215/gamematch/internal/store"
)

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	store   store.Store
	catalog *catalog.Client // nil when the remote catalog is disabled
	engine  *recommend.Engine
}

// loadConfig loads configuration and configures the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// newApp opens the store, builds the catalog client and wires the engine.
// Callers must Close the returned app.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.Logger()

	tax, err := taxonomy.New(taxonomy.GameCategories, cfg.Recommend.StrictLabels)
	if err != nil {
		return nil, fmt.Errorf("build taxonomy: %w", err)
	}

	st, err := store.Open(ctx, &cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, store: st}

	// A nil *catalog.Client must not reach the engine as a non-nil interface.
	var source recommend.CatalogSource
	if cfg.Catalog.Enabled {
		client, err := catalog.New(&cfg.Catalog, tax, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create catalog client: %w", err)
		}
		a.catalog = client
		source = client
		logger.Info().Str("base_url", cfg.Catalog.BaseURL).Msg("Remote catalog enabled")
	} else {
		logger.Info().Msg("Remote catalog disabled, serving from the fallback catalog")
	}

	opts := []recommend.Option{recommend.WithTaxonomy(tax)}
	if cfg.Catalog.FallbackPath != "" {
		items, err := recommend.LoadFallbackCatalog(cfg.Catalog.FallbackPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load fallback catalog: %w", err)
		}
		opts = append(opts, recommend.WithFallbackCatalog(items))
		logger.Info().
			Str("path", cfg.Catalog.FallbackPath).
			Int("items", len(items)).
			Msg("Fallback catalog loaded")
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), st, source, logger, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = engine
	return a, nil
}

// catalogState reports the breaker state, or nil when the catalog is off.
func (a *app) catalogState() func() string {
	if a.catalog == nil {
		return nil
	}
	return a.catalog.State
}

// Close releases the store.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Error closing user store")
	}
}
