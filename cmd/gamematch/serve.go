// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gamematch/internal/api"
	"github.com/tomtom215/gamematch/internal/auth"
	"github.com/tomtom215/gamematch/internal/logging"
	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/middleware"
	"github.com/tomtom215/gamematch/internal/store"
	"github.com/tomtom215/gamematch/internal/supervisor"
	"github.com/tomtom215/gamematch/internal/supervisor/services"
)

const (
	perfWindow        = 1000
	perfSlowThreshold = time.Second
)

func newServeCmd() *cobra.Command {
	var sweepOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the recommendation API and its background jobs under a supervisor
tree. SIGINT or SIGTERM triggers a graceful shutdown.`,
		Example: `  gamematch serve
  gamematch serve --config ./config.yaml
  SWEEP_ENABLED=true gamematch serve --sweep-on-start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), sweepOnStart)
		},
	}

	cmd.Flags().BoolVar(&sweepOnStart, "sweep-on-start", false, "Run one decay sweep before the first scheduled run")

	return cmd
}

func runServe(parent context.Context, sweepOnStart bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Info().Str("version", version).Msg("Starting gamematch with supervisor tree")
	metrics.SetAppInfo(version, runtime.Version())

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows every origin; set CORS_ORIGINS in production")
	}
	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	authn, err := auth.NewAuthenticator(&cfg.Auth, logging.WithComponent("auth"),
		auth.WithUnauthorizedHandler(api.Unauthorized))
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}
	if cfg.Auth.AllowHeader {
		logging.Warn().Msg("X-User-ID header identity is enabled; only run behind a trusted proxy")
	}

	perf := middleware.NewPerformanceMonitor(perfWindow, perfSlowThreshold)
	handler, err := api.NewHandler(api.HandlerConfig{
		Engine:       a.engine,
		Users:        a.store,
		CatalogState: a.catalogState(),
		Perf:         perf,
		Version:      version,
		StoreBackend: cfg.Store.Backend,
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}
	router := api.NewRouter(handler, authn,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)), perf)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Maintenance layer
	if a.catalog != nil {
		tree.AddMaintenanceService(services.NewCacheCleanupService(a.catalog, cfg.Catalog.CacheTTL))
		logging.Info().Msg("Catalog cache cleanup added to supervisor tree")
	}
	if gc, ok := store.AsGarbageCollector(a.store); ok {
		tree.AddMaintenanceService(services.NewStoreGCService(gc, 0, logging.WithComponent("store")))
		logging.Info().Msg("Store garbage collection added to supervisor tree")
	}
	if cfg.Sweep.Enabled {
		sweep, err := services.NewDecaySweepService(a.engine, services.DecaySweepConfig{
			Schedule:   cfg.Sweep.Schedule,
			RunOnStart: sweepOnStart,
		}, logging.WithComponent("sweep"))
		if err != nil {
			return err
		}
		tree.AddMaintenanceService(sweep)
		logging.Info().Str("schedule", cfg.Sweep.Schedule).Msg("Decay sweep added to supervisor tree")
	} else {
		logging.Info().Msg("Decay sweep disabled (SWEEP_ENABLED=false)")
	}

	// API layer
	server := services.NewHTTPServer(&cfg.Server, router.SetupChi())
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Server stopped gracefully")
	return nil
}
