// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package supervisor runs gamematch's long-lived services under suture v4.

The tree has two layers:

	RootSupervisor ("gamematch")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── DecaySweepService (if SWEEP_ENABLED)
	│   ├── CacheCleanupService (if CATALOG_ENABLED)
	│   └── StoreGCService (badger backend only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog, which takes the slog bridge from internal/logging.

# Usage

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
