// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

/*
Package services provides suture.Service wrappers for gamematch components.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

Decay Sweep (DecaySweepService):
  - Runs Engine.SweepDecay on a robfig/cron schedule
  - Skips a run while the previous one is still going
  - Records every run in the sweep metrics

Cache Cleanup (CacheCleanupService):
  - Evicts expired catalog cache entries on an interval

Store GC (StoreGCService):
  - Runs Badger value log garbage collection on an interval

All wrappers return ctx.Err() on shutdown so suture does not count a clean
stop as a failure.
*/
package services
