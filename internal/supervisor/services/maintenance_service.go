// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheCleaner evicts expired entries until ctx is done. Satisfied by
// *catalog.Client.
type CacheCleaner interface {
	RunCacheCleanup(ctx context.Context, interval time.Duration)
}

// CacheCleanupService runs the catalog cache cleanup loop.
type CacheCleanupService struct {
	cleaner  CacheCleaner
	interval time.Duration
	name     string
}

// NewCacheCleanupService creates the service. A non-positive interval means 1m.
func NewCacheCleanupService(cleaner CacheCleaner, interval time.Duration) *CacheCleanupService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheCleanupService{cleaner: cleaner, interval: interval, name: "catalog-cache-cleanup"}
}

// Serve implements suture.Service.
func (s *CacheCleanupService) Serve(ctx context.Context) error {
	s.cleaner.RunCacheCleanup(ctx, s.interval)
	return ctx.Err()
}

func (s *CacheCleanupService) String() string {
	return s.name
}

// GarbageCollector reclaims store space. Satisfied by *store.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService runs store garbage collection on an interval. Failures are
// logged and retried on the next tick.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewStoreGCService creates the service. A non-positive interval means 10m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		gc:       gc,
		interval: interval,
		logger:   logger.With().Str("service", "store-gc").Logger(),
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("store gc failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("store gc complete")
		}
	}
}

func (s *StoreGCService) String() string {
	return s.name
}
