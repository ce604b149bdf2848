// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gamematch/internal/metrics"
	"github.com/tomtom215/gamematch/internal/recommend"
)

// Sweeper decays every stored interest vector. Satisfied by *recommend.Engine.
type Sweeper interface {
	SweepDecay(ctx context.Context) (recommend.SweepResult, error)
}

// DecaySweepConfig configures the sweep schedule.
type DecaySweepConfig struct {
	// Schedule is a standard 5-field cron expression or a descriptor such
	// as "@daily" or "@every 6h".
	Schedule string

	// RunOnStart sweeps once before the first scheduled run.
	RunOnStart bool

	// Timeout bounds a single sweep. Default: 30m.
	Timeout time.Duration
}

// DecaySweepService runs the interest decay sweep on a cron schedule.
// Overlapping runs are skipped.
type DecaySweepService struct {
	sweeper  Sweeper
	schedule cron.Schedule
	config   DecaySweepConfig
	logger   zerolog.Logger
	name     string
}

// NewDecaySweepService validates the schedule and creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDecaySweepService(sweeper Sweeper, cfg DecaySweepConfig, logger zerolog.Logger) (*DecaySweepService, error) {
	if sweeper == nil {
		return nil, fmt.Errorf("decay sweep: sweeper is required")
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("decay sweep: invalid schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &DecaySweepService{
		sweeper:  sweeper,
		schedule: schedule,
		config:   cfg,
		logger:   logger.With().Str("service", "decay-sweep").Logger(),
		name:     "decay-sweep",
	}, nil
}

// Serve implements suture.Service. It waits for an in-flight sweep to
// finish before returning.
func (s *DecaySweepService) Serve(ctx context.Context) error {
	cronLogger := cron.PrintfLogger(&s.logger)
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))

	if s.config.RunOnStart {
		s.RunOnce(ctx)
	}

	c.Start()
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Time("next_run", s.schedule.Next(time.Now())).
		Msg("decay sweep scheduled")

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info().Msg("decay sweep stopped")
	return ctx.Err()
}

// RunOnce performs a single sweep and records it.
func (s *DecaySweepService) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := s.sweeper.SweepDecay(sweepCtx)
	elapsed := time.Since(start)
	metrics.RecordSweep(res.Decayed, elapsed, err)

	if err != nil {
		s.logger.Warn().Err(err).
			Int("visited", res.Visited).
			Int("decayed", res.Decayed).
			Msg("decay sweep failed")
		return
	}
	s.logger.Info().
		Int("visited", res.Visited).
		Int("decayed", res.Decayed).
		Dur("duration", elapsed).
		Msg("decay sweep complete")
}

// String implements fmt.Stringer for suture's logs.
func (s *DecaySweepService) String() string {
	return s.name
}
