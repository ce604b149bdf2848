// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gamematch/internal/metrics"
)

func newSweepCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Decay every stored interest vector once",
		Long: `Apply interest decay to every user in the store, the same pass the
server runs on its sweep schedule. Use it from an external scheduler when
the built-in sweep is disabled.`,
		Example: `  gamematch sweep
  gamematch sweep --timeout 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), cmd.OutOrStdout(), timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "Abort the sweep after this long")

	return cmd
}

func runSweep(ctx context.Context, out io.Writer, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := a.engine.SweepDecay(ctx)
	elapsed := time.Since(start)
	metrics.RecordSweep(res.Decayed, elapsed, err)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	_, err = fmt.Fprintf(out, "Visited %d users, decayed %d in %s\n",
		res.Visited, res.Decayed, elapsed.Round(time.Millisecond))
	return err
}
