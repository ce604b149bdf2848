// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/gamematch/internal/recommend"
)

func newRecommendCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:     "recommend",
		Aliases: []string{"rec"},
		Short:   "Print recommendations for a user",
		Long: `Run one recommendation request against the configured store and
catalog and print the response as JSON. The user must already exist.`,
		Example: `  gamematch recommend --user alice
  STORE_BACKEND=sqlite STORE_PATH=./gamematch.db gamematch rec -u alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), userID)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID to recommend for")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runRecommend(ctx context.Context, out io.Writer, userID string) error {
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

	resp, err := a.engine.Recommend(recommend.WithUserID(ctx, userID))
	if err != nil {
		return fmt.Errorf("recommend for %q: %w", userID, err)
	}
	return writeJSON(out, resp)
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
