// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

// Package main is the entry point for the gamematch CLI.
//
// gamematch serves personalized game recommendations built from each user's
// saved games and a decaying interest profile.
//
// # Commands
//
//	gamematch serve                     run the HTTP API under the supervisor tree
//	gamematch recommend --user <id>     print one recommendation response as JSON
//	gamematch sweep                     decay every stored interest vector once
//	gamematch token --user <id>         issue a bearer token for testing
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables
//   - Config file (--config, CONFIG_PATH, or config.yaml in the working directory)
//   - Built-in defaults
//
// # Example Usage
//
//	export AUTH_ALLOW_HEADER=true
//	export STORE_BACKEND=sqlite STORE_PATH=./data/gamematch.db
//	gamematch serve
//
// Production with JWT and the remote catalog:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export CATALOG_ENABLED=true CATALOG_CLIENT_ID=... CATALOG_TOKEN=...
//	gamematch serve
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gamematch/internal/config"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "gamematch",
		Short: "Personalized game recommendations",
		Long: `gamematch recommends games from a remote catalog based on the games a
user has saved. Interests decay over time, a local fallback catalog keeps
responses flowing when the catalog is down, and a few trending picks are
mixed into every response.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.ConfigPathEnvVar, configPath)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newTokenCmd())

	return rootCmd
}
