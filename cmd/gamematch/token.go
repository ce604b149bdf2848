// Gamematch - Personalized Game Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamematch

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gamematch/internal/auth"
	"github.com/tomtom215/gamematch/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		Long: `Sign an HS256 bearer token with JWT_SECRET for local testing. The token
is accepted by the API's Authorization header.`,
		Example: `  gamematch token --user alice
  gamematch token --user alice --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runToken(cmd.OutOrStdout(), &cfg.Auth, userID, ttl)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID to place in the subject claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime (0 for no expiry)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runToken(out io.Writer, cfg *config.AuthConfig, userID string, ttl time.Duration) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if ttl < 0 {
		return fmt.Errorf("ttl must not be negative, got %s", ttl)
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return err
	}
	token, err := verifier.Issue(userID, ttl)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
