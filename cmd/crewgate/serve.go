// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crewgate-dev/crewgate/internal/config"
	"github.com/crewgate-dev/crewgate/internal/secrets"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the crewgate gateway",
		Long:  "Load configuration, wire the provider registry and fallback router, and serve the HTTP API.",
		RunE:  runServe,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = discoverConfigPath()
	}

	cfg, err := config.Load(cfgPath, secrets.NewKeyringStore())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Networking.Listen = listen
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	setupLogging(cfg.Logging)

	gw, err := wireGateway(cfg)
	if err != nil {
		return fmt.Errorf("wiring gateway: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting crewgate", "listen", cfg.Networking.Listen, "default_model", cfg.Models.Default)
	return gw.Start(ctx)
}

// discoverConfigPath looks for crewgate.yaml in the working directory and
// the user config directory, bootstrapping a commented default when neither
// exists. Empty means run on defaults and environment alone.
func discoverConfigPath() string {
	if _, err := os.Stat("crewgate.yaml"); err == nil {
		return "crewgate.yaml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "crewgate", "crewgate.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return config.Bootstrap()
}

func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
