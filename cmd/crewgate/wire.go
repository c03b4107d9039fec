// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/config"
	"github.com/crewgate-dev/crewgate/internal/provider"
	"github.com/crewgate-dev/crewgate/internal/router"
	"github.com/crewgate-dev/crewgate/internal/server"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"

	// Adapter factories self-register on import.
	_ "github.com/crewgate-dev/crewgate/internal/provider/anthropic"
	_ "github.com/crewgate-dev/crewgate/internal/provider/google"
	_ "github.com/crewgate-dev/crewgate/internal/provider/ollama"
	_ "github.com/crewgate-dev/crewgate/internal/provider/openai"
	_ "github.com/crewgate-dev/crewgate/internal/provider/openaicompat"
)

// wireGateway builds the catalog, registry, health tracking, router, and
// HTTP server from loaded configuration.
func wireGateway(cfg *config.Config) (*server.Server, error) {
	cat, err := catalog.Builtin().WithDefault(cfg.Models.Default)
	if err != nil {
		return nil, cgerr.Wrapf(err, cgerr.CodeCLISetupFailure, "selecting default model %q", cfg.Models.Default)
	}

	registry := provider.NewRegistry(cat, cfg.Credentials())

	healthStore, err := router.NewHealthStore(cfg.Health.FailureThreshold, cfg.Health.Cooldown)
	if err != nil {
		return nil, cgerr.Wrap(err, cgerr.CodeCLISetupFailure, "configuring health tracking")
	}

	rt := router.New(cat, registry, healthStore)

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Networking.Listen,
		CORSOrigins: cfg.Networking.CORSOrigins,
	})
	if err != nil {
		return nil, cgerr.Wrap(err, cgerr.CodeCLISetupFailure, "creating server")
	}
	srv.RegisterGateway(rt)

	return srv, nil
}
