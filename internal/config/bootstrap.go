// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package config

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

//go:embed crewgate.yaml.default
var DefaultConfigYAML []byte

// DefaultConfigPath returns ~/.config/crewgate/crewgate.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", cgerr.Errorf(cgerr.CodeConfigLoadReadFailure, "resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "crewgate", "crewgate.yaml"), nil
}

// Bootstrap writes the commented default config to the default path if no
// file exists there yet. Returns the path written, or empty when the file
// already existed or writing failed; failures are logged, not fatal.
func Bootstrap() string {
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		slog.Debug("skipping config bootstrap", "error", err)
		return ""
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return ""
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		slog.Debug("skipping config bootstrap: cannot create directory", "error", err)
		return ""
	}

	if err := os.WriteFile(cfgPath, DefaultConfigYAML, 0o600); err != nil {
		slog.Debug("skipping config bootstrap: cannot write config", "path", cfgPath, "error", err)
		return ""
	}

	slog.Info("created default config", "path", cfgPath)
	return cfgPath
}
