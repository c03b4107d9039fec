// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/secrets"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// Config is the top-level Crewgate configuration.
type Config struct {
	Networking NetworkingConfig          `mapstructure:"networking"`
	Providers  map[string]ProviderConfig `mapstructure:"providers"`
	Models     ModelsConfig              `mapstructure:"models"`
	Health     HealthConfig              `mapstructure:"health"`
	Logging    LoggingConfig             `mapstructure:"logging"`
}

// NetworkingConfig controls how the gateway listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ProviderConfig holds the credential and endpoint override for one
// provider. APIKey may be a literal, a keyring:// URI (resolved at load),
// or empty when the conventional environment variable supplies it.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// ModelsConfig controls model selection and fallback.
type ModelsConfig struct {
	Default    string `mapstructure:"default"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// HealthConfig tunes failure-based model suspension.
type HealthConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envCredentials maps provider ids to the conventional environment
// variables their vendors document, bound explicitly because AutomaticEnv
// only covers the CREWGATE_ prefix.
var envCredentials = map[string]string{
	catalog.ProviderAnthropic:  "ANTHROPIC_API_KEY",
	catalog.ProviderOpenAI:     "OPENAI_API_KEY",
	catalog.ProviderGoogle:     "GEMINI_API_KEY",
	catalog.ProviderGroq:       "GROQ_API_KEY",
	catalog.ProviderMistral:    "MISTRAL_API_KEY",
	catalog.ProviderDeepSeek:   "DEEPSEEK_API_KEY",
	catalog.ProviderTogether:   "TOGETHER_API_KEY",
	catalog.ProviderOpenRouter: "OPENROUTER_API_KEY",
	catalog.ProviderXAI:        "XAI_API_KEY",
	catalog.ProviderCerebras:   "CEREBRAS_API_KEY",
}

// Load reads configuration from path (optional) with environment overrides
// (CREWGATE_ prefix plus the conventional per-provider API key variables)
// and resolves keyring:// secret URIs through store (optional).
func Load(path string, store secrets.Store) (*Config, error) {
	v := viper.New()

	v.SetDefault("networking.listen", "127.0.0.1:8790")
	v.SetDefault("networking.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("models.default", catalog.DefaultModelID)
	v.SetDefault("models.max_retries", 3)
	v.SetDefault("health.failure_threshold", 3)
	v.SetDefault("health.cooldown", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("providers.ollama.endpoint", "")

	v.SetEnvPrefix("CREWGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for providerID, envVar := range envCredentials {
		if err := v.BindEnv("providers."+providerID+".api_key", envVar); err != nil {
			return nil, cgerr.Wrapf(err, cgerr.CodeConfigLoadReadFailure, "binding %s", envVar)
		}
	}
	if err := v.BindEnv("providers.ollama.endpoint", "OLLAMA_BASE_URL"); err != nil {
		return nil, cgerr.Wrapf(err, cgerr.CodeConfigLoadReadFailure, "binding OLLAMA_BASE_URL")
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, cgerr.Errorf(cgerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	if store != nil {
		secrets.ResolveViperSecrets(v, store)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors, collecting every
// issue rather than stopping at the first.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNetworking()...)
	errs = append(errs, c.validateModels()...)
	errs = append(errs, c.validateHealth()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateNetworking() []error {
	var errs []error

	if c.Networking.Listen == "" {
		errs = append(errs, cgerr.New(cgerr.CodeConfigValidateInvalidValue,
			"config: networking.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: networking.listen must be a host:port address, got %q: %w",
			c.Networking.Listen, err,
		))
		return errs
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be a number, got %q", portStr))
	} else if port < 1 || port > 65535 {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be between 1 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateModels() []error {
	var errs []error

	if c.Models.Default == "" {
		errs = append(errs, cgerr.New(cgerr.CodeConfigValidateInvalidValue,
			"config: models.default must not be empty"))
	}

	if c.Models.MaxRetries < 1 {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: models.max_retries must be at least 1, got %d", c.Models.MaxRetries))
	}

	return errs
}

func (c *Config) validateHealth() []error {
	var errs []error

	if c.Health.FailureThreshold < 1 {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: health.failure_threshold must be at least 1, got %d", c.Health.FailureThreshold))
	}

	if c.Health.Cooldown <= 0 {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: health.cooldown must be positive, got %s", c.Health.Cooldown))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, cgerr.Errorf(cgerr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [text, json], got %q", c.Logging.Format))
	}

	return errs
}
