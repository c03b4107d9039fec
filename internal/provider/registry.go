// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package provider

import (
	"fmt"
	"sync"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// defaultTemperature applies when the caller does not set one.
const defaultTemperature float32 = 0.7

// Registry maps model ids to configured adapter Clients. Clients are cached
// by (model id, options) so repeated calls with identical configuration reuse
// the same handle. The Registry performs no retries; failure policy lives in
// the router.
type Registry struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	creds     CredentialSource
	factories map[string]Factory
	cache     map[string]Client
}

// NewRegistry creates a Registry over the given catalog and credential
// source, snapshotting the factory table registered by adapter packages.
func NewRegistry(cat *catalog.Catalog, creds CredentialSource) *Registry {
	return &Registry{
		catalog:   cat,
		creds:     creds,
		factories: registeredFactories(),
		cache:     make(map[string]Client),
	}
}

// RegisterFactory installs or replaces the factory for a provider id on this
// Registry instance only.
func (r *Registry) RegisterFactory(providerID string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[providerID] = f
}

// Client returns a ready-to-invoke handle for the model, building and caching
// one when no identically configured handle exists yet.
func (r *Registry) Client(modelID string, opts Options) (Client, error) {
	desc, err := r.catalog.Get(modelID)
	if err != nil {
		return nil, err
	}

	opts = normalize(desc, opts)
	key := cacheKey(modelID, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[key]; ok {
		return c, nil
	}

	factory, ok := r.factories[desc.Provider]
	if !ok {
		return nil, cgerr.New(
			cgerr.CodeProviderFactoryNotFound,
			"no adapter registered for provider: "+desc.Provider,
			cgerr.FieldProvider(desc.Provider),
		)
	}

	c, err := factory(desc, opts, r.creds)
	if err != nil {
		return nil, cgerr.Wrap(err, cgerr.CodeProviderRequestInvalid,
			"building adapter for "+modelID,
			cgerr.FieldModel(modelID),
			cgerr.FieldProvider(desc.Provider),
		)
	}

	r.cache[key] = c
	return c, nil
}

// ClearCache drops all cached adapter handles.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]Client)
}

// ModelUsable reports whether the model's provider is currently usable:
// either the model needs no credential, or a real (non-placeholder)
// credential is configured.
func (r *Registry) ModelUsable(modelID string) bool {
	desc, err := r.catalog.Get(modelID)
	if err != nil {
		return false
	}
	if !desc.RequiresCredential {
		return true
	}

	key, ok := r.creds.APIKey(desc.Provider)
	return ok && !IsPlaceholder(key)
}

// normalize applies option defaults from the descriptor: temperature 0.7,
// max tokens capped at the catalog maximum.
func normalize(desc catalog.Descriptor, opts Options) Options {
	if opts.Temperature == nil {
		t := defaultTemperature
		opts.Temperature = &t
	}
	if opts.MaxTokens <= 0 || opts.MaxTokens > desc.MaxTokens {
		opts.MaxTokens = desc.MaxTokens
	}
	return opts
}

// cacheKey serializes the normalized options into a stable composite key.
func cacheKey(modelID string, opts Options) string {
	return fmt.Sprintf("%s|t=%.3f|m=%d|s=%t|p=%s",
		modelID, *opts.Temperature, opts.MaxTokens, opts.Stream, opts.SystemPrompt)
}
