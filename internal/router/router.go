// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

// Package router turns a single "answer this conversation with model X"
// request into a best-effort request that tolerates individual model and
// provider outages: failed candidates are retried with ranked alternates,
// and chronically failing models are suspended for a cooldown window.
package router

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/crewgate-dev/crewgate/pkg/health"
)

// DefaultMaxRetries caps the candidate list (original plus fallbacks) when
// the caller does not set one.
const DefaultMaxRetries = 3

// maxComputedFallbacks caps the ranked fallback suggestions.
const maxComputedFallbacks = 3

// Adapters is the registry surface the router needs: configured clients and
// credential availability. *provider.Registry satisfies it.
type Adapters interface {
	Client(modelID string, opts provider.Options) (provider.Client, error)
	ModelUsable(modelID string) bool
}

// Router walks ranked candidate lists with per-model health tracking.
// Candidates are attempted strictly sequentially; there is no racing of
// providers.
type Router struct {
	catalog  *catalog.Catalog
	adapters Adapters
	health   *HealthStore
}

// New creates a Router. The HealthStore is injected so callers control its
// tunables and lifetime; independent routers may share or isolate health
// state.
func New(cat *catalog.Catalog, adapters Adapters, healthStore *HealthStore) *Router {
	return &Router{
		catalog:  cat,
		adapters: adapters,
		health:   healthStore,
	}
}

// Request describes one generation call.
type Request struct {
	// Model is the originally requested model id. Empty means the catalog
	// default.
	Model string
	// Messages is the conversation to answer.
	Messages []provider.Message
	// MaxRetries caps the total number of candidates attempted, the
	// original included. Zero means DefaultMaxRetries.
	MaxRetries int
	// FallbackModels overrides the computed fallback ranking when non-nil.
	FallbackModels []string
	// SystemPrompt is prepended ahead of any system messages present.
	SystemPrompt string
	// Temperature overrides the default of 0.7 when non-nil.
	Temperature *float32
	// MaxTokens caps the completion; zero means the model's catalog maximum.
	MaxTokens int
}

// Result reports which model actually served the request. Degradation is
// transparent: callers only notice a fallback by inspecting these fields.
type Result struct {
	Response     string `json:"response"`
	ModelUsed    string `json:"model_used"`
	FallbackUsed bool   `json:"fallback_used"`
}

// Generate attempts the requested model and, on failure, walks the fallback
// candidates in order. Individual provider failures are absorbed (logged and
// counted against the model's health); only total exhaustion or an unknown
// requested model surface as errors.
func (r *Router) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Messages) == 0 {
		return nil, cgerr.New(cgerr.CodeRouterRequestInvalid, "no messages in request")
	}
	if req.Model == "" {
		req.Model = r.catalog.DefaultID()
	}
	if !r.catalog.Has(req.Model) {
		return nil, cgerr.New(
			cgerr.CodeCatalogModelNotFound,
			"unknown model: "+req.Model,
			cgerr.FieldModel(req.Model),
		)
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	fallbacks := req.FallbackModels
	if fallbacks == nil {
		fallbacks = r.Fallbacks(req.Model)
	}

	candidates := append([]string{req.Model}, fallbacks...)
	if len(candidates) > maxRetries {
		candidates = candidates[:maxRetries]
	}

	opts := provider.Options{
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		SystemPrompt: req.SystemPrompt,
	}

	var lastErr error
	for i, candidate := range candidates {
		// The original model is attempted even when nominally unhealthy:
		// it is what the caller explicitly asked for. Cooldown skips do
		// not consume a retry slot's health.
		if i > 0 && r.health.InCooldown(candidate) {
			slog.Debug("skipping candidate in cooldown", "model", candidate)
			continue
		}

		client, err := r.adapters.Client(candidate, opts)
		if err != nil {
			// Misconfigured candidate (unknown id in a caller-supplied
			// list, missing credential). No invocation happened, so the
			// model's health is untouched.
			slog.Debug("no adapter for candidate, skipping", "model", candidate, "error", err)
			lastErr = err
			continue
		}

		resp, err := client.Generate(ctx, req.Messages)
		if err == nil {
			r.health.RecordSuccess(candidate)
			if candidate != req.Model {
				slog.Info("request served by fallback model",
					"requested", req.Model, "model", candidate)
			}
			return &Result{
				Response:     resp,
				ModelUsed:    candidate,
				FallbackUsed: candidate != req.Model,
			}, nil
		}

		r.health.RecordFailure(candidate)
		lastErr = err
		slog.Warn("model invocation failed, advancing to next candidate",
			"model", candidate,
			"failures", r.health.Failures(candidate),
			"error", err,
		)

		// A cancelled caller gets no further candidates; health state for
		// already-attempted models stays as recorded.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if lastErr != nil {
		return nil, cgerr.Wrap(lastErr, cgerr.CodeRouterAllExhausted,
			"all candidate models failed",
			cgerr.FieldModel(req.Model),
			cgerr.Field("candidates", len(candidates)),
		)
	}
	return nil, cgerr.New(cgerr.CodeRouterAllExhausted,
		"all candidate models skipped",
		cgerr.FieldModel(req.Model),
	)
}

// Fallbacks computes the ranked substitute list for a model:
//
//  1. models on the same provider, in catalog order (up to 2)
//  2. models in the same category on a different provider (up to 2 more)
//  3. the default model, if available
//  4. any remaining available models
//
// capped at three suggestions. "Available" for steps 3 and 4 means a usable
// credential and no active cooldown; steps 1 and 2 deliberately include
// unhealthy models, which the candidate walk skips at attempt time.
func (r *Router) Fallbacks(modelID string) []string {
	desc, err := r.catalog.Get(modelID)
	if err != nil {
		return nil
	}

	var ranked []string
	chosen := map[string]bool{modelID: true}
	add := func(id string) {
		if !chosen[id] {
			chosen[id] = true
			ranked = append(ranked, id)
		}
	}

	// 1. Same provider.
	sameProvider := 0
	for _, d := range r.catalog.Models() {
		if sameProvider == 2 {
			break
		}
		if d.Provider == desc.Provider && d.ID != modelID {
			add(d.ID)
			sameProvider++
		}
	}

	// 2. Same category, different provider.
	sameCategory := 0
	for _, d := range r.catalog.Models() {
		if sameCategory == 2 {
			break
		}
		if d.Category == desc.Category && d.Provider != desc.Provider && !chosen[d.ID] {
			add(d.ID)
			sameCategory++
		}
	}

	// 3. The default model.
	if def := r.catalog.DefaultID(); !chosen[def] && r.isAvailable(def) {
		add(def)
	}

	// 4. Remaining available models.
	for _, d := range r.catalog.Models() {
		if len(ranked) >= maxComputedFallbacks {
			break
		}
		if !chosen[d.ID] && r.isAvailable(d.ID) {
			add(d.ID)
		}
	}

	if len(ranked) > maxComputedFallbacks {
		ranked = ranked[:maxComputedFallbacks]
	}
	return ranked
}

// isAvailable folds credential presence and cooldown state into one
// predicate for fallback ranking.
func (r *Router) isAvailable(modelID string) bool {
	return r.adapters.ModelUsable(modelID) && !r.health.InCooldown(modelID)
}

// ProbeResult reports the outcome of a model availability probe. Probe
// failures are expected and reported here rather than as errors.
type ProbeResult struct {
	Available      bool   `json:"available"`
	Error          string `json:"error,omitempty"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

// probePrompt is the minimal generation request used to test a model.
const probePrompt = "Respond with OK"

// Probe issues a minimal generation against the model and updates its health
// record exactly like the main path: an invocation success resets the
// counter, an invocation failure increments it. The model counts as
// available when its reply contains "ok" (case-insensitive).
func (r *Router) Probe(ctx context.Context, modelID string) ProbeResult {
	if !r.catalog.Has(modelID) {
		return ProbeResult{Available: false, Error: "unknown model: " + modelID}
	}

	opts := provider.Options{
		MaxTokens: 10,
	}
	client, err := r.adapters.Client(modelID, opts)
	if err != nil {
		return ProbeResult{Available: false, Error: err.Error()}
	}

	start := time.Now()
	resp, err := client.Generate(ctx, []provider.Message{
		{Role: provider.MessageRoleUser, Content: probePrompt},
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		r.health.RecordFailure(modelID)
		return ProbeResult{Available: false, Error: err.Error(), ResponseTimeMs: elapsed}
	}

	r.health.RecordSuccess(modelID)
	return ProbeResult{
		Available:      strings.Contains(strings.ToLower(resp), "ok"),
		ResponseTimeMs: elapsed,
	}
}

// ModelStatus returns the health snapshot for one model.
func (r *Router) ModelStatus(modelID string) (health.Metrics, error) {
	if !r.catalog.Has(modelID) {
		return health.Metrics{}, cgerr.New(
			cgerr.CodeCatalogModelNotFound,
			"unknown model: "+modelID,
			cgerr.FieldModel(modelID),
		)
	}
	return r.health.Metrics(modelID), nil
}

// AllModelStatuses maps every catalog model to its health snapshot.
func (r *Router) AllModelStatuses() map[string]health.Metrics {
	out := make(map[string]health.Metrics)
	for _, d := range r.catalog.Models() {
		out[d.ID] = r.health.Metrics(d.ID)
	}
	return out
}

// ResetHealth clears all failure records.
func (r *Router) ResetHealth() {
	r.health.Reset()
}

// Models returns the catalog descriptors along with each model's current
// usability, for listing surfaces.
func (r *Router) Models() []ModelInfo {
	models := r.catalog.Models()
	out := make([]ModelInfo, 0, len(models))
	for _, d := range models {
		out = append(out, ModelInfo{
			Descriptor: d,
			Usable:     r.adapters.ModelUsable(d.ID),
			Default:    d.ID == r.catalog.DefaultID(),
		})
	}
	return out
}

// ModelInfo pairs a catalog descriptor with derived availability.
type ModelInfo struct {
	catalog.Descriptor
	Usable  bool `json:"usable"`
	Default bool `json:"default"`
}
