// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package server

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crewgate-dev/crewgate/internal/provider"
	"github.com/crewgate-dev/crewgate/internal/router"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/crewgate-dev/crewgate/pkg/health"
)

// Gateway is the routing surface the HTTP layer depends on.
// *router.Router satisfies it; tests substitute a stub.
type Gateway interface {
	Generate(ctx context.Context, req router.Request) (*router.Result, error)
	Models() []router.ModelInfo
	ModelStatus(modelID string) (health.Metrics, error)
	AllModelStatuses() map[string]health.Metrics
	Fallbacks(modelID string) []string
	Probe(ctx context.Context, modelID string) router.ProbeResult
	ResetHealth()
}

// RegisterGateway sets the gateway dependency and registers the REST routes.
func (s *Server) RegisterGateway(gw Gateway) {
	s.gw = gw
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "generate",
		Method:      http.MethodPost,
		Path:        "/api/v1/generate",
		Summary:     "Generate a completion with fallback",
		Tags:        []string{"generation"},
	}, s.handleGenerate)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-models",
		Method:      http.MethodGet,
		Path:        "/api/v1/models",
		Summary:     "List catalog models",
		Tags:        []string{"models"},
	}, s.handleListModels)

	huma.Register(s.api, huma.Operation{
		OperationID: "all-model-statuses",
		Method:      http.MethodGet,
		Path:        "/api/v1/models/status",
		Summary:     "Health status of every model",
		Tags:        []string{"models"},
	}, s.handleAllStatuses)

	huma.Register(s.api, huma.Operation{
		OperationID: "model-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/models/{id}/status",
		Summary:     "Health status of one model",
		Tags:        []string{"models"},
	}, s.handleModelStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "probe-model",
		Method:      http.MethodPost,
		Path:        "/api/v1/models/{id}/probe",
		Summary:     "Probe a model with a minimal generation",
		Tags:        []string{"models"},
	}, s.handleProbe)

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-health",
		Method:      http.MethodPost,
		Path:        "/api/v1/health/reset",
		Summary:     "Clear all model failure records",
		Tags:        []string{"system"},
	}, s.handleResetHealth)
}

// apiError converts a routing error into a huma status error using the
// error code taxonomy.
func apiError(err error) error {
	return huma.NewError(cgerr.HTTPStatus(err), err.Error())
}

// --- Request/Response types ---

type chatMessage struct {
	Role    string `json:"role" enum:"system,user,assistant" doc:"Message author role"`
	Content string `json:"content" doc:"Message text"`
}

type generateInput struct {
	Body struct {
		Model          string        `json:"model,omitempty" doc:"Model id; the configured default when empty"`
		Messages       []chatMessage `json:"messages" minItems:"1" doc:"Conversation to answer"`
		SystemPrompt   string        `json:"system_prompt,omitempty" doc:"Prepended system prompt"`
		Temperature    *float32      `json:"temperature,omitempty" minimum:"0" maximum:"2" doc:"Sampling temperature"`
		MaxTokens      int           `json:"max_tokens,omitempty" minimum:"0" doc:"Completion token cap; model maximum when 0"`
		MaxRetries     int           `json:"max_retries,omitempty" minimum:"0" doc:"Total candidates attempted; default 3"`
		FallbackModels []string      `json:"fallback_models,omitempty" doc:"Explicit fallback ranking; computed when absent"`
	}
}

type generateOutput struct {
	Body router.Result
}

type modelsOutput struct {
	Body struct {
		Models []router.ModelInfo `json:"models"`
	}
}

type modelStatusEntry struct {
	Model string `json:"model"`
	health.Metrics
}

type allStatusesOutput struct {
	Body struct {
		Models []modelStatusEntry `json:"models"`
	}
}

type modelIDInput struct {
	ID string `path:"id" doc:"Model id"`
}

type modelStatusOutput struct {
	Body struct {
		Model string `json:"model"`
		health.Metrics
		Fallbacks []string `json:"fallbacks"`
	}
}

type probeOutput struct {
	Body router.ProbeResult
}

type resetHealthOutput struct {
	Body struct {
		Status string `json:"status" example:"reset"`
	}
}

// --- Handlers ---

func (s *Server) handleGenerate(ctx context.Context, input *generateInput) (*generateOutput, error) {
	msgs := make([]provider.Message, 0, len(input.Body.Messages))
	for _, m := range input.Body.Messages {
		msgs = append(msgs, provider.Message{
			Role:    provider.MessageRole(m.Role),
			Content: m.Content,
		})
	}

	res, err := s.gw.Generate(ctx, router.Request{
		Model:          input.Body.Model,
		Messages:       msgs,
		SystemPrompt:   input.Body.SystemPrompt,
		Temperature:    input.Body.Temperature,
		MaxTokens:      input.Body.MaxTokens,
		MaxRetries:     input.Body.MaxRetries,
		FallbackModels: input.Body.FallbackModels,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &generateOutput{Body: *res}, nil
}

func (s *Server) handleListModels(_ context.Context, _ *struct{}) (*modelsOutput, error) {
	out := &modelsOutput{}
	out.Body.Models = s.gw.Models()
	return out, nil
}

func (s *Server) handleAllStatuses(_ context.Context, _ *struct{}) (*allStatusesOutput, error) {
	statuses := s.gw.AllModelStatuses()

	entries := make([]modelStatusEntry, 0, len(statuses))
	for model, m := range statuses {
		entries = append(entries, modelStatusEntry{Model: model, Metrics: m})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })

	out := &allStatusesOutput{}
	out.Body.Models = entries
	return out, nil
}

func (s *Server) handleModelStatus(_ context.Context, input *modelIDInput) (*modelStatusOutput, error) {
	m, err := s.gw.ModelStatus(input.ID)
	if err != nil {
		return nil, apiError(err)
	}

	out := &modelStatusOutput{}
	out.Body.Model = input.ID
	out.Body.Metrics = m
	out.Body.Fallbacks = s.gw.Fallbacks(input.ID)
	return out, nil
}

func (s *Server) handleProbe(ctx context.Context, input *modelIDInput) (*probeOutput, error) {
	return &probeOutput{Body: s.gw.Probe(ctx, input.ID)}, nil
}

func (s *Server) handleResetHealth(_ context.Context, _ *struct{}) (*resetHealthOutput, error) {
	s.gw.ResetHealth()
	out := &resetHealthOutput{}
	out.Body.Status = "reset"
	return out, nil
}
