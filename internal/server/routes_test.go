// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewgate-dev/crewgate/internal/router"
	"github.com/crewgate-dev/crewgate/internal/server"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/crewgate-dev/crewgate/pkg/health"
)

// stubGateway serves canned routing results keyed by model id.
type stubGateway struct {
	generateErr error
	lastReq     router.Request
	resets      int
}

func (g *stubGateway) Generate(_ context.Context, req router.Request) (*router.Result, error) {
	g.lastReq = req
	if g.generateErr != nil {
		return nil, g.generateErr
	}
	model := req.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &router.Result{Response: "pong", ModelUsed: model}, nil
}

func (g *stubGateway) Models() []router.ModelInfo {
	return []router.ModelInfo{
		{Usable: true, Default: true},
		{Usable: false},
	}
}

func (g *stubGateway) ModelStatus(modelID string) (health.Metrics, error) {
	if modelID == "unknown-model" {
		return health.Metrics{}, cgerr.New(cgerr.CodeCatalogModelNotFound,
			"unknown model: "+modelID, cgerr.FieldModel(modelID))
	}
	return health.Metrics{State: health.StateDegraded, ConsecutiveFailures: 2}, nil
}

func (g *stubGateway) AllModelStatuses() map[string]health.Metrics {
	return map[string]health.Metrics{
		"claude-sonnet-4-5": {State: health.StateHealthy},
		"gpt-4.1":           {State: health.StateDegraded, ConsecutiveFailures: 1},
	}
}

func (g *stubGateway) Fallbacks(string) []string {
	return []string{"claude-haiku-4-5", "gpt-4.1"}
}

func (g *stubGateway) Probe(_ context.Context, modelID string) router.ProbeResult {
	if modelID == "unknown-model" {
		return router.ProbeResult{Available: false, Error: "unknown model: " + modelID}
	}
	return router.ProbeResult{Available: true, ResponseTimeMs: 42}
}

func (g *stubGateway) ResetHealth() { g.resets++ }

func newTestServer(t *testing.T) (*server.Server, *stubGateway) {
	t.Helper()
	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"})
	require.NoError(t, err)
	gw := &stubGateway{}
	srv.RegisterGateway(gw)
	return srv, gw
}

func doJSON(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutesHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestRoutesGenerate(t *testing.T) {
	srv, gw := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/generate", `{
		"model": "gpt-4.1",
		"messages": [{"role": "user", "content": "ping"}],
		"max_retries": 2
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp router.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Response)
	assert.Equal(t, "gpt-4.1", resp.ModelUsed)

	assert.Equal(t, "gpt-4.1", gw.lastReq.Model)
	assert.Equal(t, 2, gw.lastReq.MaxRetries)
	require.Len(t, gw.lastReq.Messages, 1)
	assert.Equal(t, "ping", gw.lastReq.Messages[0].Content)
}

func TestRoutesGenerateRejectsEmptyMessages(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/generate", `{"messages": []}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRoutesGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown model", cgerr.New(cgerr.CodeCatalogModelNotFound, "unknown model"), http.StatusNotFound},
		{"all exhausted", cgerr.New(cgerr.CodeRouterAllExhausted, "all candidate models failed"), http.StatusBadGateway},
		{"invalid request", cgerr.New(cgerr.CodeRouterRequestInvalid, "no messages"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, gw := newTestServer(t)
			gw.generateErr = tt.err

			w := doJSON(t, srv, http.MethodPost, "/api/v1/generate",
				`{"messages": [{"role": "user", "content": "ping"}]}`)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRoutesListModels(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/models", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Models []router.ModelInfo `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Models, 2)
}

func TestRoutesAllModelStatuses(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/models/status", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Models []struct {
			Model string       `json:"model"`
			State health.State `json:"state"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Models, 2)
	// Sorted by model id for stable output.
	assert.Equal(t, "claude-sonnet-4-5", resp.Models[0].Model)
	assert.Equal(t, "gpt-4.1", resp.Models[1].Model)
}

func TestRoutesModelStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/models/gpt-4.1/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)
	assert.Contains(t, w.Body.String(), `"fallbacks"`)
}

func TestRoutesModelStatusNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/models/unknown-model/status", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutesProbe(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/models/gpt-4.1/probe", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp router.ProbeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, int64(42), resp.ResponseTimeMs)
}

func TestRoutesProbeUnknownModelStillOK(t *testing.T) {
	srv, _ := newTestServer(t)

	// Probe reports unavailability in the body rather than via status code.
	w := doJSON(t, srv, http.MethodPost, "/api/v1/models/unknown-model/probe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":false`)
}

func TestRoutesResetHealth(t *testing.T) {
	srv, gw := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/health/reset", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gw.resets)
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	// A caller-supplied id is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w2 := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w2, req)
	assert.Equal(t, "req-123", w2.Header().Get("X-Request-Id"))
}

func TestServerRequiresListenAddr(t *testing.T) {
	_, err := server.New(server.Config{})
	require.Error(t, err)
}
