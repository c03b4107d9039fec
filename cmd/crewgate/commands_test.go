// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// testGateway serves canned gateway responses and returns its host:port.
func testGateway(t *testing.T, routes map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "crewgate")
	assert.Contains(t, out, "dev")
}

func TestModelsCommandAgainstGateway(t *testing.T) {
	addr := testGateway(t, map[string]string{
		"/api/v1/models": `{"models":[
			{"id":"claude-sonnet-4-5","provider":"anthropic","category":"balanced","max_tokens":64000,"usable":true,"default":true},
			{"id":"llama3.2","provider":"ollama","category":"fast","max_tokens":4096,"usable":true,"default":false}
		]}`,
	})

	out, err := execute(t, "models", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "claude-sonnet-4-5")
	assert.Contains(t, out, "ollama")
	assert.Contains(t, out, "PROVIDER")
}

func TestModelsCommandFallsBackToBuiltinCatalog(t *testing.T) {
	// Port 1 reliably refuses connections.
	out, err := execute(t, "models", "--address", "127.0.0.1:1")
	require.NoError(t, err)
	assert.Contains(t, out, "not running")
	assert.Contains(t, out, "claude-sonnet-4-5")
}

func TestStatusCommandAll(t *testing.T) {
	addr := testGateway(t, map[string]string{
		"/api/v1/models/status": `{"models":[
			{"model":"claude-sonnet-4-5","state":"healthy","consecutive_failures":0},
			{"model":"gpt-4.1","state":"degraded","consecutive_failures":2}
		]}`,
	})

	out, err := execute(t, "status", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "degraded")
	assert.Contains(t, out, "gpt-4.1")
}

func TestStatusCommandSingleModel(t *testing.T) {
	addr := testGateway(t, map[string]string{
		"/api/v1/models/gpt-4.1/status": `{
			"model":"gpt-4.1","state":"unavailable","consecutive_failures":3,
			"fallbacks":["gpt-4.1-mini","o4-mini"]
		}`,
	})

	out, err := execute(t, "status", "gpt-4.1", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "gpt-4.1-mini")
}

func TestStatusCommandNotRunning(t *testing.T) {
	out, err := execute(t, "status", "--address", "127.0.0.1:1")
	require.NoError(t, err)
	assert.Contains(t, out, "not running")
}

func TestProbeCommand(t *testing.T) {
	addr := testGateway(t, map[string]string{
		"/api/v1/models/llama3.2/probe": `{"available":true,"response_time_ms":37}`,
	})

	out, err := execute(t, "probe", "llama3.2", "--address", addr)
	require.NoError(t, err)
	assert.Contains(t, out, "available")
	assert.Contains(t, out, "37ms")
}

func TestSecretCommands(t *testing.T) {
	out, err := execute(t, "secret", "set", "test-cli-key", "sk-value")
	require.NoError(t, err)
	assert.Contains(t, out, "keyring://crewgate/test-cli-key")

	out, err = execute(t, "secret", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "test-cli-key")

	out, err = execute(t, "secret", "delete", "test-cli-key")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = execute(t, "secret", "delete", "test-cli-key")
	require.Error(t, err)
}
