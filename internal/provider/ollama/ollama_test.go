// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package ollama_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	"github.com/crewgate-dev/crewgate/internal/provider/ollama"
)

var _ provider.Client = (*ollama.Client)(nil)

type noCreds struct {
	endpoint string
}

func (c noCreds) APIKey(string) (string, bool) { return "", false }
func (c noCreds) Endpoint(string) string       { return c.endpoint }

func TestNewWithoutCredential(t *testing.T) {
	desc := catalog.Descriptor{
		ID:        "llama3.2",
		Provider:  catalog.ProviderOllama,
		Category:  catalog.CategoryFast,
		MaxTokens: 4096,
		Local:     true,
	}

	c, err := ollama.New(desc, provider.Options{}, noCreds{})
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = ollama.New(desc, provider.Options{}, noCreds{endpoint: "http://gpubox:11434"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCompatURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"http://gpubox:9000", "http://gpubox:9000/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, ollama.CompatURL(tt.base))
		})
	}
}
