// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package catalog_test

import (
	"testing"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinIsValid(t *testing.T) {
	c := catalog.Builtin()

	require.NotEmpty(t, c.Models())
	assert.True(t, c.Has(catalog.DefaultModelID))
	assert.Equal(t, catalog.DefaultModelID, c.DefaultID())

	for _, d := range c.Models() {
		assert.Positive(t, d.MaxTokens, "model %s", d.ID)
		assert.GreaterOrEqual(t, d.CostPer1KTokens, 0.0, "model %s", d.ID)
		if d.Local {
			assert.False(t, d.RequiresCredential, "local model %s must not require a credential", d.ID)
			assert.Zero(t, d.CostPer1KTokens, "local model %s must be free", d.ID)
		}
	}
}

func TestGetUnknownModel(t *testing.T) {
	c := catalog.Builtin()

	_, err := c.Get("does-not-exist")
	require.Error(t, err)
	assert.True(t, cgerr.HasCode(err, cgerr.CodeCatalogModelNotFound))
	assert.Equal(t, "does-not-exist", cgerr.FieldsOf(err)["model"])
}

func TestGetReturnsDescriptor(t *testing.T) {
	c := catalog.Builtin()

	d, err := c.Get("gpt-4.1")
	require.NoError(t, err)
	assert.Equal(t, catalog.ProviderOpenAI, d.Provider)
	assert.Equal(t, catalog.CategoryBalanced, d.Category)
	assert.True(t, d.SupportsStreaming)
}

func TestNewRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name        string
		defaultID   string
		descriptors []catalog.Descriptor
	}{
		{
			name:      "missing id",
			defaultID: "a",
			descriptors: []catalog.Descriptor{
				{Provider: "p", MaxTokens: 10},
			},
		},
		{
			name:      "non-positive max tokens",
			defaultID: "a",
			descriptors: []catalog.Descriptor{
				{ID: "a", Provider: "p", MaxTokens: 0},
			},
		},
		{
			name:      "negative cost",
			defaultID: "a",
			descriptors: []catalog.Descriptor{
				{ID: "a", Provider: "p", MaxTokens: 10, CostPer1KTokens: -1},
			},
		},
		{
			name:      "duplicate id",
			defaultID: "a",
			descriptors: []catalog.Descriptor{
				{ID: "a", Provider: "p", MaxTokens: 10},
				{ID: "a", Provider: "q", MaxTokens: 10},
			},
		},
		{
			name:      "default not in catalog",
			defaultID: "missing",
			descriptors: []catalog.Descriptor{
				{ID: "a", Provider: "p", MaxTokens: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.defaultID, tt.descriptors)
			require.Error(t, err)
			assert.True(t, cgerr.HasCode(err, cgerr.CodeCatalogInvalidEntry))
		})
	}
}

func TestProvidersOrderedAndDistinct(t *testing.T) {
	c := catalog.Builtin()

	providers := c.Providers()
	seen := make(map[string]bool)
	for _, p := range providers {
		assert.False(t, seen[p], "provider %s listed twice", p)
		seen[p] = true
	}

	// First catalog entry belongs to the first listed provider.
	assert.Equal(t, c.Models()[0].Provider, providers[0])
}

func TestModelsReturnsCopy(t *testing.T) {
	c := catalog.Builtin()

	models := c.Models()
	models[0].ID = "mutated"

	again, err := c.Get(catalog.DefaultModelID)
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultModelID, again.ID)
}
