// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package catalog

import (
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// Category groups models by the kind of work they are tuned for.
type Category string

const (
	CategoryFast      Category = "fast"
	CategoryBalanced  Category = "balanced"
	CategoryCreative  Category = "creative"
	CategoryCoding    Category = "coding"
	CategoryReasoning Category = "reasoning"
)

// Descriptor is a static catalog entry for one model. Descriptors are
// immutable after catalog construction.
type Descriptor struct {
	ID                 string   `json:"id"`
	Provider           string   `json:"provider"`
	Category           Category `json:"category"`
	MaxTokens          int      `json:"max_tokens"`
	SupportsStreaming  bool     `json:"supports_streaming"`
	CostPer1KTokens    float64  `json:"cost_per_1k_tokens"`
	RequiresCredential bool     `json:"requires_credential"`
	Local              bool     `json:"local"`
}

// Catalog holds the full set of model descriptors in a fixed order plus the
// designated default model. It is read-only after construction and safe for
// concurrent use.
type Catalog struct {
	models    []Descriptor
	byID      map[string]int
	defaultID string
}

// New builds a Catalog from descriptors. The order of descriptors is
// preserved and is the order used by fallback ranking.
func New(defaultID string, descriptors []Descriptor) (*Catalog, error) {
	byID := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		if d.ID == "" || d.Provider == "" {
			return nil, cgerr.Errorf(cgerr.CodeCatalogInvalidEntry, "catalog entry %d: id and provider are required", i)
		}
		if d.MaxTokens <= 0 {
			return nil, cgerr.Errorf(cgerr.CodeCatalogInvalidEntry, "catalog entry %q: max_tokens must be positive", d.ID)
		}
		if d.CostPer1KTokens < 0 {
			return nil, cgerr.Errorf(cgerr.CodeCatalogInvalidEntry, "catalog entry %q: cost must be non-negative", d.ID)
		}
		if _, dup := byID[d.ID]; dup {
			return nil, cgerr.Errorf(cgerr.CodeCatalogInvalidEntry, "catalog entry %q: duplicate id", d.ID)
		}
		byID[d.ID] = i
	}

	if _, ok := byID[defaultID]; !ok {
		return nil, cgerr.Errorf(cgerr.CodeCatalogInvalidEntry, "default model %q not in catalog", defaultID)
	}

	return &Catalog{
		models:    append([]Descriptor(nil), descriptors...),
		byID:      byID,
		defaultID: defaultID,
	}, nil
}

// Get returns the descriptor for id, or an error with code
// catalog.model.not_found when the id is unknown.
func (c *Catalog) Get(id string) (Descriptor, error) {
	i, ok := c.byID[id]
	if !ok {
		return Descriptor{}, cgerr.New(
			cgerr.CodeCatalogModelNotFound,
			"unknown model: "+id,
			cgerr.FieldModel(id),
		)
	}
	return c.models[i], nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Models returns all descriptors in catalog order.
func (c *Catalog) Models() []Descriptor {
	return append([]Descriptor(nil), c.models...)
}

// DefaultID returns the designated default model id.
func (c *Catalog) DefaultID() string {
	return c.defaultID
}

// WithDefault returns a copy of the catalog with a different default model.
// The id must already be in the catalog.
func (c *Catalog) WithDefault(id string) (*Catalog, error) {
	return New(id, c.models)
}

// Providers returns the distinct provider ids in catalog order.
func (c *Catalog) Providers() []string {
	seen := make(map[string]bool, len(c.models))
	var out []string
	for _, d := range c.models {
		if !seen[d.Provider] {
			seen[d.Provider] = true
			out = append(out, d.Provider)
		}
	}
	return out
}
