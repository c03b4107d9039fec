// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package provider

import (
	"sync"

	"github.com/crewgate-dev/crewgate/internal/catalog"
)

// Factory builds a Client for one model. Adapter packages register a Factory
// per provider id, so adding a provider is a table entry rather than a new
// branch in shared dispatch code.
type Factory func(desc catalog.Descriptor, opts Options, creds CredentialSource) (Client, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterFactory registers the adapter factory for a provider id. Adapter
// packages call this from init(). Goroutine-safe; later registrations for
// the same provider win.
func RegisterFactory(providerID string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[providerID] = f
}

// registeredFactories returns a snapshot of the factory table.
func registeredFactories() map[string]Factory {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make(map[string]Factory, len(factories))
	for id, f := range factories {
		out[id] = f
	}
	return out
}
