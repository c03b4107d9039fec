// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package config

import "github.com/crewgate-dev/crewgate/internal/provider"

// Credentials exposes the providers section as a provider.CredentialSource.
type Credentials struct {
	providers map[string]ProviderConfig
}

var _ provider.CredentialSource = (*Credentials)(nil)

// Credentials returns a credential source over the loaded provider section.
func (c *Config) Credentials() *Credentials {
	return &Credentials{providers: c.Providers}
}

func (c *Credentials) APIKey(providerID string) (string, bool) {
	pc, ok := c.providers[providerID]
	if !ok || pc.APIKey == "" {
		return "", false
	}
	return pc.APIKey, true
}

func (c *Credentials) Endpoint(providerID string) string {
	return c.providers[providerID].Endpoint
}
