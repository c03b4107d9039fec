// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package openai

import (
	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
)

func init() {
	provider.RegisterFactory(catalog.ProviderOpenAI,
		func(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (provider.Client, error) {
			return New(desc, opts, creds)
		})
}
