// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package openaicompat

import (
	openaisdk "github.com/openai/openai-go"

	"github.com/crewgate-dev/crewgate/internal/provider"
)

// WireModel exposes the resolved wire-level model name for testing.
func WireModel(c *Client) string { return c.wireModel }

// Providers exposes the endpoint table keys for testing.
func Providers() []string {
	out := make([]string, 0, len(endpoints))
	for id := range endpoints {
		out = append(out, id)
	}
	return out
}

// ConvertMessages exposes convertMessages for white-box testing.
var ConvertMessages = func(msgs []provider.Message, systemPrompt string) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	return convertMessages(msgs, systemPrompt)
}
