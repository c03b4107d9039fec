// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package anthropic

import (
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/crewgate-dev/crewgate/internal/provider"
)

// BuildParams exposes buildParams for white-box testing.
var BuildParams = func(c *Client, msgs []provider.Message) (anthropicsdk.MessageNewParams, error) {
	return c.buildParams(msgs)
}
