// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package provider

import (
	"context"
	"strings"
)

// Client is a ready-to-invoke handle bound to one model on one provider
// endpoint. A Client is configured once (model, temperature, token limits,
// system prompt) and then invoked with just the conversation.
type Client interface {
	// Generate blocks until the provider returns the full completion.
	Generate(ctx context.Context, msgs []Message) (string, error)
	// GenerateStream returns a finite sequence of completion fragments.
	// The channel is closed when the provider signals completion; a fresh
	// call is required to stream again.
	GenerateStream(ctx context.Context, msgs []Message) (<-chan StreamEvent, error)
}

// Options configures a Client at construction time.
type Options struct {
	// Temperature in [0, 2]. Nil means the default of 0.7.
	Temperature *float32
	// MaxTokens caps the completion length. Zero means the model's
	// catalog maximum.
	MaxTokens int
	// Stream requests a streaming-capable handle.
	Stream bool
	// SystemPrompt is prepended ahead of any system messages already
	// present in the conversation.
	SystemPrompt string
}

// Message represents a conversation message.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// MessageRole defines the role of a message sender.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// StreamEvent is one streaming response fragment.
type StreamEvent struct {
	Type EventType
	Text string
	Err  string
}

// EventType defines the type of stream event.
type EventType string

const (
	EventTypeTextDelta EventType = "text_delta"
	EventTypeDone      EventType = "done"
	EventTypeError     EventType = "error"
)

// CredentialSource resolves provider credentials and endpoint overrides
// from the environment or configuration.
type CredentialSource interface {
	// APIKey returns the credential for a provider and whether one is set.
	APIKey(providerID string) (string, bool)
	// Endpoint returns a base-URL override for a provider, or "" for the
	// provider's default endpoint.
	Endpoint(providerID string) string
}

// placeholderValues are credential values that count as absent. Dashboards
// and sample configs commonly ship these stand-ins.
var placeholderValues = map[string]bool{
	"changeme":     true,
	"placeholder":  true,
	"your-api-key": true,
	"xxx":          true,
}

// IsPlaceholder reports whether a credential value is empty or a known
// placeholder rather than a real key.
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	if placeholderValues[v] {
		return true
	}
	return strings.HasPrefix(v, "your-") || strings.HasPrefix(v, "<")
}
