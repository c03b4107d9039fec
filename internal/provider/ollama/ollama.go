// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

// Package ollama talks to a local Ollama runtime through its
// OpenAI-compatible endpoint. No credential is required; the base URL is
// configurable for non-default installs.
package ollama

import (
	"context"
	"strings"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// DefaultBaseURL is where a stock Ollama install listens.
const DefaultBaseURL = "http://localhost:11434"

// Client implements provider.Client against a local Ollama runtime.
type Client struct {
	sdk   openaisdk.Client
	model string
	opts  provider.Options
}

// New creates an Ollama client bound to one local model.
func New(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (*Client, error) {
	base := DefaultBaseURL
	if override := creds.Endpoint(desc.Provider); override != "" {
		base = override
	}

	sdk := openaisdk.NewClient(
		// Ollama ignores the key but the SDK requires one.
		option.WithAPIKey("ollama"),
		option.WithBaseURL(compatURL(base)),
	)

	return &Client{
		sdk:   sdk,
		model: desc.ID,
		opts:  opts,
	}, nil
}

// compatURL appends the OpenAI-compatible path segment to an Ollama base URL.
func compatURL(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/v1") {
		return base
	}
	return base + "/v1"
}

func (c *Client) Generate(ctx context.Context, msgs []provider.Message) (string, error) {
	params, err := c.buildParams(msgs)
	if err != nil {
		return "", err
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", cgerr.Wrap(err, cgerr.CodeProviderInvokeFailure,
			"ollama: completion request failed", cgerr.FieldModel(c.model))
	}
	if len(resp.Choices) == 0 {
		return "", cgerr.New(cgerr.CodeProviderResponseInvalid,
			"ollama: completion returned no choices", cgerr.FieldModel(c.model))
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) GenerateStream(ctx context.Context, msgs []provider.Message) (<-chan provider.StreamEvent, error) {
	params, err := c.buildParams(msgs)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan provider.StreamEvent, 100)

	go func() {
		defer close(eventCh)
		c.streamInto(ctx, params, eventCh)
	}()

	return eventCh, nil
}

func (c *Client) buildParams(msgs []provider.Message) (openaisdk.ChatCompletionNewParams, error) {
	var converted []openaisdk.ChatCompletionMessageParamUnion

	if c.opts.SystemPrompt != "" {
		converted = append(converted, openaisdk.SystemMessage(c.opts.SystemPrompt))
	}

	for _, msg := range msgs {
		switch msg.Role {
		case provider.MessageRoleSystem:
			converted = append(converted, openaisdk.SystemMessage(msg.Content))
		case provider.MessageRoleUser:
			converted = append(converted, openaisdk.UserMessage(msg.Content))
		case provider.MessageRoleAssistant:
			converted = append(converted, openaisdk.AssistantMessage(msg.Content))
		default:
			return openaisdk.ChatCompletionNewParams{}, cgerr.Errorf(
				cgerr.CodeProviderRequestInvalid, "ollama: unsupported message role %q", msg.Role)
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: converted,
	}
	if c.opts.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(c.opts.MaxTokens))
	}
	if c.opts.Temperature != nil {
		params.Temperature = param.NewOpt(float64(*c.opts.Temperature))
	}

	return params, nil
}

func (c *Client) streamInto(ctx context.Context, params openaisdk.ChatCompletionNewParams, ch chan<- provider.StreamEvent) {
	stream := c.sdk.Chat.Completions.NewStreaming(ctx, params)

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				ch <- provider.StreamEvent{
					Type: provider.EventTypeTextDelta,
					Text: choice.Delta.Content,
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		ch <- provider.StreamEvent{
			Type: provider.EventTypeError,
			Err:  err.Error(),
		}
		return
	}

	ch <- provider.StreamEvent{Type: provider.EventTypeDone}
}
