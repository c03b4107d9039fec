// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

// Package openaicompat serves every cloud provider that exposes an
// OpenAI-shaped Chat Completions surface. Each provider differs only in base
// URL, credential, and occasionally the wire-level model name, so one adapter
// with an endpoint table covers them all.
package openaicompat

import (
	"context"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// endpoint describes one OpenAI-compatible provider.
type endpoint struct {
	baseURL string
	// aliases maps catalog model ids to the provider's wire-level model
	// names where they differ.
	aliases map[string]string
}

var endpoints = map[string]endpoint{
	catalog.ProviderGroq: {
		baseURL: "https://api.groq.com/openai/v1",
	},
	catalog.ProviderMistral: {
		baseURL: "https://api.mistral.ai/v1",
	},
	catalog.ProviderDeepSeek: {
		baseURL: "https://api.deepseek.com/v1",
	},
	catalog.ProviderTogether: {
		baseURL: "https://api.together.xyz/v1",
		aliases: map[string]string{
			"llama-4-maverick": "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8",
		},
	},
	catalog.ProviderOpenRouter: {
		baseURL: "https://openrouter.ai/api/v1",
		aliases: map[string]string{
			"openrouter-auto": "openrouter/auto",
		},
	},
	catalog.ProviderXAI: {
		baseURL: "https://api.x.ai/v1",
	},
	catalog.ProviderCerebras: {
		baseURL: "https://api.cerebras.ai/v1",
	},
}

// Client implements provider.Client against an OpenAI-compatible endpoint.
type Client struct {
	sdk        openaisdk.Client
	providerID string
	wireModel  string
	opts       provider.Options
}

// New creates a client for one model on one OpenAI-compatible provider.
// Returns an error if the provider is not in the endpoint table or no
// credential is configured.
func New(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (*Client, error) {
	ep, ok := endpoints[desc.Provider]
	if !ok {
		return nil, cgerr.New(cgerr.CodeProviderFactoryNotFound,
			"openaicompat: no endpoint for provider: "+desc.Provider,
			cgerr.FieldProvider(desc.Provider))
	}

	key, ok := creds.APIKey(desc.Provider)
	if !ok || provider.IsPlaceholder(key) {
		return nil, cgerr.New(cgerr.CodeProviderCredentialMissing,
			"openaicompat: missing api key for "+desc.Provider,
			cgerr.FieldProvider(desc.Provider))
	}

	base := ep.baseURL
	if override := creds.Endpoint(desc.Provider); override != "" {
		base = override
	}

	wireModel := desc.ID
	if alias, ok := ep.aliases[desc.ID]; ok {
		wireModel = alias
	}

	sdk := openaisdk.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(base),
	)

	return &Client{
		sdk:        sdk,
		providerID: desc.Provider,
		wireModel:  wireModel,
		opts:       opts,
	}, nil
}

func (c *Client) Generate(ctx context.Context, msgs []provider.Message) (string, error) {
	params, err := c.buildParams(msgs)
	if err != nil {
		return "", err
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", cgerr.Wrap(err, cgerr.CodeProviderInvokeFailure,
			c.providerID+": completion request failed",
			cgerr.FieldProvider(c.providerID), cgerr.FieldModel(c.wireModel))
	}
	if len(resp.Choices) == 0 {
		return "", cgerr.New(cgerr.CodeProviderResponseInvalid,
			c.providerID+": completion returned no choices",
			cgerr.FieldProvider(c.providerID), cgerr.FieldModel(c.wireModel))
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
	converted, err := convertMessages(msgs, c.opts.SystemPrompt)
	if err != nil {
		return openaisdk.ChatCompletionNewParams{}, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.wireModel),
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

// convertMessages transforms provider.Message slices into OpenAI SDK message
// param slices, prepending the configured system prompt.
func convertMessages(msgs []provider.Message, systemPrompt string) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	var result []openaisdk.ChatCompletionMessageParamUnion

	if systemPrompt != "" {
		result = append(result, openaisdk.SystemMessage(systemPrompt))
	}

	for _, msg := range msgs {
		switch msg.Role {
		case provider.MessageRoleSystem:
			result = append(result, openaisdk.SystemMessage(msg.Content))
		case provider.MessageRoleUser:
			result = append(result, openaisdk.UserMessage(msg.Content))
		case provider.MessageRoleAssistant:
			result = append(result, openaisdk.AssistantMessage(msg.Content))
		default:
			return nil, cgerr.Errorf(cgerr.CodeProviderRequestInvalid,
				"openaicompat: unsupported message role %q", msg.Role)
		}
	}

	return result, nil
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
