// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package openai

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

// Client implements provider.Client using the OpenAI Chat Completions API.
type Client struct {
	sdk   openaisdk.Client
	model string
	opts  provider.Options
}

// New creates an OpenAI client bound to one model. Returns an error if no
// credential is configured.
func New(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (*Client, error) {
	key, ok := creds.APIKey(desc.Provider)
	if !ok || provider.IsPlaceholder(key) {
		return nil, cgerr.New(cgerr.CodeProviderCredentialMissing,
			"openai: missing api key", cgerr.FieldProvider(desc.Provider))
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(key),
	}
	if endpoint := creds.Endpoint(desc.Provider); endpoint != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(endpoint))
	}

	return &Client{
		sdk:   openaisdk.NewClient(sdkOpts...),
		model: desc.ID,
		opts:  opts,
	}, nil
}

func (c *Client) Generate(ctx context.Context, msgs []provider.Message) (string, error) {
	params, err := buildParams(c.model, c.opts, msgs)
	if err != nil {
		return "", err
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", cgerr.Wrap(err, cgerr.CodeProviderInvokeFailure,
			"openai: completion request failed", cgerr.FieldModel(c.model))
	}
	if len(resp.Choices) == 0 {
		return "", cgerr.New(cgerr.CodeProviderResponseInvalid,
			"openai: completion returned no choices", cgerr.FieldModel(c.model))
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) GenerateStream(ctx context.Context, msgs []provider.Message) (<-chan provider.StreamEvent, error) {
	params, err := buildParams(c.model, c.opts, msgs)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan provider.StreamEvent, 100)

	go func() {
		defer close(eventCh)
		streamInto(ctx, c.sdk, params, eventCh)
	}()

	return eventCh, nil
}

// buildParams converts bound options plus messages into OpenAI SDK
// ChatCompletionNewParams. The configured system prompt is prepended ahead of
// any system messages already in the conversation.
func buildParams(model string, opts provider.Options, msgs []provider.Message) (openaisdk.ChatCompletionNewParams, error) {
	converted, err := convertMessages(msgs, opts.SystemPrompt)
	if err != nil {
		return openaisdk.ChatCompletionNewParams{}, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: converted,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = param.NewOpt(float64(*opts.Temperature))
	}

	return params, nil
}

// convertMessages transforms provider.Message slices into OpenAI SDK message
// param slices.
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
				"openai: unsupported message role %q", msg.Role)
		}
	}

	return result, nil
}

// streamInto runs the streaming loop, converting SDK chunks into
// provider.StreamEvent values.
func streamInto(ctx context.Context, sdk openaisdk.Client, params openaisdk.ChatCompletionNewParams, ch chan<- provider.StreamEvent) {
	stream := sdk.Chat.Completions.NewStreaming(ctx, params)

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
