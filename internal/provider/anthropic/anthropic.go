// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package anthropic

import (
	"context"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// Client implements provider.Client using the Anthropic Messages API.
type Client struct {
	sdk   anthropicsdk.Client
	model string
	opts  provider.Options
}

// New creates an Anthropic client bound to one model. Returns an error if no
// credential is configured.
func New(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (*Client, error) {
	key, ok := creds.APIKey(desc.Provider)
	if !ok || provider.IsPlaceholder(key) {
		return nil, cgerr.New(cgerr.CodeProviderCredentialMissing,
			"anthropic: missing api key", cgerr.FieldProvider(desc.Provider))
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(key),
	}
	if endpoint := creds.Endpoint(desc.Provider); endpoint != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(endpoint))
	}

	return &Client{
		sdk:   anthropicsdk.NewClient(sdkOpts...),
		model: desc.ID,
		opts:  opts,
	}, nil
}

func (c *Client) Generate(ctx context.Context, msgs []provider.Message) (string, error) {
	params, err := c.buildParams(msgs)
	if err != nil {
		return "", err
	}

	resp, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", cgerr.Wrap(err, cgerr.CodeProviderInvokeFailure,
			"anthropic: message request failed", cgerr.FieldModel(c.model))
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
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

// buildParams converts the bound options plus messages into Anthropic SDK
// MessageNewParams. System content goes into the top-level system param with
// the configured system prompt ahead of any system messages in the
// conversation.
func (c *Client) buildParams(msgs []provider.Message) (anthropicsdk.MessageNewParams, error) {
	var system []anthropicsdk.TextBlockParam
	if c.opts.SystemPrompt != "" {
		system = append(system, anthropicsdk.TextBlockParam{Text: c.opts.SystemPrompt})
	}

	var converted []anthropicsdk.MessageParam
	for _, msg := range msgs {
		switch msg.Role {
		case provider.MessageRoleSystem:
			system = append(system, anthropicsdk.TextBlockParam{Text: msg.Content})
		case provider.MessageRoleUser:
			converted = append(converted, anthropicsdk.NewUserMessage(
				anthropicsdk.NewTextBlock(msg.Content),
			))
		case provider.MessageRoleAssistant:
			converted = append(converted, anthropicsdk.NewAssistantMessage(
				anthropicsdk.NewTextBlock(msg.Content),
			))
		default:
			return anthropicsdk.MessageNewParams{}, cgerr.Errorf(
				cgerr.CodeProviderRequestInvalid, "anthropic: unsupported message role %q", msg.Role)
		}
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(c.model),
		Messages:  converted,
		MaxTokens: int64(c.opts.MaxTokens),
	}
	if len(system) > 0 {
		params.System = system
	}
	if c.opts.Temperature != nil {
		params.Temperature = anthropicsdk.Float(float64(*c.opts.Temperature))
	}

	return params, nil
}

// streamInto runs the streaming loop, converting SDK events into
// provider.StreamEvent values.
func (c *Client) streamInto(ctx context.Context, params anthropicsdk.MessageNewParams, ch chan<- provider.StreamEvent) {
	stream := c.sdk.Messages.NewStreaming(ctx, params)

	for stream.Next() {
		event := stream.Current()

		switch event.Type {
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				ch <- provider.StreamEvent{
					Type: provider.EventTypeTextDelta,
					Text: event.Delta.Text,
				}
			}
		case "message_stop":
			ch <- provider.StreamEvent{Type: provider.EventTypeDone}
			return
		}
	}

	if err := stream.Err(); err != nil {
		ch <- provider.StreamEvent{
			Type: provider.EventTypeError,
			Err:  err.Error(),
		}
		return
	}

	// Stream ended without a message_stop; still signal completion.
	ch <- provider.StreamEvent{Type: provider.EventTypeDone}
}
