// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/provider"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// Client implements provider.Client using the Google Gemini API.
type Client struct {
	sdk   *genai.Client
	model string
	opts  provider.Options
}

// New creates a Google client bound to one model. Returns an error if no
// credential is configured or the SDK client cannot be built.
func New(desc catalog.Descriptor, opts provider.Options, creds provider.CredentialSource) (*Client, error) {
	key, ok := creds.APIKey(desc.Provider)
	if !ok || provider.IsPlaceholder(key) {
		return nil, cgerr.New(cgerr.CodeProviderCredentialMissing,
			"google: missing api key", cgerr.FieldProvider(desc.Provider))
	}

	sdk, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, cgerr.Wrap(err, cgerr.CodeProviderRequestInvalid, "google: creating client")
	}

	return &Client{
		sdk:   sdk,
		model: desc.ID,
		opts:  opts,
	}, nil
}

func (c *Client) Generate(ctx context.Context, msgs []provider.Message) (string, error) {
	contents, config, err := c.buildRequest(msgs)
	if err != nil {
		return "", err
	}

	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", cgerr.Wrap(err, cgerr.CodeProviderInvokeFailure,
			"google: generate content failed", cgerr.FieldModel(c.model))
	}

	return resp.Text(), nil
}

func (c *Client) GenerateStream(ctx context.Context, msgs []provider.Message) (<-chan provider.StreamEvent, error) {
	contents, config, err := c.buildRequest(msgs)
	if err != nil {
		return nil, err
	}

	eventCh := make(chan provider.StreamEvent, 100)

	go func() {
		defer close(eventCh)
		c.streamInto(ctx, contents, config, eventCh)
	}()

	return eventCh, nil
}

// buildRequest converts messages into genai Content slices and the bound
// options into a GenerateContentConfig. System content goes into the
// SystemInstruction, configured system prompt first.
func (c *Client) buildRequest(msgs []provider.Message) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{}
	if c.opts.Temperature != nil {
		config.Temperature = genai.Ptr(*c.opts.Temperature)
	}
	if c.opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(c.opts.MaxTokens)
	}

	var systemParts []*genai.Part
	if c.opts.SystemPrompt != "" {
		systemParts = append(systemParts, &genai.Part{Text: c.opts.SystemPrompt})
	}

	var contents []*genai.Content
	for _, msg := range msgs {
		switch msg.Role {
		case provider.MessageRoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case provider.MessageRoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case provider.MessageRoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			return nil, nil, cgerr.Errorf(cgerr.CodeProviderRequestInvalid,
				"google: unsupported message role %q", msg.Role)
		}
	}

	if len(systemParts) > 0 {
		config.SystemInstruction = &genai.Content{Parts: systemParts}
	}

	return contents, config, nil
}

// streamInto runs the streaming loop, converting SDK responses into
// provider.StreamEvent values.
func (c *Client) streamInto(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig, ch chan<- provider.StreamEvent) {
	for result, err := range c.sdk.Models.GenerateContentStream(ctx, c.model, contents, config) {
		if err != nil {
			ch <- provider.StreamEvent{
				Type: provider.EventTypeError,
				Err:  err.Error(),
			}
			return
		}

		for _, candidate := range result.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					ch <- provider.StreamEvent{
						Type: provider.EventTypeTextDelta,
						Text: part.Text,
					}
				}
			}
		}
	}

	ch <- provider.StreamEvent{Type: provider.EventTypeDone}
}
