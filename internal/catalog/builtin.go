// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package catalog

// Provider ids recognized by the adapter registry. Cloud vendors with their
// own SDK get a dedicated adapter; the rest share the OpenAI-compatible path.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGoogle     = "google"
	ProviderGroq       = "groq"
	ProviderMistral    = "mistral"
	ProviderDeepSeek   = "deepseek"
	ProviderTogether   = "together"
	ProviderOpenRouter = "openrouter"
	ProviderXAI        = "xai"
	ProviderCerebras   = "cerebras"
	ProviderOllama     = "ollama"
)

// DefaultModelID is the catalog's designated default model.
const DefaultModelID = "claude-sonnet-4-5"

// Builtin returns the static catalog the gateway ships with. Pricing is
// blended input/output USD per thousand tokens.
func Builtin() *Catalog {
	c, err := New(DefaultModelID, builtinDescriptors())
	if err != nil {
		// The builtin table is validated by tests; a bad entry is a programming error.
		panic(err)
	}
	return c
}

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{
			ID:                 "claude-sonnet-4-5",
			Provider:           ProviderAnthropic,
			Category:           CategoryBalanced,
			MaxTokens:          16000,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.009,
			RequiresCredential: true,
		},
		{
			ID:                 "claude-haiku-4-5",
			Provider:           ProviderAnthropic,
			Category:           CategoryFast,
			MaxTokens:          8192,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.003,
			RequiresCredential: true,
		},
		{
			ID:                 "claude-opus-4-5",
			Provider:           ProviderAnthropic,
			Category:           CategoryReasoning,
			MaxTokens:          32000,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.045,
			RequiresCredential: true,
		},
		{
			ID:                 "gpt-4.1",
			Provider:           ProviderOpenAI,
			Category:           CategoryBalanced,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.005,
			RequiresCredential: true,
		},
		{
			ID:                 "gpt-4.1-mini",
			Provider:           ProviderOpenAI,
			Category:           CategoryFast,
			MaxTokens:          16384,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.001,
			RequiresCredential: true,
		},
		{
			ID:                 "o4-mini",
			Provider:           ProviderOpenAI,
			Category:           CategoryReasoning,
			MaxTokens:          100000,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.003,
			RequiresCredential: true,
		},
		{
			ID:                 "gemini-2.5-pro",
			Provider:           ProviderGoogle,
			Category:           CategoryReasoning,
			MaxTokens:          65536,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.006,
			RequiresCredential: true,
		},
		{
			ID:                 "gemini-2.5-flash",
			Provider:           ProviderGoogle,
			Category:           CategoryFast,
			MaxTokens:          65536,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0008,
			RequiresCredential: true,
		},
		{
			ID:                 "llama-3.3-70b-versatile",
			Provider:           ProviderGroq,
			Category:           CategoryFast,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0007,
			RequiresCredential: true,
		},
		{
			ID:                 "mistral-large-latest",
			Provider:           ProviderMistral,
			Category:           CategoryBalanced,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.004,
			RequiresCredential: true,
		},
		{
			ID:                 "codestral-latest",
			Provider:           ProviderMistral,
			Category:           CategoryCoding,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0009,
			RequiresCredential: true,
		},
		{
			ID:                 "deepseek-chat",
			Provider:           ProviderDeepSeek,
			Category:           CategoryBalanced,
			MaxTokens:          8192,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0008,
			RequiresCredential: true,
		},
		{
			ID:                 "deepseek-reasoner",
			Provider:           ProviderDeepSeek,
			Category:           CategoryReasoning,
			MaxTokens:          65536,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0022,
			RequiresCredential: true,
		},
		{
			ID:                 "llama-4-maverick",
			Provider:           ProviderTogether,
			Category:           CategoryCreative,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0011,
			RequiresCredential: true,
		},
		{
			ID:                 "openrouter-auto",
			Provider:           ProviderOpenRouter,
			Category:           CategoryBalanced,
			MaxTokens:          16384,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.005,
			RequiresCredential: true,
		},
		{
			ID:                 "grok-3",
			Provider:           ProviderXAI,
			Category:           CategoryCreative,
			MaxTokens:          131072,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.01,
			RequiresCredential: true,
		},
		{
			ID:                 "qwen-3-coder-480b",
			Provider:           ProviderCerebras,
			Category:           CategoryCoding,
			MaxTokens:          32768,
			SupportsStreaming:  true,
			CostPer1KTokens:    0.0016,
			RequiresCredential: true,
		},
		{
			ID:                 "llama3.2",
			Provider:           ProviderOllama,
			Category:           CategoryFast,
			MaxTokens:          8192,
			SupportsStreaming:  true,
			CostPer1KTokens:    0,
			RequiresCredential: false,
			Local:              true,
		},
		{
			ID:                 "qwen2.5-coder",
			Provider:           ProviderOllama,
			Category:           CategoryCoding,
			MaxTokens:          16384,
			SupportsStreaming:  true,
			CostPer1KTokens:    0,
			RequiresCredential: false,
			Local:              true,
		},
	}
}
