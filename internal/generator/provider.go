package generator

import (
	"fmt"

	"github.com/elicitlabs/elicit/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI   = "openai"
	ProviderFallback = "fallback"
	ProviderMock     = "mock"
)

// NewClient creates a generator based on the provider name. The OpenAI
// provider is chained with the curated fallback so a model outage degrades
// to deterministic questions instead of an error.
func NewClient(provider, apiKey string) (domain.Generator, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI generator provider")
		}
		return NewChain(NewOpenAIClient(apiKey), NewFallbackClient()), nil

	case ProviderFallback:
		return NewFallbackClient(), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown generator provider: %s (valid options: openai, fallback, mock)", provider)
	}
}
