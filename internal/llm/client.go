// Package llm adapts text-generation providers to one small interface.
// Cohere, Gemini, OpenAI and Anthropic each sit behind Client; the registry
// picks one by Kind so callers never branch on the provider.
package llm

import "context"

// Client renders nothing itself: it takes a fully rendered prompt and returns the
// provider's text. Errors are *apperror.Error of KindNetwork or KindProvider.
//
//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ProviderName() string
	ModelName() string
}
