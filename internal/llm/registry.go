package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/config"
)

// Kind names a provider variant.
type Kind string

const (
	KindCohere    Kind = "cohere"    // completion-style
	KindGemini    Kind = "gemini"    // chat-style
	KindOpenAI    Kind = "openai"    // completion-style
	KindAnthropic Kind = "anthropic" // chat-style
)

// Kinds lists every supported provider.
var Kinds = []Kind{KindCohere, KindGemini, KindOpenAI, KindAnthropic}

// ParseKind validates a provider name from configuration.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown llm provider %q (supported: cohere, gemini, openai, anthropic)", s)
}

// New builds the Client for kind from its provider settings. A provider without
// an API key is a startup error, so a misconfigured slot never reaches a request.
func New(ctx context.Context, kind Kind, cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	pc, ok := cfg.Provider(string(kind))
	if !ok {
		return nil, fmt.Errorf("unknown llm provider %q", kind)
	}
	if pc.APIKey == "" {
		return nil, fmt.Errorf("llm provider %s: api_key is not configured", kind)
	}
	if pc.Model == "" {
		return nil, fmt.Errorf("llm provider %s: model is not configured", kind)
	}

	switch kind {
	case KindCohere:
		return NewCohereClient(pc, cfg.Temperature, cfg.MaxTokens), nil
	case KindGemini:
		return NewGeminiClient(ctx, pc, cfg.Temperature, logger)
	case KindOpenAI:
		return NewOpenAIClient(pc, cfg.Temperature, cfg.MaxTokens), nil
	case KindAnthropic:
		return NewAnthropicClient(pc, cfg.Temperature, cfg.MaxTokens, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", kind)
	}
}
