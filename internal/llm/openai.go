package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

// OpenAIClient is a completion-style variant using the legacy completions
// endpoint, so it needs an instruct model such as gpt-3.5-turbo-instruct.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient creates an OpenAI-backed client. BaseURL also lets it target
// OpenAI-compatible gateways.
func NewOpenAIClient(cfg config.ProviderConfig, temperature float64, maxTokens int) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

func (o *OpenAIClient) ProviderName() string { return string(KindOpenAI) }
func (o *OpenAIClient) ModelName() string    { return o.model }

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       o.model,
		Prompt:      prompt,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", apperror.FromUpstream(o.ProviderName(), fmt.Errorf("openai API call: %w", err))
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Text) == "" {
		return "", apperror.Provider(o.ProviderName(), errors.New("openai returned an empty completion"))
	}
	return resp.Choices[0].Text, nil
}
