package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

// CohereClient is the completion-style variant: one plain prompt in, one text
// out. No preamble and no chat history are sent.
type CohereClient struct {
	client      *cohereclient.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewCohereClient creates a Cohere-backed client. The SDK retries by default;
// a single attempt is configured so a failed call surfaces immediately.
func NewCohereClient(cfg config.ProviderConfig, temperature float64, maxTokens int) *CohereClient {
	opts := []option.RequestOption{
		option.WithToken(cfg.APIKey),
		option.WithMaxAttempts(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &CohereClient{
		client:      cohereclient.NewClient(opts...),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (c *CohereClient) ProviderName() string { return string(KindCohere) }
func (c *CohereClient) ModelName() string    { return c.model }

func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.model
	temperature := c.temperature
	req := &cohere.ChatRequest{
		Message:     prompt,
		Model:       &model,
		Temperature: &temperature,
	}
	if c.maxTokens > 0 {
		maxTokens := c.maxTokens
		req.MaxTokens = &maxTokens
	}

	resp, err := c.client.Chat(ctx, req)
	if err != nil {
		return "", apperror.FromUpstream(c.ProviderName(), fmt.Errorf("cohere API call: %w", err))
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return "", apperror.Provider(c.ProviderName(), errors.New("cohere returned an empty completion"))
	}
	return resp.Text, nil
}
