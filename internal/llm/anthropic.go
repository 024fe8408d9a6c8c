package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

// AnthropicClient is a chat-style variant using the Messages API. Like the
// Gemini variant it traces prompt and reply at debug level.
type AnthropicClient struct {
	client      *anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	logger      *zap.Logger
}

// NewAnthropicClient creates a Claude-backed client. SDK retries are disabled:
// a failed call surfaces immediately.
func NewAnthropicClient(cfg config.ProviderConfig, temperature float64, maxTokens int, logger *zap.Logger) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicClient{
		client:      &client,
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
		logger:      logger.Named("anthropic"),
	}
}

func (a *AnthropicClient) ProviderName() string { return string(KindAnthropic) }
func (a *AnthropicClient) ModelName() string    { return a.model }

func (a *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	a.logger.Debug("chat request",
		zap.String("model", a.model),
		zap.String("prompt", prompt),
	)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: param.NewOpt(a.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", apperror.FromUpstream(a.ProviderName(), fmt.Errorf("anthropic API call: %w", err))
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	out := sb.String()

	a.logger.Debug("chat response",
		zap.String("model", a.model),
		zap.String("stop_reason", string(message.StopReason)),
		zap.String("text", out),
	)

	if strings.TrimSpace(out) == "" {
		return "", apperror.Provider(a.ProviderName(), errors.New("anthropic returned an empty completion"))
	}
	return out, nil
}
