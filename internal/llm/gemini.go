package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

// GeminiClient is the chat-style variant: the prompt is sent as a user turn of a
// conversation. Every exchange is traced at debug level, prompt and reply included.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a Gemini-backed client using the Gemini Developer API.
func NewGeminiClient(ctx context.Context, cfg config.ProviderConfig, temperature float64, logger *zap.Logger) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: float32(temperature),
		logger:      logger.Named("gemini"),
	}, nil
}

func (g *GeminiClient) ProviderName() string { return string(KindGemini) }
func (g *GeminiClient) ModelName() string    { return g.model }

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("chat request",
		zap.String("model", g.model),
		zap.String("prompt", prompt),
	)

	temperature := g.temperature
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", apperror.FromUpstream(g.ProviderName(), fmt.Errorf("gemini API call: %w", err))
	}

	text := resp.Text()
	g.logger.Debug("chat response",
		zap.String("model", g.model),
		zap.Int("candidates", len(resp.Candidates)),
		zap.String("text", text),
	)

	if strings.TrimSpace(text) == "" {
		return "", apperror.Provider(g.ProviderName(), errors.New("gemini returned an empty completion"))
	}
	return text, nil
}
