// Package service contains the recommendation pipeline: fetch a market
// snapshot, render one prompt, ask both model slots, return both answers.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/llm"
	"github.com/aspirebot/crypto-advisor/internal/market"
	"github.com/aspirebot/crypto-advisor/internal/metrics"
	"github.com/aspirebot/crypto-advisor/internal/model"
	"github.com/aspirebot/crypto-advisor/internal/requestid"
)

// PromptBuilder renders the prompt for a request and snapshot.
type PromptBuilder interface {
	Build(req *model.RecommendationRequest, snapshot model.MarketSnapshot) (string, error)
}

// RecommendService runs one recommendation per call. It holds no per-request
// state, so a single instance serves concurrent requests.
type RecommendService struct {
	fetcher    market.Fetcher
	builder    PromptBuilder
	cohere     llm.Client
	gemini     llm.Client
	concurrent bool
	logger     *zap.Logger
}

// NewRecommendService wires the pipeline. cohere and gemini back the two
// response slots, whatever provider each one wraps.
func NewRecommendService(
	fetcher market.Fetcher,
	builder PromptBuilder,
	cohere llm.Client,
	gemini llm.Client,
	concurrent bool,
	logger *zap.Logger,
) *RecommendService {
	return &RecommendService{
		fetcher:    fetcher,
		builder:    builder,
		cohere:     cohere,
		gemini:     gemini,
		concurrent: concurrent,
		logger:     logger,
	}
}

// Recommend returns both recommendations or an error. It never returns a
// response with one slot missing.
func (s *RecommendService) Recommend(ctx context.Context, req *model.RecommendationRequest) (*model.RecommendationResponse, error) {
	resp, err := s.recommend(ctx, req)

	outcome := "ok"
	if err != nil {
		outcome = string(apperror.KindOf(err))
	}
	metrics.RecommendationsTotal.WithLabelValues(outcome).Inc()

	return resp, err
}

func (s *RecommendService) recommend(ctx context.Context, req *model.RecommendationRequest) (*model.RecommendationResponse, error) {
	prompt, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp *model.RecommendationResponse
	if s.concurrent {
		resp, err = s.generateConcurrent(ctx, prompt)
	} else {
		resp, err = s.generateSequential(ctx, prompt)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("recommendation ready",
		zap.String("request_id", requestid.From(ctx)),
		zap.Int("prompt_chars", len(prompt)),
	)
	return resp, nil
}

// Preview fetches a fresh snapshot and renders the prompt without calling
// any model.
func (s *RecommendService) Preview(ctx context.Context, req *model.RecommendationRequest) (string, error) {
	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching market data: %w", err)
	}

	prompt, err := s.builder.Build(req, snapshot)
	if err != nil {
		return "", &apperror.Error{Kind: apperror.KindInternal, Err: fmt.Errorf("rendering prompt: %w", err)}
	}
	return prompt, nil
}

func (s *RecommendService) generateConcurrent(ctx context.Context, prompt string) (*model.RecommendationResponse, error) {
	var cohereText, geminiText string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.cohere.Generate(gctx, prompt)
		if err != nil {
			return fmt.Errorf("%s slot: %w", model.SlotCohere, err)
		}
		cohereText = text
		return nil
	})
	g.Go(func() error {
		text, err := s.gemini.Generate(gctx, prompt)
		if err != nil {
			return fmt.Errorf("%s slot: %w", model.SlotGemini, err)
		}
		geminiText = text
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.RecommendationResponse{
		CohereRecommendation: cohereText,
		GeminiRecommendation: geminiText,
	}, nil
}

func (s *RecommendService) generateSequential(ctx context.Context, prompt string) (*model.RecommendationResponse, error) {
	cohereText, err := s.cohere.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s slot: %w", model.SlotCohere, err)
	}

	geminiText, err := s.gemini.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s slot: %w", model.SlotGemini, err)
	}

	return &model.RecommendationResponse{
		CohereRecommendation: cohereText,
		GeminiRecommendation: geminiText,
	}, nil
}
