// Package app builds the recommendation pipeline from configuration. The HTTP
// server and the CLI share it so both run exactly the same wiring.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/config"
	"github.com/aspirebot/crypto-advisor/internal/llm"
	"github.com/aspirebot/crypto-advisor/internal/market"
	"github.com/aspirebot/crypto-advisor/internal/model"
	"github.com/aspirebot/crypto-advisor/internal/prompt"
	"github.com/aspirebot/crypto-advisor/internal/provider"
	"github.com/aspirebot/crypto-advisor/internal/server"
	"github.com/aspirebot/crypto-advisor/internal/service"
	"github.com/aspirebot/crypto-advisor/internal/storage"
	"github.com/aspirebot/crypto-advisor/internal/validation"
)

// App holds the long-lived components. Close releases the database, if any.
type App struct {
	Service   *service.RecommendService
	Validator *validation.RequestValidator
	CallRepo  storage.CallRepository // nil when storage is disabled

	db *sqlx.DB
}

// Build wires every component. Startup fails when a slot is bound to an
// unknown provider or to one without credentials.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	validator, err := validation.NewRequestValidator()
	if err != nil {
		return nil, err
	}

	builder, err := prompt.NewBuilder(cfg.Prompt.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("loading prompt template: %w", err)
	}

	a := &App{Validator: validator}

	var callRepo storage.CallRepository = storage.NopCallRepository{}
	if cfg.Storage.DatabasePath != "" {
		db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("opening audit database: %w", err)
		}
		a.db = db
		a.CallRepo = storage.NewCallRepository(db)
		callRepo = a.CallRepo
		logger.Info("model call audit log enabled", zap.String("path", cfg.Storage.DatabasePath))
	}

	cohere, err := slotClient(ctx, model.SlotCohere, cfg.LLM.Slots.Cohere, cfg, callRepo, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	gemini, err := slotClient(ctx, model.SlotGemini, cfg.LLM.Slots.Gemini, cfg, callRepo, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	fetcher := market.NewCoinGeckoFetcher(cfg.Market, logger.Named("market"))
	a.Service = service.NewRecommendService(fetcher, builder, cohere, gemini, cfg.Recommend.Concurrent, logger)

	return a, nil
}

// ServerDeps adapts the App to the HTTP layer.
func (a *App) ServerDeps() server.Deps {
	return server.Deps{
		Validator:   a.Validator,
		Recommender: a.Service,
		CallRepo:    a.CallRepo,
	}
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func slotClient(
	ctx context.Context,
	slot model.Slot,
	kindName string,
	cfg *config.Config,
	callRepo storage.CallRepository,
	logger *zap.Logger,
) (*provider.TrackedClient, error) {
	kind, err := llm.ParseKind(kindName)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", slot, err)
	}

	client, err := llm.New(ctx, kind, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", slot, err)
	}

	logger.Info("model slot bound",
		zap.String("slot", string(slot)),
		zap.String("provider", client.ProviderName()),
		zap.String("model", client.ModelName()),
	)
	return provider.NewTrackedClient(slot, client, cfg.LLM.Timeout, callRepo, logger.Named("provider")), nil
}
