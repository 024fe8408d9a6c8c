// Package market fetches live cryptocurrency prices.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
	"github.com/aspirebot/crypto-advisor/internal/metrics"
	"github.com/aspirebot/crypto-advisor/internal/model"
)

const source = "coingecko"

// Fetcher returns a fresh MarketSnapshot. Implementations must not cache.
type Fetcher interface {
	Fetch(ctx context.Context) (model.MarketSnapshot, error)
}

// CoinGeckoFetcher reads the CoinGecko simple price endpoint:
// GET /simple/price?ids=bitcoin,ethereum,solana&vs_currencies=usd
type CoinGeckoFetcher struct {
	baseURL    string
	assets     []string
	vsCurrency string
	apiKey     string // optional demo key, sent as x-cg-demo-api-key
	client     *http.Client
	logger     *zap.Logger
}

// NewCoinGeckoFetcher creates a fetcher from market config.
func NewCoinGeckoFetcher(cfg config.MarketConfig, logger *zap.Logger) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		assets:     cfg.Assets,
		vsCurrency: cfg.VsCurrency,
		apiKey:     cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Fetch issues a single GET and decodes the body. There is no retry.
func (f *CoinGeckoFetcher) Fetch(ctx context.Context) (model.MarketSnapshot, error) {
	start := time.Now()
	snapshot, err := f.fetch(ctx)
	elapsed := time.Since(start)

	if err != nil {
		appErr := apperror.FromUpstream(source, err)
		metrics.ObserveUpstream(source, string(appErr.Kind), elapsed)
		f.logger.Warn("market data fetch failed",
			zap.String("kind", string(appErr.Kind)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, appErr
	}

	metrics.ObserveUpstream(source, "ok", elapsed)
	f.logger.Debug("market data fetched",
		zap.Int("assets", len(snapshot)),
		zap.Duration("duration", elapsed),
	)
	return snapshot, nil
}

func (f *CoinGeckoFetcher) fetch(ctx context.Context) (model.MarketSnapshot, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(f.assets, ","))
	q.Set("vs_currencies", f.vsCurrency)
	endpoint := f.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.Provider(source, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "crypto-advisor/1.0")
	if f.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, apperror.Provider(source, fmt.Errorf("price API returned %d: %s", resp.StatusCode, string(body)))
	}

	var snapshot model.MarketSnapshot
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&snapshot); err != nil {
		return nil, apperror.Provider(source, fmt.Errorf("decoding prices: %w", err))
	}
	if snapshot == nil {
		return nil, apperror.Provider(source, errors.New("price API returned an empty body"))
	}

	return snapshot, nil
}
