package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

func newTestCohere(baseURL string) *CohereClient {
	return NewCohereClient(config.ProviderConfig{
		APIKey:  "co-key",
		Model:   "command-r-plus",
		BaseURL: baseURL,
	}, 0.7, 500)
}

func TestCohereClient_Generate(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat"), "path %s", r.URL.Path)
		assert.Equal(t, "Bearer co-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "the prompt", req["message"])
		assert.Equal(t, "command-r-plus", req["model"])
		assert.Equal(t, 0.7, req["temperature"])
		assert.Equal(t, float64(500), req["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Buy BTC","generation_id":"gen-1","finish_reason":"COMPLETE"}`))
	}))
	defer srv.Close()

	got, err := newTestCohere(srv.URL).Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Buy BTC", got)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCohereClient_ServerErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"service unavailable"}`))
	}))
	defer srv.Close()

	_, err := newTestCohere(srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestCohereClient_RateLimitIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"too many requests"}`))
	}))
	defer srv.Close()

	_, err := newTestCohere(srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestCohereClient_EmptyTextIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  ","generation_id":"gen-2"}`))
	}))
	defer srv.Close()

	_, err := newTestCohere(srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
}

func TestCohereClient_UnreachableIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := newTestCohere(base).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindNetwork, apperror.KindOf(err))
}
