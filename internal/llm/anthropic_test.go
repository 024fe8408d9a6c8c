package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

func newTestAnthropic(baseURL string) *AnthropicClient {
	return NewAnthropicClient(config.ProviderConfig{
		APIKey:  "an-key",
		Model:   "claude-sonnet-4-5-20250929",
		BaseURL: baseURL,
	}, 0.7, 500, zap.NewNop())
}

func TestAnthropicClient_Generate(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "an-key", r.Header.Get("X-Api-Key"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "claude-sonnet-4-5-20250929", req["model"])
		assert.Equal(t, float64(500), req["max_tokens"])
		assert.Contains(t, string(body), "the prompt")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",` +
			`"content":[{"type":"text","text":"Buy BTC"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":3}}`))
	}))
	defer srv.Close()

	got, err := newTestAnthropic(srv.URL).Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Buy BTC", got)
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropicClient_ServerErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropicClient_EmptyContentIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_2","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",` +
			`"content":[],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":0}}`))
	}))
	defer srv.Close()

	_, err := newTestAnthropic(srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
}
