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
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/config"
)

func newTestGemini(t *testing.T, baseURL string) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(context.Background(), config.ProviderConfig{
		APIKey:  "gm-key",
		Model:   "gemini-2.0-flash",
		BaseURL: baseURL + "/",
	}, 0.7, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestGeminiClient_Generate(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent"), "path %s", r.URL.Path)
		assert.Equal(t, "gm-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "the prompt")

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Contains(t, req, "contents")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hold and diversify"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	got, err := newTestGemini(t, srv.URL).Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hold and diversify", got)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeminiClient_APIErrorIsProviderError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(t, srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestGeminiClient_NoCandidatesIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestGemini(t, srv.URL).Generate(context.Background(), "p")
	assert.Equal(t, apperror.KindProvider, apperror.KindOf(err))
}
