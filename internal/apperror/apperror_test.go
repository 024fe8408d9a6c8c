package apperror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromUpstream(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "api.example.com", IsNotFound: true}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"url error", &url.Error{Op: "Get", URL: "https://api.example.com", Err: dnsErr}, KindNetwork},
		{"wrapped deadline", fmt.Errorf("calling: %w", context.DeadlineExceeded), KindNetwork},
		{"canceled", context.Canceled, KindNetwork},
		{"api error", errors.New("status 401: invalid api key"), KindProvider},
		{"already classified", Validation(errors.New("bad")), KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromUpstream("cohere", tt.err)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("fetching market data: %w", Network("coingecko", errors.New("refused")))
	assert.Equal(t, KindNetwork, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindValidation))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(KindNetwork))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(KindProvider))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindInternal))
}

func TestError_MessageIncludesSource(t *testing.T) {
	err := Provider("gemini", errors.New("quota exceeded"))
	assert.Equal(t, "PROVIDER_ERROR[gemini]: quota exceeded", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
