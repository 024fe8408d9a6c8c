// Package provider wraps model clients with the bookkeeping every call needs:
// a deadline, timing, metrics, an audit row and a log line.
package provider

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/llm"
	"github.com/aspirebot/crypto-advisor/internal/metrics"
	"github.com/aspirebot/crypto-advisor/internal/model"
	"github.com/aspirebot/crypto-advisor/internal/requestid"
	"github.com/aspirebot/crypto-advisor/internal/storage"
)

// outcomeCancelled labels calls abandoned by the caller in the upstream metric.
const outcomeCancelled = "cancelled"

// TrackedClient binds an llm.Client to a response slot. It satisfies
// llm.Client itself, so the service does not know it is there.
type TrackedClient struct {
	slot     model.Slot
	client   llm.Client
	timeout  time.Duration
	callRepo storage.CallRepository
	logger   *zap.Logger
}

// NewTrackedClient wraps client for slot. A zero timeout leaves the caller's
// deadline in charge; a nil callRepo disables the audit row.
func NewTrackedClient(
	slot model.Slot,
	client llm.Client,
	timeout time.Duration,
	callRepo storage.CallRepository,
	logger *zap.Logger,
) *TrackedClient {
	if callRepo == nil {
		callRepo = storage.NopCallRepository{}
	}
	return &TrackedClient{
		slot:     slot,
		client:   client,
		timeout:  timeout,
		callRepo: callRepo,
		logger:   logger,
	}
}

func (t *TrackedClient) Slot() model.Slot     { return t.slot }
func (t *TrackedClient) ProviderName() string { return t.client.ProviderName() }
func (t *TrackedClient) ModelName() string    { return t.client.ModelName() }

func (t *TrackedClient) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := t.client.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	// Cancelled by the caller (a failed sibling slot or a client disconnect):
	// the provider did not fail, so no audit row is written.
	cancelled := err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)

	if err != nil {
		err = apperror.FromUpstream(t.client.ProviderName(), err)
	}

	outcome := "ok"
	switch {
	case cancelled:
		outcome = outcomeCancelled
	case err != nil:
		outcome = string(apperror.KindOf(err))
	}
	metrics.ObserveUpstream(t.client.ProviderName(), outcome, elapsed)

	if !cancelled {
		t.recordCall(context.WithoutCancel(ctx), len(prompt), err, elapsed)
	}

	fields := []zap.Field{
		zap.String("request_id", requestid.From(ctx)),
		zap.String("slot", string(t.slot)),
		zap.String("provider", t.client.ProviderName()),
		zap.String("model", t.client.ModelName()),
		zap.Duration("duration", elapsed),
	}
	if cancelled {
		t.logger.Info("model call cancelled", fields...)
		return "", err
	}
	if err != nil {
		t.logger.Warn("model call failed", append(fields, zap.Error(err))...)
		return "", err
	}
	t.logger.Info("model call completed", append(fields, zap.Int("output_chars", len(text)))...)
	return text, nil
}

func (t *TrackedClient) recordCall(ctx context.Context, promptChars int, callErr error, elapsed time.Duration) {
	call := &model.LLMCall{
		RequestID:   requestid.From(ctx),
		Slot:        string(t.slot),
		Provider:    t.client.ProviderName(),
		Model:       t.client.ModelName(),
		Success:     callErr == nil,
		DurationMs:  elapsed.Milliseconds(),
		PromptChars: promptChars,
	}
	if callErr != nil {
		kind := string(apperror.KindOf(callErr))
		call.ErrorKind = &kind
	}

	if err := t.callRepo.Create(ctx, call); err != nil {
		t.logger.Error("recording model call", zap.Error(err))
	}
}
