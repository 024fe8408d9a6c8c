package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aspirebot/crypto-advisor/internal/model"
)

// CallRepository records one row per model call.
type CallRepository interface {
	Create(ctx context.Context, call *model.LLMCall) error
	Stats(ctx context.Context) ([]model.ProviderStats, error)
	Count(ctx context.Context) (int64, error)
	ListByRequest(ctx context.Context, requestID string) ([]model.LLMCall, error)
}

type sqliteCallRepository struct {
	db *sqlx.DB
}

// NewCallRepository creates a SQLite-backed CallRepository.
func NewCallRepository(db *sqlx.DB) CallRepository {
	return &sqliteCallRepository{db: db}
}

func (r *sqliteCallRepository) Create(ctx context.Context, call *model.LLMCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_calls (request_id, slot, provider, model, success, error_kind, duration_ms, prompt_chars)
		VALUES (:request_id, :slot, :provider, :model, :success, :error_kind, :duration_ms, :prompt_chars)
	`, call)
	if err != nil {
		return fmt.Errorf("creating llm call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteCallRepository) Stats(ctx context.Context) ([]model.ProviderStats, error) {
	stats := []model.ProviderStats{}
	err := r.db.SelectContext(ctx, &stats, `
		SELECT provider,
		       COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0) AS succeeded,
		       COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0) AS failed
		FROM llm_calls
		GROUP BY provider
		ORDER BY provider
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating llm calls: %w", err)
	}
	return stats, nil
}

func (r *sqliteCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls")
	return count, err
}

func (r *sqliteCallRepository) ListByRequest(ctx context.Context, requestID string) ([]model.LLMCall, error) {
	var calls []model.LLMCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM llm_calls WHERE request_id = ? ORDER BY id ASC", requestID)
	if err != nil {
		return nil, fmt.Errorf("listing calls for request %s: %w", requestID, err)
	}
	return calls, nil
}

// NopCallRepository discards every record. It backs the audit hook when no
// database is configured.
type NopCallRepository struct{}

func (NopCallRepository) Create(context.Context, *model.LLMCall) error { return nil }

func (NopCallRepository) Stats(context.Context) ([]model.ProviderStats, error) {
	return []model.ProviderStats{}, nil
}

func (NopCallRepository) Count(context.Context) (int64, error) { return 0, nil }

func (NopCallRepository) ListByRequest(context.Context, string) ([]model.LLMCall, error) {
	return nil, nil
}
