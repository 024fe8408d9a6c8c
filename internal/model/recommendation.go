// Package model defines the request-scoped data types of the advisor.
// Nothing here outlives a single HTTP request, except LLMCall audit rows.
package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Slot names a field of the recommendation response. Each slot is backed by one
// model client; which provider backs it is a configuration choice.
type Slot string

const (
	SlotCohere Slot = "cohere"
	SlotGemini Slot = "gemini"
)

// Budget is the numeric investment budget. Text keeps the caller's literal so the
// prompt shows exactly what was sent ("5000.50" stays "5000.50").
type Budget struct {
	Amount float64
	Text   string
}

// String renders the budget for the prompt.
func (b Budget) String() string {
	if b.Text != "" {
		return b.Text
	}
	return strconv.FormatFloat(b.Amount, 'f', -1, 64)
}

// RecommendationRequest is the typed form of a POST /recommend body.
// Free-text fields are nil when the caller omitted them.
type RecommendationRequest struct {
	Budget        Budget
	RiskTolerance *string
	Duration      *string
	Goal          *string
	Interest      *string
}

// MarketSnapshot maps an asset id to its quoted prices by currency:
// {"bitcoin": {"usd": 60000}}.
type MarketSnapshot map[string]map[string]float64

// String renders the snapshot as compact JSON. Map keys are sorted by
// encoding/json, so the output is stable for a given snapshot.
func (m MarketSnapshot) String() string {
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RecommendationResponse carries each model's raw text.
type RecommendationResponse struct {
	CohereRecommendation string `json:"cohere_recommendation"`
	GeminiRecommendation string `json:"gemini_recommendation"`
}

// LLMCall is the audit record of one model call. Prompt and output text are not stored.
type LLMCall struct {
	ID          int64     `db:"id" json:"id"`
	RequestID   string    `db:"request_id" json:"request_id"`
	Slot        string    `db:"slot" json:"slot"`
	Provider    string    `db:"provider" json:"provider"`
	Model       string    `db:"model" json:"model"`
	Success     bool      `db:"success" json:"success"`
	ErrorKind   *string   `db:"error_kind" json:"error_kind,omitempty"`
	DurationMs  int64     `db:"duration_ms" json:"duration_ms"`
	PromptChars int       `db:"prompt_chars" json:"prompt_chars"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProviderStats aggregates audit rows per provider.
type ProviderStats struct {
	Provider  string `db:"provider" json:"provider"`
	Total     int64  `db:"total" json:"total"`
	Succeeded int64  `db:"succeeded" json:"succeeded"`
	Failed    int64  `db:"failed" json:"failed"`
}
