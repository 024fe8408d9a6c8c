// Package validation turns a raw POST /recommend body into a typed request.
// Shape checks run against a JSON schema first; default handling for the budget
// happens afterwards and never fails.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
	"github.com/aspirebot/crypto-advisor/internal/model"
)

// recommendationSchema describes the accepted body. Unknown properties are allowed.
// crypto_data is accepted for compatibility with older clients and ignored: market
// data is always fetched server-side.
const recommendationSchema = `{
  "type": "object",
  "properties": {
    "budget":         {"type": ["number", "string", "null"]},
    "risk_tolerance": {"type": ["string", "null"]},
    "duration":       {"type": ["string", "null"]},
    "goal":           {"type": ["string", "null"]},
    "interest":       {"type": ["string", "null"]},
    "crypto_data":    {}
  }
}`

type rawRequest struct {
	Budget        any             `json:"budget"`
	RiskTolerance *string         `json:"risk_tolerance"`
	Duration      *string         `json:"duration"`
	Goal          *string         `json:"goal"`
	Interest      *string         `json:"interest"`
	CryptoData    json.RawMessage `json:"crypto_data"`
}

// RequestValidator holds the compiled schema. It is safe for concurrent use.
type RequestValidator struct {
	schema *gojsonschema.Schema
}

// NewRequestValidator compiles the request schema.
func NewRequestValidator() (*RequestValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recommendationSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling request schema: %w", err)
	}
	return &RequestValidator{schema: schema}, nil
}

// Decode validates body and returns the typed request together with the names of
// ignored fields the caller supplied. Failures are *apperror.Error of KindValidation.
func (v *RequestValidator) Decode(body []byte) (*model.RecommendationRequest, []string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil, apperror.Validation(errors.New("empty request body"),
			apperror.FieldError{Field: "(root)", Message: "request body is required"})
	}

	// The schema loader stops after the first value, so trailing bytes are
	// rejected here.
	if !json.Valid(body) {
		return nil, nil, apperror.Validation(errors.New("malformed JSON body"),
			apperror.FieldError{Field: "(root)", Message: "body is not valid JSON"})
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, nil, apperror.Validation(fmt.Errorf("malformed JSON body: %w", err),
			apperror.FieldError{Field: "(root)", Message: "body is not valid JSON"})
	}
	if !result.Valid() {
		fields := make([]apperror.FieldError, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			fields = append(fields, apperror.FieldError{Field: e.Field(), Message: e.Description()})
		}
		return nil, nil, apperror.Validation(errors.New("request body does not match schema"), fields...)
	}

	// UseNumber keeps the caller's literal for numeric budgets.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw rawRequest
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, apperror.Validation(fmt.Errorf("decoding body: %w", err),
			apperror.FieldError{Field: "(root)", Message: "body could not be decoded"})
	}

	var ignored []string
	if len(raw.CryptoData) > 0 {
		ignored = append(ignored, "crypto_data")
	}

	return &model.RecommendationRequest{
		Budget:        ParseBudget(raw.Budget),
		RiskTolerance: raw.RiskTolerance,
		Duration:      raw.Duration,
		Goal:          raw.Goal,
		Interest:      raw.Interest,
	}, ignored, nil
}

// ParseBudget coerces a decoded budget value. Absent, null, empty and
// unparseable values all become 0.
func ParseBudget(v any) model.Budget {
	var text string
	switch b := v.(type) {
	case json.Number:
		text = b.String()
	case string:
		text = strings.TrimSpace(b)
	case float64:
		return model.Budget{Amount: b}
	default:
		return model.Budget{}
	}

	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return model.Budget{}
	}
	return model.Budget{Amount: amount, Text: text}
}
