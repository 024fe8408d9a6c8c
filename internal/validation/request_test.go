package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspirebot/crypto-advisor/internal/apperror"
)

func newValidator(t *testing.T) *RequestValidator {
	t.Helper()
	v, err := NewRequestValidator()
	require.NoError(t, err)
	return v
}

func TestDecode_FullBody(t *testing.T) {
	v := newValidator(t)

	req, ignored, err := v.Decode([]byte(`{"budget": "5000", "risk_tolerance": "low", "duration": "1y", "goal": "growth", "interest": "bitcoin"}`))
	require.NoError(t, err)
	assert.Empty(t, ignored)

	assert.Equal(t, 5000.0, req.Budget.Amount)
	assert.Equal(t, "5000", req.Budget.String())
	require.NotNil(t, req.RiskTolerance)
	assert.Equal(t, "low", *req.RiskTolerance)
	assert.Equal(t, "1y", *req.Duration)
	assert.Equal(t, "growth", *req.Goal)
	assert.Equal(t, "bitcoin", *req.Interest)
}

func TestDecode_BudgetOmittedDefaultsToZero(t *testing.T) {
	v := newValidator(t)

	req, _, err := v.Decode([]byte(`{"risk_tolerance": "high"}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, req.Budget.Amount)
	assert.Equal(t, "0", req.Budget.String())
	assert.Nil(t, req.Goal)
}

func TestDecode_NumericBudgetKeepsLiteral(t *testing.T) {
	v := newValidator(t)

	req, _, err := v.Decode([]byte(`{"budget": 5000.50}`))
	require.NoError(t, err)
	assert.Equal(t, 5000.5, req.Budget.Amount)
	assert.Equal(t, "5000.50", req.Budget.String())
}

func TestDecode_MalformedJSON(t *testing.T) {
	v := newValidator(t)

	_, _, err := v.Decode([]byte(`{"budget": `))
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.NotEmpty(t, appErr.Fields)
}

func TestDecode_TrailingDataIsMalformed(t *testing.T) {
	v := newValidator(t)

	for _, body := range []string{
		`{"budget": 5000} garbage`,
		`{"budget": 5000}}`,
		`{"goal":"x"}{"goal":`,
		`{"goal":"x"} {"goal":"y"}`,
	} {
		_, _, err := v.Decode([]byte(body))
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err), "body %q", body)
	}
}

func TestDecode_EmptyBody(t *testing.T) {
	v := newValidator(t)

	_, _, err := v.Decode([]byte("  "))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDecode_WrongFieldTypeReportsField(t *testing.T) {
	v := newValidator(t)

	_, _, err := v.Decode([]byte(`{"budget": 100, "risk_tolerance": 7}`))
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "risk_tolerance", appErr.Fields[0].Field)
}

func TestDecode_NonObjectBody(t *testing.T) {
	v := newValidator(t)

	_, _, err := v.Decode([]byte(`["budget", 1]`))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDecode_CryptoDataIsIgnored(t *testing.T) {
	v := newValidator(t)

	req, ignored, err := v.Decode([]byte(`{"budget": 10, "crypto_data": {"bitcoin": {"usd": 1}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"crypto_data"}, ignored)
	assert.Equal(t, 10.0, req.Budget.Amount)
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		amount float64
		text   string
	}{
		{"nil", nil, 0, "0"},
		{"empty string", "", 0, "0"},
		{"numeric string", " 250.75 ", 250.75, "250.75"},
		{"unparseable", "a lot", 0, "0"},
		{"nan", "NaN", 0, "0"},
		{"json number", json.Number("42"), 42, "42"},
		{"float", 12.5, 12.5, "12.5"},
		{"bool", true, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBudget(tt.in)
			assert.Equal(t, tt.amount, got.Amount)
			assert.Equal(t, tt.text, got.String())
		})
	}
}
