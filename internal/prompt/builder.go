// Package prompt renders the text sent to the model providers.
package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/aspirebot/crypto-advisor/internal/model"
)

// DefaultTemplate is used when no template file is configured. Placeholders are
// keys of the data map built in Build.
const DefaultTemplate = `Given the following preferences:
- Budget: {{.budget}}
- Risk Tolerance: {{.risk_tolerance}}
- Investment Duration: {{.duration}}
- Investment Goal: {{.goal}}
- Interested Cryptocurrencies: {{.interest}}

Based on this data, recommend cryptocurrencies to invest in from this information: {{.crypto_data}}.`

// nullText is what an omitted free-text field renders as.
const nullText = "null"

// Builder renders prompts from a parsed template. Rendering has no side effects,
// so one Builder serves all requests.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder parses the template at path, or DefaultTemplate when path is empty.
func NewBuilder(path string) (*Builder, error) {
	name, text := "default", DefaultTemplate
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt template %q: %w", path, err)
		}
		name, text = filepath.Base(path), string(data)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %q: %w", name, err)
	}
	return &Builder{tmpl: tmpl}, nil
}

// Build substitutes the request fields and the market snapshot into the template.
// Values are inserted as-is: no escaping, no truncation.
func (b *Builder) Build(req *model.RecommendationRequest, snapshot model.MarketSnapshot) (string, error) {
	data := map[string]string{
		"budget":         req.Budget.String(),
		"risk_tolerance": textOrNull(req.RiskTolerance),
		"duration":       textOrNull(req.Duration),
		"goal":           textOrNull(req.Goal),
		"interest":       textOrNull(req.Interest),
		"crypto_data":    snapshot.String(),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template %q: %w", b.tmpl.Name(), err)
	}
	return buf.String(), nil
}

func textOrNull(s *string) string {
	if s == nil {
		return nullText
	}
	return *s
}
