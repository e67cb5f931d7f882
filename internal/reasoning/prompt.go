package reasoning

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"ghostpayroll/internal/dataprocessing"
)

//go:embed prompt.tmpl
var promptTemplate string

// PromptBuilder renders the analysis prompt from a reasoning context
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the embedded prompt template
func NewPromptBuilder() (*PromptBuilder, error) {
	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"metric": formatMetric,
	}).Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the prompt
func (b *PromptBuilder) Build(c *dataprocessing.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil reasoning context")
	}
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, c); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}

// formatMetric prints an average with two decimals, or n/a when undefined
func formatMetric(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
