package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yourusername/plananalyzer/internal/redact"
	"gopkg.in/yaml.v3"
)

// NoChangesText is the canonical report body for a plan with no effective
// changes. Callers compare against it, so it must stay stable.
const NoChangesText = "No changes detected in the Terraform plan."

// Summary counts changes by action.
type Summary struct {
	Create  int `json:"create" yaml:"create"`
	Update  int `json:"update" yaml:"update"`
	Delete  int `json:"delete" yaml:"delete"`
	Replace int `json:"replace" yaml:"replace"`
	Total   int `json:"total" yaml:"total"`
}

// ResourceSection is one resource's entry in the report.
type ResourceSection struct {
	Address       string   `json:"address" yaml:"address"`
	Action        string   `json:"action" yaml:"action"`
	Symbol        string   `json:"symbol" yaml:"symbol"`
	Body          string   `json:"body" yaml:"body"`
	DocURL        string   `json:"doc_url,omitempty" yaml:"doc_url,omitempty"`
	SensitiveKeys []string `json:"sensitive_keys,omitempty" yaml:"sensitive_keys,omitempty"`
}

// Report is the structured analysis result rendered by a Formatter.
type Report struct {
	Summary      Summary           `json:"summary" yaml:"summary"`
	Resources    []ResourceSection `json:"resources" yaml:"resources"`
	Analysis     string            `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	TokenWarning string            `json:"token_warning,omitempty" yaml:"token_warning,omitempty"`
}

// FormatType represents the output format for the report.
type FormatType string

const (
	// FormatMarkdown outputs the report as a markdown document.
	FormatMarkdown FormatType = "markdown"
	// FormatJSON outputs the report in JSON format.
	FormatJSON FormatType = "json"
	// FormatYAML outputs the report in YAML format.
	FormatYAML FormatType = "yaml"
)

// Formatter defines the interface for rendering reports.
type Formatter interface {
	Format(report *Report) (string, error)
}

// NewFormatter creates a new formatter based on the specified format.
func NewFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatMarkdown:
		return &markdownFormatter{}, nil
	case FormatJSON:
		return &jsonFormatter{}, nil
	case FormatYAML:
		return &yamlFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format(report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot format nil report")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %v", err)
	}
	return string(data), nil
}

type yamlFormatter struct{}

func (f *yamlFormatter) Format(report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot format nil report")
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to YAML: %v", err)
	}
	return string(data), nil
}

type markdownFormatter struct{}

func (f *markdownFormatter) Format(report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot format nil report")
	}

	var sb strings.Builder
	sb.WriteString("# Terraform Plan Analysis\n\n")

	if report.Summary.Total == 0 {
		sb.WriteString(NoChangesText)
		sb.WriteString("\n")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "**%d to create, %d to update, %d to replace, %d to destroy**\n\n",
		report.Summary.Create, report.Summary.Update, report.Summary.Replace, report.Summary.Delete)

	if report.TokenWarning != "" {
		fmt.Fprintf(&sb, "> ⚠️ %s\n\n", report.TokenWarning)
	}

	sb.WriteString("## Resource changes\n\n")
	for _, res := range report.Resources {
		fmt.Fprintf(&sb, "<details>\n<summary><code>%s</code> %s — %s</summary>\n\n", res.Symbol, res.Address, res.Action)
		sb.WriteString(callout(res))
		sb.WriteString("```hcl\n")
		sb.WriteString(res.Body)
		sb.WriteString("\n```\n")
		if len(res.SensitiveKeys) > 0 {
			fmt.Fprintf(&sb, "\nSensitive attributes (redacted): `%s`\n", strings.Join(res.SensitiveKeys, "`, `"))
		}
		if res.DocURL != "" {
			fmt.Fprintf(&sb, "\nDocumentation: %s\n", res.DocURL)
		}
		sb.WriteString("\n</details>\n\n")
	}

	if report.Analysis != "" {
		sb.WriteString("## Analysis\n\n")
		sb.WriteString(report.Analysis)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// callout returns a severity-style admonition line for a resource section.
func callout(res ResourceSection) string {
	switch res.Symbol {
	case "-":
		return "> ❗ This resource will be destroyed.\n\n"
	case "-/+":
		return "> ⚠️ This resource will be destroyed and recreated.\n\n"
	case "~":
		return "> ℹ️ This resource will be modified in place.\n\n"
	default:
		return ""
	}
}

// BuildReport assembles the structured report from sanitized changes, in
// plan order. Changes that do not classify (e.g. read-only) are skipped.
func BuildReport(formatter *ChangeFormatter, changes []*redact.SanitizedChange) *Report {
	report := &Report{}
	for _, sc := range changes {
		block := formatter.Format(sc)
		if block.Body == "" {
			continue
		}
		switch block.Symbol {
		case "+":
			report.Summary.Create++
		case "~":
			report.Summary.Update++
		case "-":
			report.Summary.Delete++
		case "-/+":
			report.Summary.Replace++
		}
		report.Summary.Total++
		report.Resources = append(report.Resources, ResourceSection{
			Address:       block.Address,
			Action:        block.Action,
			Symbol:        block.Symbol,
			Body:          block.Body,
			DocURL:        block.DocURL,
			SensitiveKeys: sc.SensitiveKeys,
		})
	}
	return report
}
