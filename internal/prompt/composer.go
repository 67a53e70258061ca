// Package prompt assembles the analysis prompt sent to the model and
// estimates its token cost.
package prompt

import (
	"fmt"
	"strings"

	"github.com/yourusername/plananalyzer/internal/logger"
	"github.com/yourusername/plananalyzer/internal/redact"
	"github.com/yourusername/plananalyzer/internal/report"
	"github.com/yourusername/plananalyzer/internal/tfsource"
)

// Template placeholders. Both are replaced on every Compose call;
// {terraform_context} becomes empty when no source context was gathered.
const (
	PlaceholderChanges = "{changes_text}"
	PlaceholderContext = "{terraform_context}"
)

// changeSeparator divides per-resource descriptions in the changes section.
const changeSeparator = "\n\n===\n\n"

const defaultTemplate = `You are an experienced DevOps engineer reviewing a Terraform plan before it is applied.

Analyze the resource changes below and produce a concise review covering:
1. A summary of what will change and why it matters.
2. Risk assessment: call out destroyed or replaced resources, data loss potential, and downtime.
3. Security review: flag changes to IAM, network exposure, encryption, or secrets handling.
4. Recommendations: anything that should be double-checked or done differently before applying.

Values shown as [REDACTED] or [REDACTED_COMPLEX_VALUE] were removed for confidentiality; do not speculate about their contents.
{terraform_context}
Here are the planned resource changes:

{changes_text}
`

// Composer fills a prompt template with formatted changes and optional
// Terraform source context.
type Composer struct {
	template string
	log      *logger.Logger
}

// NewComposer creates a composer using template, or the built-in template
// when it is empty.
func NewComposer(template string, log *logger.Logger) *Composer {
	if template == "" {
		template = defaultTemplate
	}
	if log == nil {
		log = logger.DefaultLogger
	}
	return &Composer{template: template, log: log}
}

// ChangesText renders each sanitized change as a resource description and
// joins them. Returns the no-changes sentinel when nothing is actionable.
func ChangesText(formatter *report.ChangeFormatter, changes []*redact.SanitizedChange) string {
	var descriptions []string
	for _, change := range changes {
		block := formatter.Format(change)
		if block.Body == "" {
			continue
		}
		actions := make([]string, len(change.Actions))
		for i, a := range change.Actions {
			actions[i] = string(a)
		}
		descriptions = append(descriptions, fmt.Sprintf(
			"Resource: %s\nType: %s\nDocumentation: %s\n\nChange Summary:\nChanges detected for resource %s (%s) - Actions: %s\n%s",
			change.Address, change.Type, block.DocURL,
			change.Address, change.Type, strings.Join(actions, ", "),
			block.Body))
	}
	if len(descriptions) == 0 {
		return report.NoChangesText
	}
	return strings.Join(descriptions, changeSeparator)
}

// ContextText renders gathered source files as a fenced HCL section with a
// path header per file. Empty input yields an empty string so the template
// placeholder collapses cleanly.
func ContextText(files []tfsource.File) string {
	if len(files) == 0 {
		return ""
	}
	parts := make([]string, len(files))
	for i, f := range files {
		parts[i] = fmt.Sprintf("# File: %s\n\n%s", f.Path, f.Content)
	}
	return fmt.Sprintf(
		"\nI've also included the Terraform code that defines these resources. Use this to understand the relationships between resources and how they're configured:\n\n```hcl\n%s\n```\n",
		strings.Join(parts, "\n\n"))
}

// Compose substitutes the changes and context sections into the template.
func (c *Composer) Compose(changesText, contextText string) string {
	prompt := strings.ReplaceAll(c.template, PlaceholderContext, contextText)
	prompt = strings.ReplaceAll(prompt, PlaceholderChanges, changesText)
	c.log.Debug("Composed prompt: %d chars changes, %d chars context, %d chars total",
		len(changesText), len(contextText), len(prompt))
	return prompt
}
