package prompt_test

import (
	"strings"
	"testing"

	tfjson "github.com/hashicorp/terraform-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/plananalyzer/internal/prompt"
	"github.com/yourusername/plananalyzer/internal/redact"
	"github.com/yourusername/plananalyzer/internal/report"
	"github.com/yourusername/plananalyzer/internal/tfsource"
)

func TestCompose_CustomTemplate(t *testing.T) {
	c := prompt.NewComposer("CHANGES:\n{changes_text}\nCONTEXT:\n{terraform_context}\nEND", nil)

	out := c.Compose("the changes", "the context")

	assert.Equal(t, "CHANGES:\nthe changes\nCONTEXT:\nthe context\nEND", out)
}

func TestCompose_DefaultTemplate(t *testing.T) {
	c := prompt.NewComposer("", nil)

	out := c.Compose("aws_instance.web will be created", "")

	assert.Contains(t, out, "aws_instance.web will be created")
	assert.NotContains(t, out, prompt.PlaceholderChanges)
	assert.NotContains(t, out, prompt.PlaceholderContext)
	// The model is told not to guess at redacted values.
	assert.Contains(t, out, redact.Marker)
}

func TestChangesText(t *testing.T) {
	formatter := report.NewChangeFormatter(report.NewDocResolver(nil))
	changes := []*redact.SanitizedChange{
		{
			Address:      "aws_instance.web",
			Type:         "aws_instance",
			Name:         "web",
			ProviderName: "registry.terraform.io/hashicorp/aws",
			Actions:      tfjson.Actions{tfjson.ActionCreate},
			After:        map[string]interface{}{"instance_type": "t3.micro"},
		},
		{
			Address:      "aws_s3_bucket.old",
			Type:         "aws_s3_bucket",
			Name:         "old",
			ProviderName: "registry.terraform.io/hashicorp/aws",
			Actions:      tfjson.Actions{tfjson.ActionDelete},
			Before:       map[string]interface{}{"bucket": "old-bucket"},
		},
	}

	text := prompt.ChangesText(formatter, changes)

	parts := strings.Split(text, "\n\n===\n\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], "Resource: aws_instance.web")
	assert.Contains(t, parts[0], "Type: aws_instance")
	assert.Contains(t, parts[0], "Actions: create")
	assert.Contains(t, parts[0], "Documentation: https://registry.terraform.io/providers/hashicorp/aws/latest/docs/resources/aws-instance")
	assert.Contains(t, parts[1], "Resource: aws_s3_bucket.old")
	assert.Contains(t, parts[1], "Actions: delete")
}

func TestChangesText_NoChanges(t *testing.T) {
	formatter := report.NewChangeFormatter(report.NewDocResolver(nil))

	assert.Equal(t, report.NoChangesText, prompt.ChangesText(formatter, nil))
}

func TestContextText(t *testing.T) {
	files := []tfsource.File{
		{Path: "main.tf", Content: `resource "aws_instance" "web" {}`},
		{Path: "db/rds.tf", Content: `resource "aws_db_instance" "main" {}`},
	}

	text := prompt.ContextText(files)

	assert.Contains(t, text, "# File: main.tf")
	assert.Contains(t, text, "# File: db/rds.tf")
	assert.Contains(t, text, "```hcl")
	assert.Contains(t, text, `resource "aws_db_instance" "main" {}`)
}

func TestContextText_Empty(t *testing.T) {
	assert.Empty(t, prompt.ContextText(nil))
}
