package report_test

import (
	"strings"
	"testing"

	tfjson "github.com/hashicorp/terraform-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/plananalyzer/internal/redact"
	"github.com/yourusername/plananalyzer/internal/report"
)

func newFormatter() *report.ChangeFormatter {
	return report.NewChangeFormatter(report.NewDocResolver(nil))
}

func TestFormat_Create(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address:      "aws_instance.web",
		Type:         "aws_instance",
		Name:         "web",
		ProviderName: "registry.terraform.io/hashicorp/aws",
		Actions:      tfjson.Actions{tfjson.ActionCreate},
		After: map[string]interface{}{
			"id":            nil,
			"name":          "web-1",
			"instance_type": "t3.micro",
			"ami":           "ami-123",
		},
	}

	block := newFormatter().Format(sc)

	assert.Equal(t, "will be created", block.Action)
	assert.Equal(t, "+", block.Symbol)
	assert.Equal(t,
		"https://registry.terraform.io/providers/hashicorp/aws/latest/docs/resources/aws-instance",
		block.DocURL)

	lines := strings.Split(block.Body, "\n")
	assert.Equal(t, "# aws_instance.web will be created", lines[0])
	assert.Equal(t, `+ resource "aws_instance" "web" {`, lines[1])
	// name renders before the remaining sorted attributes; null id is skipped.
	assert.Equal(t, `  + name = "web-1"`, lines[2])
	assert.Equal(t, `  + ami = "ami-123"`, lines[3])
	assert.Equal(t, `  + instance_type = "t3.micro"`, lines[4])
	assert.Equal(t, "}", lines[5])
}

func TestFormat_Destroy(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address:      "aws_s3_bucket.logs",
		Type:         "aws_s3_bucket",
		Name:         "logs",
		ProviderName: "registry.terraform.io/hashicorp/aws",
		Actions:      tfjson.Actions{tfjson.ActionDelete},
		Before: map[string]interface{}{
			"id":     "logs-bucket",
			"bucket": "logs-bucket",
		},
	}

	block := newFormatter().Format(sc)

	assert.Equal(t, "will be destroyed", block.Action)
	assert.Equal(t, "-", block.Symbol)
	assert.Contains(t, block.Body, "# aws_s3_bucket.logs will be destroyed")
	assert.Contains(t, block.Body, `  - id = "logs-bucket"`)
	assert.Contains(t, block.Body, `  - bucket = "logs-bucket"`)
}

func TestFormat_Update(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address:      "aws_db_instance.main",
		Type:         "aws_db_instance",
		Name:         "main",
		ProviderName: "registry.terraform.io/hashicorp/aws",
		Actions:      tfjson.Actions{tfjson.ActionUpdate},
		Before: map[string]interface{}{
			"instance_class": "db.t3.micro",
			"engine":         "postgres",
			"port":           float64(5432),
		},
		After: map[string]interface{}{
			"instance_class": "db.t3.small",
			"engine":         "postgres",
			"port":           float64(5432),
		},
	}

	block := newFormatter().Format(sc)

	assert.Equal(t, "will be updated in-place", block.Action)
	assert.Equal(t, "~", block.Symbol)
	assert.Contains(t, block.Body, `  ~ instance_class = "db.t3.micro" -> "db.t3.small"`)
	assert.Contains(t, block.Body, "  # (2 unchanged attributes hidden)")
	assert.NotContains(t, block.Body, "postgres")
}

func TestFormat_Replace(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address:      "aws_instance.web",
		Type:         "aws_instance",
		Name:         "web",
		ProviderName: "registry.terraform.io/hashicorp/aws",
		Actions:      tfjson.Actions{tfjson.ActionDelete, tfjson.ActionCreate},
		Before:       map[string]interface{}{"ami": "ami-old"},
		After:        map[string]interface{}{"ami": "ami-new"},
	}

	block := newFormatter().Format(sc)

	assert.Equal(t, "must be replaced", block.Action)
	assert.Equal(t, "-/+", block.Symbol)
	assert.Contains(t, block.Body, `  ~ ami = "ami-old" -> "ami-new"`)
}

func TestFormat_ReadActionIsSkipped(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address: "data.aws_ami.latest",
		Type:    "aws_ami",
		Actions: tfjson.Actions{tfjson.ActionRead},
	}

	block := newFormatter().Format(sc)
	assert.Empty(t, block.Body)
	assert.Empty(t, block.Action)
}

func TestFormat_Deterministic(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address:      "aws_instance.web",
		Type:         "aws_instance",
		ProviderName: "registry.terraform.io/hashicorp/aws",
		Actions:      tfjson.Actions{tfjson.ActionCreate},
		After: map[string]interface{}{
			"c": "3", "a": "1", "b": "2", "tags": map[string]interface{}{"z": "9", "y": "8"},
		},
	}

	f := newFormatter()
	first := f.Format(sc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, f.Format(sc))
	}
}

func TestFormat_ModuleAddress(t *testing.T) {
	sc := &redact.SanitizedChange{
		Address: "module.network.aws_vpc.main",
		Type:    "aws_vpc",
		Actions: tfjson.Actions{tfjson.ActionCreate},
		After:   map[string]interface{}{"cidr_block": "10.0.0.0/16"},
	}

	block := newFormatter().Format(sc)
	require.NotEmpty(t, block.Body)
	assert.Contains(t, block.Body, `resource "module" "network.aws_vpc.main"`)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"null", nil, "null"},
		{"string", "web", `"web"`},
		{"bool", true, "true"},
		{"integer float", float64(5432), "5432"},
		{"fractional float", 1.5, "1.5"},
		{"empty list", []interface{}{}, "[]"},
		{"short list", []interface{}{"a", "b"}, `["a", "b"]`},
		{"empty map", map[string]interface{}{}, "{}"},
		{
			name:     "short map with sorted keys",
			value:    map[string]interface{}{"b": "2", "a": "1"},
			expected: `{ a = "1", b = "2" }`,
		},
		{
			name:     "redaction marker renders as a plain string",
			value:    redact.Marker,
			expected: `"[REDACTED]"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, report.FormatValue(tt.value))
		})
	}
}

func TestFormatValue_LongCollectionsBreakLines(t *testing.T) {
	long := []interface{}{
		"subnet-aaaaaaaaaaaaaaaaa", "subnet-bbbbbbbbbbbbbbbbb", "subnet-ccccccccccccccccc",
	}
	formatted := report.FormatValue(long)
	assert.True(t, strings.HasPrefix(formatted, "[\n"))
	assert.Contains(t, formatted, ",\n    ")
}
