package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/plananalyzer/internal/config"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Model)
	assert.Empty(t, cfg.SensitivePatterns)
	assert.Empty(t, cfg.GitLab.BaseURL)
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `model: gemini-1.5-flash
sensitive_patterns:
  - connection_string
  - internal_id
context_limits:
  gemini-1.5-flash: 500000
provider_docs:
  registry.terraform.io/acme/widgets: https://docs.acme.example/resources/
ignore:
  - generated/**
prompt_file: prompts/review.txt
gitlab:
  base_url: https://gitlab.example.com
  project: infra/terraform
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, []string{"connection_string", "internal_id"}, cfg.SensitivePatterns)
	assert.Equal(t, 500000, cfg.ContextLimits["gemini-1.5-flash"])
	assert.Equal(t, "https://docs.acme.example/resources/", cfg.ProviderDocs["registry.terraform.io/acme/widgets"])
	assert.Equal(t, []string{"generated/**"}, cfg.Ignore)
	assert.Equal(t, "prompts/review.txt", cfg.PromptFile)
	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.BaseURL)
	assert.Equal(t, "infra/terraform", cfg.GitLab.Project)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
