// Package config loads optional analyzer configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds analyzer settings. Every field is optional; zero values fall
// back to built-in defaults.
type Config struct {
	// Model is the Gemini model used for analysis.
	Model string `yaml:"model"`
	// SensitivePatterns adds attribute name fragments to the built-in
	// sensitivity list. Matching is case-insensitive substring.
	SensitivePatterns []string `yaml:"sensitive_patterns"`
	// ContextLimits overrides per-model token budgets.
	ContextLimits map[string]int `yaml:"context_limits"`
	// ProviderDocs maps provider names to documentation base URLs, adding
	// to or replacing the built-in table.
	ProviderDocs map[string]string `yaml:"provider_docs"`
	// Ignore adds glob patterns excluded from Terraform source gathering.
	Ignore []string `yaml:"ignore"`
	// PromptFile points at a custom prompt template.
	PromptFile string `yaml:"prompt_file"`

	GitLab GitLabConfig `yaml:"gitlab"`
}

// GitLabConfig configures merge request note posting.
type GitLabConfig struct {
	// BaseURL is the GitLab instance URL; empty means gitlab.com.
	BaseURL string `yaml:"base_url"`
	// Project is the project ID or full path used for note posting.
	Project string `yaml:"project"`
}

// Default returns an empty configuration whose zero values select the
// built-in defaults everywhere.
func Default() *Config {
	return &Config{}
}

// Load reads configuration from path. An empty path returns defaults; a
// named file that is missing or malformed is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
	}
	return cfg, nil
}
