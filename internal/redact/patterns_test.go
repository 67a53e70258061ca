package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/plananalyzer/internal/redact"
)

func TestMatcher_Match(t *testing.T) {
	matcher := redact.NewDefaultMatcher()

	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{
			name:     "exact pattern",
			key:      "password",
			expected: true,
		},
		{
			name:     "pattern as substring",
			key:      "db_password_v2",
			expected: true,
		},
		{
			name:     "case insensitive",
			key:      "AdminPassword",
			expected: true,
		},
		{
			name:     "key catches kms key id",
			key:      "kms_key_id",
			expected: true,
		},
		{
			name:     "cert catches certificate arn",
			key:      "certificate_arn",
			expected: true,
		},
		{
			name:     "plain attribute",
			key:      "instance_type",
			expected: false,
		},
		{
			name:     "connection string is not in the default set",
			key:      "connection_string",
			expected: false,
		},
		{
			name:     "empty key",
			key:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matcher.Match(tt.key))
		})
	}
}

func TestMatcher_CustomPatterns(t *testing.T) {
	matcher := redact.NewMatcher([]string{"Connection_String", "  internal_id  ", ""})

	assert.True(t, matcher.Match("connection_string"), "patterns are lowercased at construction")
	assert.True(t, matcher.Match("INTERNAL_ID"), "patterns are trimmed at construction")
	assert.False(t, matcher.Match("password"), "custom matcher does not inherit defaults")
}

func TestMatcher_IsPure(t *testing.T) {
	matcher := redact.NewDefaultMatcher()
	for i := 0; i < 3; i++ {
		assert.True(t, matcher.Match("secret_value"))
		assert.False(t, matcher.Match("region"))
	}
}

func TestDefaultPatterns_ReturnsCopy(t *testing.T) {
	patterns := redact.DefaultPatterns()
	patterns[0] = "mutated"
	assert.NotEqual(t, "mutated", redact.DefaultPatterns()[0])
}
