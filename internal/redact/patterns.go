package redact

import "strings"

// defaultPatterns are attribute-name fragments that imply a secret value.
// Matching is case-insensitive substring, so "key" also catches "kms_key_id"
// and "ssh_public_key". The broad entries ("key", "cert", "private") are
// deliberate: this list is the safety net for values the plan's own
// sensitivity marks miss.
var defaultPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"cert",
	"private",
	"credential",
	"auth",
	"api_key",
	"api_secret",
	"api_token",
	"access_key",
	"session_token",
	"ssh_key",
	"client_secret",
	"passphrase",
	"license",
	"signature",
}

// DefaultPatterns returns a copy of the built-in sensitive-name pattern set.
func DefaultPatterns() []string {
	out := make([]string, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// Matcher decides whether an attribute name alone implies a sensitive value.
// It is pure: the same key always yields the same answer.
type Matcher struct {
	patterns []string
}

// NewMatcher creates a matcher over the given name patterns. Patterns are
// matched as case-insensitive substrings of the attribute key.
func NewMatcher(patterns []string) *Matcher {
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Matcher{patterns: lowered}
}

// NewDefaultMatcher creates a matcher over the built-in pattern set.
func NewDefaultMatcher() *Matcher {
	return NewMatcher(defaultPatterns)
}

// Match reports whether the attribute key name implies a sensitive value.
func (m *Matcher) Match(key string) bool {
	lowered := strings.ToLower(key)
	for _, p := range m.patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the matcher's pattern set.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}
