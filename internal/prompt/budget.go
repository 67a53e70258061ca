package prompt

import (
	"fmt"
	"strings"
)

// tokensPerChar is the rough English-text token density used to estimate
// prompt size without a tokenizer.
const tokensPerChar = 0.25

// DefaultContextLimit is the token budget assumed for models without a
// known limit.
const DefaultContextLimit = 30000

// defaultContextLimits maps model names to their input token budgets.
var defaultContextLimits = map[string]int{
	"gemini-1.5-pro":   2000000,
	"gemini-1.5-flash": 1000000,
	"gemini-2.0-flash": 1000000,
	"gemini-pro":       30000,
}

// EstimateTokens approximates the token count of text using a fixed
// characters-per-token ratio. Deterministic for identical input.
func EstimateTokens(text string) int {
	return int(float64(len(text)) * tokensPerChar)
}

// Estimator checks prompt sizes against per-model context limits.
type Estimator struct {
	limits map[string]int
}

// NewEstimator creates an estimator with the built-in model limits plus any
// overrides, typically from configuration. Override keys are model names.
func NewEstimator(overrides map[string]int) *Estimator {
	limits := make(map[string]int, len(defaultContextLimits)+len(overrides))
	for model, limit := range defaultContextLimits {
		limits[model] = limit
	}
	for model, limit := range overrides {
		if model == "" || limit <= 0 {
			continue
		}
		limits[normalizeModel(model)] = limit
	}
	return &Estimator{limits: limits}
}

func normalizeModel(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}

// ContextLimit returns the token budget for model, falling back to
// DefaultContextLimit for unrecognized names.
func (e *Estimator) ContextLimit(model string) int {
	if limit, ok := e.limits[normalizeModel(model)]; ok {
		return limit
	}
	return DefaultContextLimit
}

// BudgetCheck is the outcome of comparing an estimated prompt size against
// a model's context limit.
type BudgetCheck struct {
	Model     string
	Estimated int
	Limit     int
	Exceeded  bool
}

// Warning renders the over-budget advisory, naming concrete remediations.
// Empty when the budget holds. The prompt is never truncated; callers
// proceed with the full prompt regardless.
func (c BudgetCheck) Warning() string {
	if !c.Exceeded {
		return ""
	}
	return fmt.Sprintf(
		"Estimated prompt size of %d tokens exceeds the %d token context limit for %s by %d tokens. "+
			"The full prompt will still be sent; consider --max-files to limit Terraform context files or --skip-code to omit source context entirely.",
		c.Estimated, c.Limit, c.Model, c.Estimated-c.Limit)
}

// CheckBudget estimates the prompt's token count and compares it with the
// model's context limit.
func (e *Estimator) CheckBudget(model, text string) BudgetCheck {
	estimated := EstimateTokens(text)
	limit := e.ContextLimit(model)
	return BudgetCheck{
		Model:     model,
		Estimated: estimated,
		Limit:     limit,
		Exceeded:  estimated > limit,
	}
}
