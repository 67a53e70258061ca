// Package analyzer wires plan parsing, redaction, formatting, source
// context gathering, and prompt composition into one pipeline.
package analyzer

import (
	"context"
	"fmt"

	"github.com/yourusername/plananalyzer/internal/config"
	"github.com/yourusername/plananalyzer/internal/logger"
	"github.com/yourusername/plananalyzer/internal/prompt"
	"github.com/yourusername/plananalyzer/internal/redact"
	"github.com/yourusername/plananalyzer/internal/report"
	"github.com/yourusername/plananalyzer/internal/terraform"
	"github.com/yourusername/plananalyzer/internal/tfsource"
)

// AnalysisProvider generates the AI analysis for a composed prompt.
// *gemini.Client satisfies it; tests substitute fakes.
type AnalysisProvider interface {
	Analyze(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Options configures an analysis run.
type Options struct {
	// Config supplies pattern, doc URL, limit, and ignore overrides. Nil
	// means all defaults.
	Config *config.Config
	// SourceDir is the Terraform source tree read for context; empty
	// disables context gathering.
	SourceDir string
	// SkipCode disables source context gathering even when SourceDir is
	// set.
	SkipCode bool
	// MaxFiles caps gathered context files; zero means no cap.
	MaxFiles int
	// PromptTemplate overrides the built-in prompt template text.
	PromptTemplate string
	// Model names the target model for token budgeting, and for analysis
	// when Provider is nil but budgeting still applies.
	Model string
	// Provider, when set, is called with the composed prompt to produce
	// the report's analysis section.
	Provider AnalysisProvider

	Logger *logger.Logger
}

// Result is everything one analysis run produces.
type Result struct {
	// Changes are the sanitized actionable resource changes, in plan
	// order.
	Changes []*redact.SanitizedChange
	// Report is the structured report ready for rendering.
	Report *report.Report
	// SanitizedPlan is the full plan document with sensitive values
	// redacted, suitable for saving to disk.
	SanitizedPlan map[string]interface{}
	// Prompt is the composed prompt text.
	Prompt string
	// Budget is the token budget check for Prompt.
	Budget prompt.BudgetCheck
	// Context is the gathered source context, nil when skipped.
	Context *tfsource.Result
}

// Analyzer runs the analysis pipeline.
type Analyzer struct {
	opts      Options
	cfg       *config.Config
	log       *logger.Logger
	matcher   *redact.Matcher
	redactor  *redact.Redactor
	formatter *report.ChangeFormatter
	composer  *prompt.Composer
	estimator *prompt.Estimator
}

// New creates an analyzer from opts.
func New(opts Options) *Analyzer {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.DefaultLogger
	}

	patterns := append(redact.DefaultPatterns(), cfg.SensitivePatterns...)
	matcher := redact.NewMatcher(patterns)

	return &Analyzer{
		opts:      opts,
		cfg:       cfg,
		log:       log,
		matcher:   matcher,
		redactor:  redact.NewRedactor(matcher),
		formatter: report.NewChangeFormatter(report.NewDocResolver(cfg.ProviderDocs)),
		composer:  prompt.NewComposer(opts.PromptTemplate, log),
		estimator: prompt.NewEstimator(cfg.ContextLimits),
	}
}

// Analyze parses planData and runs the full pipeline. A malformed plan or a
// resource change missing its identity fields is a hard error; everything
// downstream of a valid plan degrades instead of failing.
func (a *Analyzer) Analyze(ctx context.Context, planData []byte) (*Result, error) {
	plan, err := terraform.ParsePlan(planData)
	if err != nil {
		return nil, err
	}

	changes, err := terraform.ExtractChanges(plan.Parsed)
	if err != nil {
		return nil, err
	}
	a.log.Info("Found %d actionable resource changes", len(changes))

	sanitized := make([]*redact.SanitizedChange, 0, len(changes))
	for _, rc := range changes {
		sanitized = append(sanitized, a.redactor.SanitizeChange(rc))
	}

	sanitizedPlan, _ := a.redactor.SanitizePlan(plan.Raw).(map[string]interface{})
	result := &Result{
		Changes:       sanitized,
		SanitizedPlan: sanitizedPlan,
		Report:        report.BuildReport(a.formatter, sanitized),
	}

	if a.opts.SourceDir != "" {
		reader := tfsource.NewReader(a.matcher, a.log, tfsource.Options{
			MaxFiles: a.opts.MaxFiles,
			Skip:     a.opts.SkipCode,
			Ignore:   a.cfg.Ignore,
		})
		ctxFiles, err := reader.Read(a.opts.SourceDir)
		if err != nil {
			// Missing context degrades the analysis but never blocks it.
			a.log.Warn("Proceeding without Terraform source context: %v", err)
			ctxFiles = &tfsource.Result{}
		}
		result.Context = ctxFiles
	}

	changesText := prompt.ChangesText(a.formatter, sanitized)
	var contextText string
	if result.Context != nil {
		contextText = prompt.ContextText(result.Context.Files)
	}
	result.Prompt = a.composer.Compose(changesText, contextText)

	result.Budget = a.estimator.CheckBudget(a.model(), result.Prompt)
	if result.Budget.Exceeded {
		warning := result.Budget.Warning()
		a.log.Warn("%s", warning)
		result.Report.TokenWarning = warning
	}

	if a.opts.Provider != nil && len(sanitized) > 0 {
		analysis, err := a.opts.Provider.Analyze(ctx, result.Prompt)
		if err != nil {
			return nil, fmt.Errorf("AI analysis failed: %v", err)
		}
		result.Report.Analysis = analysis
	}

	return result, nil
}

func (a *Analyzer) model() string {
	if a.opts.Provider != nil {
		return a.opts.Provider.Model()
	}
	if a.opts.Model != "" {
		return a.opts.Model
	}
	if a.cfg.Model != "" {
		return a.cfg.Model
	}
	return "gemini-1.5-pro"
}
