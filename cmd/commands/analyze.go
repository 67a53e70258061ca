package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/plananalyzer/internal/analyzer"
	"github.com/yourusername/plananalyzer/internal/config"
	"github.com/yourusername/plananalyzer/internal/gemini"
	"github.com/yourusername/plananalyzer/internal/gitlab"
	"github.com/yourusername/plananalyzer/internal/logger"
	"github.com/yourusername/plananalyzer/internal/report"
)

// NewAnalyzeCmd creates a new analyze command
func NewAnalyzeCmd() *cobra.Command {
	var (
		planPath      string
		outputPath    string
		sanitizedPath string
		promptPath    string
		tfDir         string
		skipCode      bool
		maxFiles      int
		model         string
		send          bool
		gitlabMR      int
		gitlabProject string
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a Terraform plan JSON file",
		Long: `Analyze a Terraform plan JSON file and produce a change report.

Sensitive values are redacted from the plan before any output is written.
With --send, the redacted changes are sent to Gemini for an AI risk review
(requires GEMINI_API_KEY). With --gitlab-comment, the report is posted as
a merge request note (requires GITLAB_TOKEN).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, analyzeOptions{
				planPath:      planPath,
				outputPath:    outputPath,
				sanitizedPath: sanitizedPath,
				promptPath:    promptPath,
				tfDir:         tfDir,
				skipCode:      skipCode,
				maxFiles:      maxFiles,
				model:         model,
				send:          send,
				gitlabMR:      gitlabMR,
				gitlabProject: gitlabProject,
				verbose:       verbose,
			})
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Path to Terraform plan JSON file (terraform show -json plan.out)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&sanitizedPath, "save-sanitized", "", "Write the redacted plan JSON to a file")
	cmd.Flags().StringVar(&promptPath, "save-prompt", "", "Write the composed analysis prompt to a file")
	cmd.Flags().StringVarP(&tfDir, "tf-dir", "d", "", "Terraform source directory to include as analysis context")
	cmd.Flags().BoolVar(&skipCode, "skip-code", false, "Do not include Terraform source context in the prompt")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Maximum number of Terraform source files to include (0 = no limit)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Gemini model to use for analysis")
	cmd.Flags().BoolVar(&send, "send", false, "Send the redacted changes to Gemini for AI analysis")
	cmd.Flags().IntVar(&gitlabMR, "gitlab-comment", 0, "Post the report as a note on this merge request IID")
	cmd.Flags().StringVar(&gitlabProject, "gitlab-project", "", "GitLab project ID or path (defaults to CI_PROJECT_ID)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.MarkFlagRequired("plan")

	return cmd
}

type analyzeOptions struct {
	planPath      string
	outputPath    string
	sanitizedPath string
	promptPath    string
	tfDir         string
	skipCode      bool
	maxFiles      int
	model         string
	send          bool
	gitlabMR      int
	gitlabProject string
	verbose       bool
}

func runAnalyze(cmd *cobra.Command, opts analyzeOptions) error {
	log := logger.DefaultLogger
	if opts.verbose {
		log.SetLevel(logger.LevelDebug)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	model := opts.model
	if model == "" {
		model = cfg.Model
	}
	if model == "" {
		model = gemini.DefaultModel
	}

	var template string
	if cfg.PromptFile != "" {
		data, err := os.ReadFile(cfg.PromptFile)
		if err != nil {
			return fmt.Errorf("failed to read prompt template %s: %v", cfg.PromptFile, err)
		}
		template = string(data)
	}

	planData, err := os.ReadFile(opts.planPath)
	if err != nil {
		return fmt.Errorf("failed to read plan file %s: %v", opts.planPath, err)
	}

	var provider analyzer.AnalysisProvider
	if opts.send {
		client, err := gemini.NewClient(model)
		if err != nil {
			return err
		}
		provider = client
	}

	a := analyzer.New(analyzer.Options{
		Config:         cfg,
		SourceDir:      opts.tfDir,
		SkipCode:       opts.skipCode,
		MaxFiles:       opts.maxFiles,
		PromptTemplate: template,
		Model:          model,
		Provider:       provider,
		Logger:         log,
	})

	result, err := a.Analyze(cmd.Context(), planData)
	if err != nil {
		return err
	}

	if opts.sanitizedPath != "" {
		data, err := json.MarshalIndent(result.SanitizedPlan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal sanitized plan: %v", err)
		}
		if err := os.WriteFile(opts.sanitizedPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write sanitized plan: %v", err)
		}
		log.Info("Sanitized plan written to %s", opts.sanitizedPath)
	}

	if opts.promptPath != "" {
		if err := os.WriteFile(opts.promptPath, []byte(result.Prompt), 0644); err != nil {
			return fmt.Errorf("failed to write prompt: %v", err)
		}
		log.Info("Prompt written to %s", opts.promptPath)
	}

	formatter, err := report.NewFormatter(report.FormatType(outputFmt))
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(result.Report)
	if err != nil {
		return fmt.Errorf("failed to render report: %v", err)
	}

	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, []byte(rendered), 0644); err != nil {
			return fmt.Errorf("failed to write report: %v", err)
		}
		log.Info("Report written to %s", opts.outputPath)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
	}

	if opts.gitlabMR > 0 {
		// A failed post is a warning: the local artifacts above are
		// already written and valid.
		if err := postGitLabNote(cmd, cfg, opts, result.Report); err != nil {
			log.Warn("Could not post report to GitLab: %v", err)
		}
	}

	return nil
}

// postGitLabNote renders the report as markdown, regardless of the chosen
// output format, and upserts it as a note on the merge request.
func postGitLabNote(cmd *cobra.Command, cfg *config.Config, opts analyzeOptions, rep *report.Report) error {
	project := opts.gitlabProject
	if project == "" {
		project = cfg.GitLab.Project
	}
	if project == "" {
		project = os.Getenv("CI_PROJECT_ID")
	}
	if project == "" {
		return fmt.Errorf("no GitLab project specified; use --gitlab-project, the config file, or CI_PROJECT_ID")
	}

	client, err := gitlab.NewClient(cfg.GitLab.BaseURL)
	if err != nil {
		return err
	}

	mdFormatter, err := report.NewFormatter(report.FormatMarkdown)
	if err != nil {
		return err
	}
	md, err := mdFormatter.Format(rep)
	if err != nil {
		return fmt.Errorf("failed to render report: %v", err)
	}

	if err := client.UpsertMRNote(cmd.Context(), project, opts.gitlabMR, md); err != nil {
		return fmt.Errorf("failed to post merge request note: %v", err)
	}
	logger.Info("Report posted to merge request !%d", opts.gitlabMR)
	return nil
}
