package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var (
	configPath string
	outputFmt  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plananalyzer",
	Short: "Analyze Terraform plans and produce AI-assisted change reports",
	Long: `PlanAnalyzer turns a Terraform plan JSON file into a human-readable
change report, with sensitive values redacted before anything is written
out or sent to an AI model.

It summarizes creates, updates, destroys, and replacements, links each
resource to its provider documentation, and can ask Gemini for a risk
review of the planned changes.`,
}

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	rootCmd.Version = Version

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "format", "f", "markdown", "Report format (markdown, json, yaml)")
}
