// Package cli implements the faqd command-line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/civika-labs/faqd/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "faqd",
	Short: "Grounded municipal FAQ assistant",
	Long: `faqd answers citizen questions using only the content of a curated
municipal FAQ document. Answers are retrieved, generated and then verified
against the document; questions the document cannot answer are refused
rather than improvised.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A missing .env file is the normal case, not an error.
		_ = godotenv.Load()
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.faqd/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version. Called from main with the
// build-time value.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
