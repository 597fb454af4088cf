// Package cmd wires the gh-org-stats command line: a root command carrying the
// logging flags and the collect subcommand that runs a collection.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gh-org-stats",
	Short: "Aggregates GitHub activity across an organization",
	Long: `gh-org-stats walks every repository of a GitHub organization and aggregates
signed commits, pull requests, code reviews and review comments per repository,
per organization member, and per member within each repository.

Run "gh-org-stats collect --help" for the date range, output and config options.`,
	SilenceUsage: true,
}

// Execute runs the command selected by os.Args and exits with status 1 when it fails.
// Cobra has already printed the error by then.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log API pagination and skipped records at debug level")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format written to stderr: text or json")
}
