package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rocketmo/gh-org-stats/internal/config"
	"github.com/rocketmo/gh-org-stats/internal/export"
	"github.com/rocketmo/gh-org-stats/internal/gateway"
	"github.com/rocketmo/gh-org-stats/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects organization activity and exports it as tables",
	Long: `Collects activity for every repository of a GitHub organization and writes three tables:
repos, users (organization members only) and user-by-repo, plus a summary table.

Settings are read from .gh-org-stats.yaml (or --config), then .env, then the environment
(ORG, PAT or GITHUB_TOKEN, START_DATE, END_DATE, OUTPUT_DIR, OUTPUT_FORMAT), then flags.`,
	Example: `  gh-org-stats collect --org my-org
  gh-org-stats collect --org my-org --from 2024-01-01 --to 2024-06-30 --format xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		configPath, _ := cmd.Flags().GetString("config")
		envPath, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.Load(configPath, envPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		window, err := cfg.Validate()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err := newLogger(cmd, logrus.Fields{"run_id": uuid.NewString()})
		if err != nil {
			return err
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.AccessToken(), gateway.Delays{
			Page:            cfg.Delays.Page,
			PullRequestPage: cfg.Delays.PullRequestPage,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		report, err := usecase.NewCollector(githubGateway, logger).Collect(ctx, cfg.Org, window)
		if err != nil {
			return fmt.Errorf("failed to collect stats: %w", err)
		}

		writer, err := export.NewWriter(cfg.OutputFormat, cfg.OutputDir, logger)
		if err != nil {
			return err
		}
		tables := export.Tables(report)
		if _, err := writer.Write(ctx, tables); err != nil {
			return fmt.Errorf("failed to export stats: %w", err)
		}

		if printSummary, _ := cmd.Flags().GetBool("print-summary"); printSummary {
			for _, table := range tables {
				if table.Name == export.SummaryTable {
					return export.Render(cmd.OutOrStdout(), table)
				}
			}
		}
		return nil
	},
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	overrides := map[string]*string{
		"org":    &cfg.Org,
		"from":   &cfg.StartDate,
		"to":     &cfg.EndDate,
		"output": &cfg.OutputDir,
		"format": &cfg.OutputFormat,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("org", "o", "", "Target GitHub organization login")
	collectCmd.Flags().String("from", "", "Start date (YYYY-MM-DD or RFC 3339)")
	collectCmd.Flags().String("to", "", "End date, inclusive (YYYY-MM-DD or RFC 3339)")
	collectCmd.Flags().StringP("output", "O", "", "Output directory (default \"output\")")
	collectCmd.Flags().StringP("format", "f", "", "Output format: csv or xlsx (default \"csv\")")
	collectCmd.Flags().StringP("config", "c", "", "Path to a YAML config file")
	collectCmd.Flags().String("env-file", ".env", "Path to a dotenv file")
	collectCmd.Flags().Bool("print-summary", false, "Print the summary table to stdout")
}
