package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"failsift-agent/src/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the job's recent failed builds and print a report per build",
	Long: `Runs one triage pass: lists the most recent failed builds of the
configured job, fetches each console log excerpt, classifies it and asks
the AI analyst for a root-cause verdict.

By default reports are only printed. With --publish each report is also
published to the failsift.reports topic (requires FAILSIFT_BROKERS); with
--save each report is archived in Postgres (requires FAILSIFT_PG_DSN).

Example:
  failsift analyze
  failsift analyze --limit 10
  failsift analyze --publish --save`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		publish, _ := cmd.Flags().GetBool("publish")
		save, _ := cmd.Flags().GetBool("save")

		log := logger.NewConsoleLogger(verbose)
		runner, _, cleanup := newTriageRunner(log, publish, save)
		defer cleanup()

		results := runner.Run(context.Background(), resolveLimit(limit))
		printResults(os.Stdout, appConfig.JobName, results)
	},
}

func init() {
	analyzeCmd.Flags().IntP("limit", "n", 0, "Maximum failed builds to analyze (default: FAILSIFT_LIMIT or 5)")
	analyzeCmd.Flags().Bool("publish", false, "Publish each report to the failsift.reports topic")
	analyzeCmd.Flags().Bool("save", false, "Archive each report in Postgres")

	rootCmd.AddCommand(analyzeCmd)
}
