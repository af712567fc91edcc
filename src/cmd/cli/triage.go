package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"failsift-agent/src/contracts"
	"failsift-agent/src/logger"
	"failsift-agent/src/pipeline"
	"failsift-agent/src/tui"
)

// triageCmd represents the triage command
var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Analyze recent failed builds and browse the reports in a TUI",
	Long: `Runs one triage pass like 'analyze', then opens an interactive
two-pane browser over the reports: failed builds on the left, the full
report for the selected build on the right.

Keys: up/k and down/j move, tab focuses the report pane, d/u scroll it
half a page, g/G jump to the ends, q quits.

Example:
  failsift triage
  failsift triage --limit 10`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		// The TUI owns the terminal; keep the pipeline quiet.
		log := logger.NewSilentLogger()
		runner, _, cleanup := newTriageRunner(log, false, false)
		defer cleanup()

		fmt.Printf("Analyzing recent failed builds of %s...\n", appConfig.JobName)
		results := runner.Run(context.Background(), resolveLimit(limit))
		if len(results) == 0 {
			fmt.Printf("No failure reports produced for job %s.\n", appConfig.JobName)
			return
		}

		reports := make([]*contracts.FailureReport, len(results))
		for i, result := range results {
			reports[i] = pipeline.NewFailureReport(appConfig.JobName, result)
		}

		if err := tui.Start(appConfig.JobName, reports); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	triageCmd.Flags().IntP("limit", "n", 0, "Maximum failed builds to analyze (default: FAILSIFT_LIMIT or 5)")

	rootCmd.AddCommand(triageCmd)
}
