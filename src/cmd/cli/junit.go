package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"failsift-agent/src/classify"
	"failsift-agent/src/junit"
	"failsift-agent/src/report"
	"failsift-agent/src/sanitize"
)

// junitCmd represents the junit command
var junitCmd = &cobra.Command{
	Use:   "junit [report-file]",
	Short: "Summarize failures from a JUnit XML report",
	Long: `Parses a JUnit XML report (a single <testsuite> or a <testsuites>
wrapper), groups repeated failures by their recurrence hash and prints a
digest. The combined failure output is also run through the pattern
classifier.

Works on local files only; no Jenkins access is needed.

Example:
  failsift junit target/surefire-reports/TEST-com.acme.ApiTest.xml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read report: %v\n", err)
			os.Exit(1)
		}

		failures, err := junit.Parse(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to parse report: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(junit.Digest(failures))
		if len(failures) == 0 {
			return
		}

		findings := classify.Classify(sanitize.Clean(junit.CombinedOutput(failures)))
		fmt.Println()
		fmt.Println("📊 Pattern classifier findings:")
		fmt.Print(report.FindingsBlock(findings))
	},
}

func init() {
	rootCmd.AddCommand(junitCmd)
}
