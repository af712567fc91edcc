// Package main provides the failsift CLI, the entry point for triage runs
// against a Jenkins job. Subcommands are wired with the Cobra framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"failsift-agent/src/config"
)

var (
	// Application configuration, loaded before any command runs.
	appConfig *config.Config
	// Flag to enable debug logging in commands that log to the console.
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "failsift",
	Short: "Failsift - a failure triage tool for Jenkins jobs",
	Long: `Failsift inspects the recent failed builds of a Jenkins job, classifies
each console log against a table of known failure patterns and asks the
DeepSeek API for a root-cause verdict.

Every run is one sequential pipeline:
- Jenkins client: lists failed builds and fetches console log excerpts
- Pattern classifier: counts known failure categories in each log
- AI analyst: produces a root-cause verdict per build
- Report assembler: prints one human-readable report per build`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// junit works on local files and needs no Jenkins access.
		if cmd.Name() == "junit" {
			return
		}

		var err error
		appConfig, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Required: JENKINS_URL, JENKINS_USER, JENKINS_TOKEN and JOB_NAME")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
