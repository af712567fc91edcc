package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"failsift-agent/src/store"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived failure reports from Postgres",
	Long: `Queries the report archive for the configured job and prints the
stored reports, newest build first. With --build only that build's
report is shown, together with how often its failure shape has been
archived across builds.

Requires FAILSIFT_PG_DSN. Reports are archived by 'analyze --save' or by
a running archive agent.

Example:
  failsift history
  failsift history --build 128`,
	Run: func(cmd *cobra.Command, args []string) {
		buildNumber, _ := cmd.Flags().GetInt("build")
		limit, _ := cmd.Flags().GetInt("limit")

		if appConfig.PostgresDSN == "" {
			fmt.Fprintln(os.Stderr, "ERROR: FAILSIFT_PG_DSN environment variable is required for history")
			fmt.Fprintln(os.Stderr, "Example: export FAILSIFT_PG_DSN=postgres://localhost:5432/failsift?sslmode=disable")
			os.Exit(1)
		}

		st, err := store.NewPostgresStore(appConfig.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		ctx := context.Background()
		if buildNumber > 0 {
			showReport(ctx, st, buildNumber)
			return
		}
		listReports(ctx, st, limit)
	},
}

func showReport(ctx context.Context, st store.Store, buildNumber int) {
	rep, err := st.GetReport(ctx, appConfig.JobName, buildNumber)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Printf("No stored report for %s #%d.\n", appConfig.JobName, buildNumber)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load report: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(rep.ReportText)
	if seen, err := st.RecurrenceCount(ctx, rep.Fingerprint); err == nil && seen > 1 {
		fmt.Printf("\nThis failure shape has been archived %d times.\n", seen)
	}
}

func listReports(ctx context.Context, st store.Store, limit int) {
	reports, err := st.ListReports(ctx, appConfig.JobName, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list reports: %v\n", err)
		os.Exit(1)
	}
	if len(reports) == 0 {
		fmt.Printf("No stored reports for job %s.\n", appConfig.JobName)
		return
	}

	for i, rep := range reports {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(rep.ReportText)
	}
}

func init() {
	historyCmd.Flags().Int("build", 0, "Show only the report for this build number")
	historyCmd.Flags().Int("limit", 20, "Maximum reports to list")

	rootCmd.AddCommand(historyCmd)
}
