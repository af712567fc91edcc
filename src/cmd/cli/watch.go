package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"failsift-agent/src/logger"
	"failsift-agent/src/pipeline"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the job and report new failed builds as they appear",
	Long: `Polls the configured job on a fixed interval and runs the triage
pipeline for failed builds that have not been reported yet in this
session. A build whose console log could not be fetched is retried on
the next poll.

Runs until interrupted (Ctrl+C).

Example:
  failsift watch
  failsift watch --interval 1m --limit 10`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		interval, _ := cmd.Flags().GetDuration("interval")
		runWatch(resolveLimit(limit), interval)
	},
}

func runWatch(limit int, interval time.Duration) {
	log := logger.NewConsoleLogger(verbose)
	runner, source, cleanup := newTriageRunner(log, false, false)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "Stopping watch...")
		cancel()
	}()

	fmt.Printf("👀 Watching %s every %s. Press Ctrl+C to stop.\n", appConfig.JobName, interval)

	seen := make(map[int]bool)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		for _, result := range collectNew(ctx, runner, source, limit, seen) {
			fmt.Println(result.Text)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// collectNew analyzes the failed builds not yet in seen and returns their
// results. A build stays unmarked when its log fetch fails so the next poll
// retries it.
func collectNew(ctx context.Context, runner *pipeline.Runner, source pipeline.BuildSource, limit int, seen map[int]bool) []pipeline.Result {
	builds, err := source.ListFailedBuilds(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list builds: %v\n", err)
		return nil
	}

	var results []pipeline.Result
	for _, build := range builds {
		if seen[build.Number] || ctx.Err() != nil {
			continue
		}
		result, err := runner.AnalyzeBuild(ctx, build)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping build #%d: %v\n", build.Number, err)
			continue
		}
		seen[build.Number] = true
		results = append(results, result)
	}
	return results
}

func init() {
	watchCmd.Flags().IntP("limit", "n", 0, "Maximum failed builds per poll (default: FAILSIFT_LIMIT or 5)")
	watchCmd.Flags().Duration("interval", 5*time.Minute, "Poll interval")

	rootCmd.AddCommand(watchCmd)
}
