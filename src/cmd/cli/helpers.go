package main

import (
	"fmt"
	"io"
	"os"

	"failsift-agent/src/analyst"
	"failsift-agent/src/broker"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/logger"
	"failsift-agent/src/pipeline"
	"failsift-agent/src/store"
)

// newTriageRunner builds the pipeline for one CLI invocation. publish
// attaches the Redpanda report bus and save attaches the Postgres archive;
// both exit the process with a hint when their configuration is missing.
// The returned cleanup closes whatever was attached.
func newTriageRunner(log logger.Logger, publish, save bool) (*pipeline.Runner, *jenkins.Client, func()) {
	source := jenkins.NewClient(appConfig.JenkinsURL, appConfig.JobName, appConfig.JenkinsUser, appConfig.JenkinsToken, log)

	ai, err := analyst.New(appConfig.DeepSeekAPIKey, appConfig.DeepSeekBaseURL, appConfig.DeepSeekModel, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", WrapError(err))
		os.Exit(1)
	}

	var bus broker.Broker
	if publish {
		if len(appConfig.Brokers) == 0 {
			fmt.Fprintln(os.Stderr, "ERROR: FAILSIFT_BROKERS environment variable is required for --publish")
			fmt.Fprintln(os.Stderr, "Example: export FAILSIFT_BROKERS=localhost:19092")
			os.Exit(1)
		}
		rp, err := broker.NewRedpandaBroker(appConfig.Brokers, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create broker: %v\n", err)
			os.Exit(1)
		}
		bus = rp
	}

	var archive store.Store
	if save {
		if appConfig.PostgresDSN == "" {
			fmt.Fprintln(os.Stderr, "ERROR: FAILSIFT_PG_DSN environment variable is required for --save")
			fmt.Fprintln(os.Stderr, "Example: export FAILSIFT_PG_DSN=postgres://localhost:5432/failsift?sslmode=disable")
			os.Exit(1)
		}
		pg, err := store.NewPostgresStore(appConfig.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		archive = pg
	}

	cleanup := func() {
		if bus != nil {
			bus.Close()
		}
		if archive != nil {
			archive.Close()
		}
	}

	return pipeline.New(appConfig.JobName, source, ai, bus, archive, log), source, cleanup
}

// resolveLimit applies the configured default when the --limit flag is unset.
func resolveLimit(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return appConfig.BuildLimit
}

// printResults writes the assembled reports, separated by blank lines.
func printResults(w io.Writer, job string, results []pipeline.Result) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No failure reports produced for job %s.\n", job)
		return
	}
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, result.Text)
	}
}
