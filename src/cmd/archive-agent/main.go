// Package main provides the standalone archive agent binary. It consumes
// failure reports from the failsift.reports topic and persists them in
// Postgres for recurrence tracking.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"failsift-agent/src/archive"
	"failsift-agent/src/broker"
	"failsift-agent/src/config"
	"failsift-agent/src/logger"
	"failsift-agent/src/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.Brokers) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: FAILSIFT_BROKERS environment variable is required for the archive agent")
		fmt.Fprintln(os.Stderr, "Example: export FAILSIFT_BROKERS=localhost:19092")
		os.Exit(1)
	}
	if cfg.PostgresDSN == "" {
		fmt.Fprintln(os.Stderr, "ERROR: FAILSIFT_PG_DSN environment variable is required for the archive agent")
		fmt.Fprintln(os.Stderr, "Example: export FAILSIFT_PG_DSN=postgres://localhost:5432/failsift?sslmode=disable")
		os.Exit(1)
	}

	log := logger.NewConsoleLogger(false)

	log.Info("Starting Failsift Archive Agent")
	log.Info("Redpanda brokers: %v", cfg.Brokers)

	brk, err := broker.NewRedpandaBroker(cfg.Brokers, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broker: %v\n", err)
		os.Exit(1)
	}
	defer brk.Close()

	st, err := store.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	agent := archive.NewAgent(brk, st, log)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping agent...")
		cancel()
	}()

	log.Info("Archive agent started, consuming failure reports...")
	if err := agent.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Agent error: %v\n", err)
		os.Exit(1)
	}

	log.Info("Archive agent stopped")
}
