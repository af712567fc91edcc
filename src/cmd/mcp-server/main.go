// Package main provides the MCP server entry point for Failsift.
// This server implements the Model Context Protocol, enabling an AI client
// to trigger triage runs and query reports over stdio.
package main

import (
	"fmt"
	"log"
	"os"

	"failsift-agent/src/analyst"
	"failsift-agent/src/config"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/logger"
	"failsift-agent/src/mcp"
	"failsift-agent/src/pipeline"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// stdio transport: stdout carries the protocol, so nothing may log there.
	slog := logger.NewSilentLogger()

	source := jenkins.NewClient(cfg.JenkinsURL, cfg.JobName, cfg.JenkinsUser, cfg.JenkinsToken, slog)
	ai, err := analyst.New(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel, slog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analyst error: %v\n", err)
		os.Exit(1)
	}

	runner := pipeline.New(cfg.JobName, source, ai, nil, nil, slog)
	server := mcp.NewServer(cfg.JobName, runner, slog)

	if err := server.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
