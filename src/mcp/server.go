// Package mcp exposes the triage pipeline to MCP clients over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"failsift-agent/src/classify"
	"failsift-agent/src/logger"
	"failsift-agent/src/pipeline"
	"failsift-agent/src/report"
	"failsift-agent/src/sanitize"
)

// TriageRunner runs one triage pass over the configured job.
// *pipeline.Runner implements it.
type TriageRunner interface {
	Run(ctx context.Context, limit int) []pipeline.Result
}

// Server is the MCP server for failsift.
type Server struct {
	mcpServer *server.MCPServer
	runner    TriageRunner
	job       string
	store     ReportStore
	logger    logger.Logger
}

// NewServer creates a new MCP server for one Jenkins job.
func NewServer(job string, runner TriageRunner, log logger.Logger) *Server {
	s := server.NewMCPServer(
		"failsift",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		runner:    runner,
		job:       job,
		store:     NewInMemoryStore(),
		logger:    logger.OrSilent(log),
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_job",
		mcp.WithDescription("Analyze the configured Jenkins job's recent failed builds. Runs the full triage pipeline (console log fetch, pattern classification, AI analysis) and returns the assembled reports. Analyzed reports stay in the session store; use get_report to fetch one again."),
		mcp.WithNumber("limit",
			mcp.Description("Max failed builds to analyze (default: 5)"),
		),
	)

	reportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Get the stored report for one build analyzed earlier in this session."),
		mcp.WithNumber("build_number",
			mcp.Required(),
			mcp.Description("Build number from an earlier analyze_job run"),
		),
	)

	classifyTool := mcp.NewTool("classify_log",
		mcp.WithDescription("Run only the pattern classifier over pasted log text. No Jenkins or AI calls are made."),
		mcp.WithString("log",
			mcp.Required(),
			mcp.Description("Raw console log text to classify"),
		),
	)

	s.mcpServer.AddTool(analyzeTool, s.handleAnalyzeJob)
	s.mcpServer.AddTool(reportTool, s.handleGetReport)
	s.mcpServer.AddTool(classifyTool, s.handleClassifyLog)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleAnalyzeJob handles the analyze_job tool call.
func (s *Server) handleAnalyzeJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 5)

	s.logger.Info("[MCP] analyze_job limit=%d", limit)
	results := s.runner.Run(ctx, limit)
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no failed builds found for %s", s.job)), nil
	}

	var b strings.Builder
	for i, result := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(result.Text)
		s.store.Put(pipeline.NewFailureReport(s.job, result))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleGetReport handles the get_report tool call.
func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	buildNumber := request.GetInt("build_number", 0)
	if buildNumber <= 0 {
		return mcp.NewToolResultError("build_number parameter is required"), nil
	}

	stored, found := s.store.Get(s.job, buildNumber)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("no stored report for %s #%d; run analyze_job first", s.job, buildNumber)), nil
	}

	jsonBytes, err := json.Marshal(stored)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleClassifyLog handles the classify_log tool call.
func (s *Server) handleClassifyLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logText := request.GetString("log", "")
	if logText == "" {
		return mcp.NewToolResultError("log parameter is required"), nil
	}

	findings := classify.Classify(sanitize.Clean(logText))

	var b strings.Builder
	b.WriteString("📊 Pattern classifier findings:\n")
	b.WriteString(report.FindingsBlock(findings))
	return mcp.NewToolResultText(b.String()), nil
}
