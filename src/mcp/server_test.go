package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"failsift-agent/src/classify"
	"failsift-agent/src/contracts"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/logger"
	"failsift-agent/src/pipeline"
)

type stubRunner struct {
	results   []pipeline.Result
	lastLimit int
}

func (s *stubRunner) Run(ctx context.Context, limit int) []pipeline.Result {
	s.lastLimit = limit
	return s.results
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func triageResult(buildNumber int, excerpt, verdict string) pipeline.Result {
	findings := classify.Classify(excerpt)
	return pipeline.Result{
		Build: jenkins.BuildSummary{
			Number:    buildNumber,
			URL:       "http://jenkins/job/payments-service/10/",
			Timestamp: 1716285600010,
		},
		Findings: findings,
		Verdict:  verdict,
		Text:     "report for build " + verdict,
	}
}

func TestHandleAnalyzeJob(t *testing.T) {
	runner := &stubRunner{results: []pipeline.Result{
		triageResult(10, "error: cannot find symbol", "ten"),
		triageResult(9, "Connection refused", "nine"),
	}}
	srv := NewServer("payments-service", runner, logger.NewSilentLogger())

	result, err := srv.handleAnalyzeJob(context.Background(), toolRequest(map[string]any{"limit": 3}))
	if err != nil {
		t.Fatalf("handleAnalyzeJob: %v", err)
	}
	if runner.lastLimit != 3 {
		t.Errorf("expected limit 3 passed to the runner, got %d", runner.lastLimit)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "report for build ten") || !strings.Contains(text, "report for build nine") {
		t.Errorf("expected both reports in the response, got:\n%s", text)
	}

	if _, found := srv.store.Get("payments-service", 10); !found {
		t.Error("expected analyze_job to record build 10 in the session store")
	}
	if _, found := srv.store.Get("payments-service", 9); !found {
		t.Error("expected analyze_job to record build 9 in the session store")
	}
}

func TestHandleAnalyzeJobDefaultLimit(t *testing.T) {
	runner := &stubRunner{}
	srv := NewServer("payments-service", runner, logger.NewSilentLogger())

	result, err := srv.handleAnalyzeJob(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleAnalyzeJob: %v", err)
	}
	if runner.lastLimit != 5 {
		t.Errorf("expected default limit 5, got %d", runner.lastLimit)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "no failed builds found for payments-service") {
		t.Errorf("expected the no-failures line, got %q", text)
	}
}

func TestHandleGetReport(t *testing.T) {
	srv := NewServer("payments-service", &stubRunner{}, logger.NewSilentLogger())
	srv.store.Put(&contracts.FailureReport{
		Job:         "payments-service",
		BuildNumber: 10,
		Verdict:     "missing dependency",
	})

	result, err := srv.handleGetReport(context.Background(), toolRequest(map[string]any{"build_number": 10}))
	if err != nil {
		t.Fatalf("handleGetReport: %v", err)
	}

	var report contracts.FailureReport
	if err := json.Unmarshal([]byte(resultText(t, result)), &report); err != nil {
		t.Fatalf("failed to decode report JSON: %v", err)
	}
	if report.Verdict != "missing dependency" {
		t.Errorf("expected the stored verdict, got %q", report.Verdict)
	}
}

func TestHandleGetReportMissing(t *testing.T) {
	srv := NewServer("payments-service", &stubRunner{}, logger.NewSilentLogger())

	result, err := srv.handleGetReport(context.Background(), toolRequest(map[string]any{"build_number": 99}))
	if err != nil {
		t.Fatalf("handleGetReport: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result for a missing report")
	}
}

func TestHandleGetReportRequiresBuildNumber(t *testing.T) {
	srv := NewServer("payments-service", &stubRunner{}, logger.NewSilentLogger())

	result, err := srv.handleGetReport(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleGetReport: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result when build_number is absent")
	}
}

func TestHandleClassifyLog(t *testing.T) {
	srv := NewServer("payments-service", &stubRunner{}, logger.NewSilentLogger())

	result, err := srv.handleClassifyLog(context.Background(), toolRequest(map[string]any{
		"log": "Connection refused\r\nConnection refused\r\n",
	}))
	if err != nil {
		t.Fatalf("handleClassifyLog: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "network-error: 2 occurrences") {
		t.Errorf("expected classifier findings, got:\n%s", text)
	}
}

func TestHandleClassifyLogRequiresLog(t *testing.T) {
	srv := NewServer("payments-service", &stubRunner{}, logger.NewSilentLogger())

	result, err := srv.handleClassifyLog(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleClassifyLog: %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result when log is absent")
	}
}
