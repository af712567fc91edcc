package main

import (
	"strings"
	"testing"

	"failsift-agent/src/config"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/pipeline"
)

func TestResolveLimit(t *testing.T) {
	appConfig = &config.Config{BuildLimit: 7}

	if got := resolveLimit(0); got != 7 {
		t.Errorf("resolveLimit(0) = %d, want the configured 7", got)
	}
	if got := resolveLimit(3); got != 3 {
		t.Errorf("resolveLimit(3) = %d, want the flag value", got)
	}
}

func TestPrintResults(t *testing.T) {
	results := []pipeline.Result{
		{Build: jenkins.BuildSummary{Number: 12}, Text: "report for #12\n"},
		{Build: jenkins.BuildSummary{Number: 11}, Text: "report for #11\n"},
	}

	var b strings.Builder
	printResults(&b, "payments-service", results)

	want := "report for #12\n\nreport for #11\n"
	if b.String() != want {
		t.Errorf("printResults() = %q, want %q", b.String(), want)
	}
}

func TestPrintResultsEmpty(t *testing.T) {
	var b strings.Builder
	printResults(&b, "payments-service", nil)

	if !strings.Contains(b.String(), "No failure reports produced for job payments-service.") {
		t.Errorf("printResults() = %q, want the empty-run notice", b.String())
	}
}
