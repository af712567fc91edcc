package tui

import (
	"testing"
	"time"

	"failsift-agent/src/contracts"
)

func TestAgeString(t *testing.T) {
	now := time.Date(2024, 5, 21, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		millis int64
		want   string
	}{
		{"unknown", 0, "-"},
		{"seconds ago", now.Add(-30 * time.Second).UnixMilli(), "now"},
		{"minutes ago", now.Add(-5 * time.Minute).UnixMilli(), "5m"},
		{"hours ago", now.Add(-3 * time.Hour).UnixMilli(), "3h"},
		{"days ago", now.Add(-49 * time.Hour).UnixMilli(), "2d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageString(tt.millis, now); got != tt.want {
				t.Errorf("ageString(%d) = %q, want %q", tt.millis, got, tt.want)
			}
		})
	}
}

func TestCategorySummary(t *testing.T) {
	item := Item{Report: &contracts.FailureReport{
		Findings: []contracts.Finding{
			{Category: "compilation-error", Count: 2},
			{Category: "network-error", Count: 1},
		},
	}}
	if got := item.CategorySummary(); got != "compilation-error, network-error" {
		t.Errorf("unexpected summary %q", got)
	}

	empty := Item{Report: &contracts.FailureReport{}}
	if got := empty.CategorySummary(); got != "no patterns" {
		t.Errorf("expected placeholder for empty findings, got %q", got)
	}
}

func TestBuildLabel(t *testing.T) {
	item := Item{Report: &contracts.FailureReport{BuildNumber: 42}}
	if got := item.BuildLabel(); got != "#42" {
		t.Errorf("expected #42, got %q", got)
	}
}
