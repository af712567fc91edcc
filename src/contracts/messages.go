// Package contracts defines the wire types shared by the pipeline, the
// report bus and the archive. It stays dependency-free so every component
// can import it.
package contracts

import "fmt"

// Finding is one classifier category hit inside a report.
type Finding struct {
	// Stable category name from the classifier table (e.g. "compilation-error").
	Category string `json:"category"`
	// Total number of matches, duplicates included.
	Count int `json:"count"`
	// First distinct matches, at most three, in order of appearance.
	Samples []string `json:"samples"`
}

// FailureReport is the full triage result for one failed build.
// Published to: failsift.reports
// Key: {job}#{build_number}
type FailureReport struct {
	// Job is the Jenkins job name.
	Job string `json:"job"`
	// BuildNumber identifies the build within the job.
	BuildNumber int `json:"build_number"`
	// BuildURL points at the build on the Jenkins server.
	BuildURL string `json:"build_url"`
	// BuildTime is the build start time in epoch milliseconds.
	BuildTime int64 `json:"build_time"`
	// Fingerprint is the short digest of the failure shape, used for
	// recurrence tracking across builds.
	Fingerprint string `json:"fingerprint"`
	// Findings from the pattern classifier, in classifier table order.
	Findings []Finding `json:"findings"`
	// Verdict is the AI analysis text (or the embedded failure marker).
	Verdict string `json:"verdict"`
	// ReportText is the assembled human-readable report.
	ReportText string `json:"report_text"`
	// AnalyzedAt is when the pipeline produced this report, RFC3339 UTC.
	AnalyzedAt string `json:"analyzed_at"`
}

// ReportKey builds the canonical bus/archive key for a report.
func ReportKey(job string, buildNumber int) string {
	return fmt.Sprintf("%s#%d", job, buildNumber)
}

// Key returns the bus/archive key for this report.
func (r *FailureReport) Key() string {
	return ReportKey(r.Job, r.BuildNumber)
}

// TopicNames defines the Redpanda topics used by the report bus.
const (
	// TopicReports carries FailureReport JSON payloads.
	TopicReports = "failsift.reports"
)
