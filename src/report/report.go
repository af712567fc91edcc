// Package report assembles human-readable build failure reports.
package report

import (
	"fmt"
	"strings"
	"time"

	"failsift-agent/src/classify"
	"failsift-agent/src/jenkins"
)

// NoPatternLine is printed in place of findings when the classifier
// recognized nothing.
const NoPatternLine = "no common error pattern recognized"

// Assemble renders one build's triage report. It is pure formatting: the
// verdict is included verbatim and findings render in classifier table order.
func Assemble(job string, build jenkins.BuildSummary, findings map[string]classify.Finding, verdict string) string {
	var b strings.Builder

	b.WriteString("🔧 Jenkins Build Analysis Report\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Job:     %s\n", job)
	fmt.Fprintf(&b, "Build:   #%d\n", build.Number)
	fmt.Fprintf(&b, "Started: %s\n", FormatTimestamp(build.Timestamp))
	fmt.Fprintf(&b, "URL:     %s\n", build.URL)
	b.WriteString("\n")

	b.WriteString("📊 Pattern classifier findings:\n")
	b.WriteString(FindingsBlock(findings))
	b.WriteString("\n")

	b.WriteString("🤖 AI analysis:\n")
	b.WriteString(verdict)
	b.WriteString("\n")

	return b.String()
}

// FindingsBlock renders classifier findings in table order, one category per
// line with its samples indented beneath. Empty findings render the literal
// no-pattern line.
func FindingsBlock(findings map[string]classify.Finding) string {
	var b strings.Builder
	if len(findings) == 0 {
		fmt.Fprintf(&b, "  - %s\n", NoPatternLine)
		return b.String()
	}
	for _, name := range classify.Categories() {
		f, ok := findings[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  - %s: %d %s\n", f.Category, f.Count, pluralize(f.Count, "occurrence", "occurrences"))
		for _, sample := range f.Samples {
			fmt.Fprintf(&b, "    * %s\n", sample)
		}
	}
	return b.String()
}

// FormatTimestamp renders a Jenkins epoch-millisecond timestamp in UTC.
func FormatTimestamp(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04:05 MST")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
