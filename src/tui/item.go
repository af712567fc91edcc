package tui

import (
	"fmt"
	"strings"
	"time"

	"failsift-agent/src/contracts"
)

// Item wraps one failure report for display in the triage list.
// It implements bubbles/list.Item.
type Item struct {
	Report *contracts.FailureReport
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string {
	return fmt.Sprintf("#%d %s", i.Report.BuildNumber, i.CategorySummary())
}

// Title returns the primary text for the item.
func (i Item) Title() string { return i.BuildLabel() }

// Description returns the secondary text for the item.
func (i Item) Description() string { return i.CategorySummary() }

// BuildLabel returns the "#n" label for the build.
func (i Item) BuildLabel() string {
	return fmt.Sprintf("#%d", i.Report.BuildNumber)
}

// CategorySummary joins the report's finding categories, or a placeholder
// when the classifier matched nothing.
func (i Item) CategorySummary() string {
	if len(i.Report.Findings) == 0 {
		return "no patterns"
	}
	names := make([]string, len(i.Report.Findings))
	for idx, f := range i.Report.Findings {
		names[idx] = f.Category
	}
	return strings.Join(names, ", ")
}

// Age renders how long ago the build started, relative to now.
func (i Item) Age(now time.Time) string {
	return ageString(i.Report.BuildTime, now)
}

// ageString humanizes the distance between an epoch-millisecond timestamp
// and now. Unknown timestamps render as a dash.
func ageString(millis int64, now time.Time) string {
	if millis <= 0 {
		return "-"
	}
	d := now.Sub(time.UnixMilli(millis))
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
