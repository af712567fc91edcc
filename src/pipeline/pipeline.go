// Package pipeline orchestrates a triage run: list the job's recent failed
// builds, fetch each console log excerpt, classify it, ask the AI analyst
// for a verdict and assemble the report. Builds are processed strictly in
// sequence; a broken build is skipped, never fatal.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"failsift-agent/src/broker"
	"failsift-agent/src/classify"
	"failsift-agent/src/contracts"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/logger"
	"failsift-agent/src/report"
	"failsift-agent/src/sanitize"
	"failsift-agent/src/store"
)

// BuildSource lists failed builds and serves their console log excerpts.
// *jenkins.Client implements it.
type BuildSource interface {
	ListFailedBuilds(ctx context.Context, limit int) ([]jenkins.BuildSummary, error)
	FetchConsoleLog(ctx context.Context, number int) (string, error)
}

// Analyst produces an AI verdict for a console log excerpt.
// *analyst.Analyst implements it.
type Analyst interface {
	Analyze(ctx context.Context, excerpt string) string
}

// Result is one analyzed build.
type Result struct {
	Build    jenkins.BuildSummary
	Findings map[string]classify.Finding
	Verdict  string
	// Text is the assembled human-readable report.
	Text string
}

// Runner drives the sequential triage pipeline.
type Runner struct {
	job     string
	source  BuildSource
	analyst Analyst
	bus     broker.Broker
	archive store.Store
	log     logger.Logger
}

// New creates a Runner. bus and archive may be nil; a nil bus disables
// report publishing and a nil archive disables persistence.
func New(job string, source BuildSource, ai Analyst, bus broker.Broker, archive store.Store, log logger.Logger) *Runner {
	return &Runner{
		job:     job,
		source:  source,
		analyst: ai,
		bus:     bus,
		archive: archive,
		log:     logger.OrSilent(log),
	}
}

// Run executes one pipeline pass over at most limit failed builds.
// A listing failure is logged and yields an empty run, the same outcome as
// a job with no failed builds.
func (r *Runner) Run(ctx context.Context, limit int) []Result {
	builds, err := r.source.ListFailedBuilds(ctx, limit)
	if err != nil {
		r.log.Error("failed to list failed builds for %s: %v", r.job, err)
		return nil
	}
	if len(builds) == 0 {
		r.log.Info("no failed builds found for %s", r.job)
		return nil
	}
	r.log.Info("analyzing %d failed build(s) of %s", len(builds), r.job)

	results := make([]Result, 0, len(builds))
	for _, build := range builds {
		result, err := r.AnalyzeBuild(ctx, build)
		if err != nil {
			r.log.Error("skipping build #%d: %v", build.Number, err)
			continue
		}
		results = append(results, result)
	}

	return results
}

// AnalyzeBuild runs the fetch, classify, analyze, assemble sequence for one
// failed build and records the outcome. The returned error is the console
// log fetch error; classification and AI analysis never fail a build.
func (r *Runner) AnalyzeBuild(ctx context.Context, build jenkins.BuildSummary) (Result, error) {
	excerpt, err := r.source.FetchConsoleLog(ctx, build.Number)
	if err != nil {
		return Result{}, err
	}

	findings := classify.Classify(excerpt)
	verdict := r.analyst.Analyze(ctx, excerpt)

	result := Result{
		Build:    build,
		Findings: findings,
		Verdict:  verdict,
		Text:     report.Assemble(r.job, build, findings, verdict),
	}
	r.record(ctx, result)
	return result, nil
}

// record publishes and archives one result. Failures here are logged only;
// the assembled report is already complete and must still reach the user.
func (r *Runner) record(ctx context.Context, result Result) {
	if r.bus == nil && r.archive == nil {
		return
	}

	payload := NewFailureReport(r.job, result)

	if r.bus != nil {
		value, err := json.Marshal(payload)
		if err != nil {
			r.log.Error("failed to encode report for build #%d: %v", result.Build.Number, err)
		} else if err := r.bus.Publish(ctx, contracts.TopicReports, payload.Key(), value); err != nil {
			r.log.Error("failed to publish report for build #%d: %v", result.Build.Number, err)
		} else {
			r.log.Debug("published report for build #%d to %s", result.Build.Number, contracts.TopicReports)
		}
	}

	if r.archive != nil {
		if err := r.archive.SaveReport(ctx, payload); err != nil {
			r.log.Error("failed to archive report for build #%d: %v", result.Build.Number, err)
		}
	}
}

// NewFailureReport converts a pipeline result into its wire form. Samples
// and report text are secret-masked here; the AI prompt has already seen the
// verbatim excerpt by the time a report leaves the process.
func NewFailureReport(job string, result Result) *contracts.FailureReport {
	findings := make([]contracts.Finding, 0, len(result.Findings))
	for _, name := range classify.Categories() {
		f, ok := result.Findings[name]
		if !ok {
			continue
		}
		samples := make([]string, len(f.Samples))
		for i, s := range f.Samples {
			samples[i] = sanitize.MaskSecrets(s)
		}
		findings = append(findings, contracts.Finding{
			Category: f.Category,
			Count:    f.Count,
			Samples:  samples,
		})
	}

	return &contracts.FailureReport{
		Job:         job,
		BuildNumber: result.Build.Number,
		BuildURL:    result.Build.URL,
		BuildTime:   result.Build.Timestamp,
		Fingerprint: classify.Fingerprint(result.Findings),
		Findings:    findings,
		Verdict:     result.Verdict,
		ReportText:  sanitize.MaskSecrets(result.Text),
		AnalyzedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}
