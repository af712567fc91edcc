package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"failsift-agent/src/analyst"
	"failsift-agent/src/broker"
	"failsift-agent/src/classify"
	"failsift-agent/src/contracts"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/logger"
	"failsift-agent/src/store"
)

type stubSource struct {
	builds  []jenkins.BuildSummary
	listErr error
	logs    map[int]string
	logErr  map[int]error
}

func (s *stubSource) ListFailedBuilds(ctx context.Context, limit int) ([]jenkins.BuildSummary, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit > 0 && len(s.builds) > limit {
		return s.builds[:limit], nil
	}
	return s.builds, nil
}

func (s *stubSource) FetchConsoleLog(ctx context.Context, number int) (string, error) {
	if err, ok := s.logErr[number]; ok {
		return "", err
	}
	return s.logs[number], nil
}

type stubAnalyst struct {
	verdict string
}

func (s stubAnalyst) Analyze(ctx context.Context, excerpt string) string {
	return s.verdict
}

func TestRunEndToEnd(t *testing.T) {
	consoleLog := "error: cannot find symbol\nConnection refused\n"
	verdict := "Root cause: a missing class on the compile classpath."

	jenkinsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/job/payments-service/api/json":
			fmt.Fprint(w, `{"builds":[{"number":11,"url":"http://jenkins/job/payments-service/11/"},{"number":10,"url":"http://jenkins/job/payments-service/10/"}]}`)
		case "/job/payments-service/11/api/json":
			fmt.Fprint(w, `{"number":11,"result":"SUCCESS","url":"http://jenkins/job/payments-service/11/","timestamp":1716285600011}`)
		case "/job/payments-service/10/api/json":
			fmt.Fprint(w, `{"number":10,"result":"FAILURE","url":"http://jenkins/job/payments-service/10/","timestamp":1716285600010}`)
		case "/job/payments-service/10/consoleText":
			fmt.Fprint(w, consoleLog)
		default:
			http.NotFound(w, r)
		}
	}))
	defer jenkinsSrv.Close()

	deepseekSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, verdict)
	}))
	defer deepseekSrv.Close()

	source := jenkins.NewClient(jenkinsSrv.URL, "payments-service", "ci-bot", "secret", nil)
	ai, err := analyst.New("test-key", deepseekSrv.URL, "", nil)
	if err != nil {
		t.Fatalf("analyst.New: %v", err)
	}
	bus := broker.NewInMemoryBroker()
	defer bus.Close()
	archive := store.NewMemoryStore()

	ctx := context.Background()
	msgs, err := bus.Subscribe(ctx, contracts.TopicReports, "test-group")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	runner := New("payments-service", source, ai, bus, archive, logger.NewSilentLogger())
	results := runner.Run(ctx, 5)

	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d", len(results))
	}
	got := results[0]
	if got.Build.Number != 10 {
		t.Errorf("expected build #10, got #%d", got.Build.Number)
	}
	if len(got.Findings) != 2 {
		t.Errorf("expected 2 finding categories, got %d: %v", len(got.Findings), got.Findings)
	}
	if f, ok := got.Findings["compilation-error"]; !ok || f.Count != 1 {
		t.Errorf("expected one compilation-error finding, got %+v", got.Findings)
	}
	if f, ok := got.Findings["network-error"]; !ok || f.Count != 1 {
		t.Errorf("expected one network-error finding, got %+v", got.Findings)
	}
	if got.Verdict != verdict {
		t.Errorf("expected verdict %q, got %q", verdict, got.Verdict)
	}
	if !strings.Contains(got.Text, "Jenkins Build Analysis Report") {
		t.Errorf("report text missing header:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, verdict) {
		t.Errorf("report text missing verdict:\n%s", got.Text)
	}

	select {
	case msg := <-msgs:
		if msg.Key != "payments-service#10" {
			t.Errorf("expected message key payments-service#10, got %q", msg.Key)
		}
		var published contracts.FailureReport
		if err := json.Unmarshal(msg.Value, &published); err != nil {
			t.Fatalf("failed to decode published report: %v", err)
		}
		if published.BuildNumber != 10 {
			t.Errorf("expected published build 10, got %d", published.BuildNumber)
		}
		if published.Fingerprint == "" {
			t.Error("expected published report to carry a fingerprint")
		}
	case <-time.After(time.Second):
		t.Fatal("expected a report on the bus")
	}

	stored, err := archive.GetReport(ctx, "payments-service", 10)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if stored.Verdict != verdict {
		t.Errorf("expected archived verdict %q, got %q", verdict, stored.Verdict)
	}
	if stored.BuildTime != 1716285600010 {
		t.Errorf("expected archived build time 1716285600010, got %d", stored.BuildTime)
	}
}

func TestRunListingFailure(t *testing.T) {
	source := &stubSource{listErr: errors.New("jenkins is down")}
	runner := New("payments-service", source, stubAnalyst{}, nil, nil, logger.NewSilentLogger())

	results := runner.Run(context.Background(), 5)
	if len(results) != 0 {
		t.Fatalf("expected no results after listing failure, got %d", len(results))
	}
}

func TestRunNoFailedBuilds(t *testing.T) {
	runner := New("payments-service", &stubSource{}, stubAnalyst{}, nil, nil, logger.NewSilentLogger())

	results := runner.Run(context.Background(), 5)
	if len(results) != 0 {
		t.Fatalf("expected no results for a healthy job, got %d", len(results))
	}
}

func TestRunSkipsBrokenBuild(t *testing.T) {
	source := &stubSource{
		builds: []jenkins.BuildSummary{
			{Number: 14, URL: "http://jenkins/job/payments-service/14/"},
			{Number: 13, URL: "http://jenkins/job/payments-service/13/"},
			{Number: 12, URL: "http://jenkins/job/payments-service/12/"},
		},
		logs: map[int]string{
			14: "Permission denied",
			12: "OutOfMemoryError detected",
		},
		logErr: map[int]error{
			13: errors.New("log expired"),
		},
	}
	runner := New("payments-service", source, stubAnalyst{verdict: "v"}, nil, nil, logger.NewSilentLogger())

	results := runner.Run(context.Background(), 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Build.Number != 14 || results[1].Build.Number != 12 {
		t.Errorf("expected builds [14 12] in order, got [%d %d]", results[0].Build.Number, results[1].Build.Number)
	}
}

func TestAnalyzeBuildFetchError(t *testing.T) {
	source := &stubSource{
		logErr: map[int]error{42: errors.New("log expired")},
	}
	runner := New("payments-service", source, stubAnalyst{verdict: "v"}, nil, nil, logger.NewSilentLogger())

	_, err := runner.AnalyzeBuild(context.Background(), jenkins.BuildSummary{Number: 42})
	if err == nil {
		t.Fatal("expected the fetch error to propagate")
	}

	source.logs = map[int]string{42: "Connection refused"}
	source.logErr = nil
	result, err := runner.AnalyzeBuild(context.Background(), jenkins.BuildSummary{Number: 42})
	if err != nil {
		t.Fatalf("AnalyzeBuild() error = %v", err)
	}
	if _, ok := result.Findings["network-error"]; !ok {
		t.Errorf("expected a network-error finding, got %v", result.Findings)
	}
}

func TestRunPublishFailureKeepsResult(t *testing.T) {
	source := &stubSource{
		builds: []jenkins.BuildSummary{{Number: 7, URL: "http://jenkins/job/payments-service/7/"}},
		logs:   map[int]string{7: "Connection refused"},
	}
	bus := broker.NewInMemoryBroker()
	bus.Close()
	archive := store.NewMemoryStore()
	runner := New("payments-service", source, stubAnalyst{verdict: "v"}, bus, archive, logger.NewSilentLogger())

	results := runner.Run(context.Background(), 5)
	if len(results) != 1 {
		t.Fatalf("expected the result despite the publish failure, got %d", len(results))
	}
	if _, err := archive.GetReport(context.Background(), "payments-service", 7); err != nil {
		t.Errorf("expected report to be archived anyway: %v", err)
	}
}

func TestNewFailureReport(t *testing.T) {
	excerpt := "Connection refused\nerror: cannot find symbol password=hunter2\n"
	findings := classify.Classify(excerpt)
	result := Result{
		Build: jenkins.BuildSummary{
			Number:    10,
			URL:       "http://jenkins/job/payments-service/10/",
			Timestamp: 1716285600010,
		},
		Findings: findings,
		Verdict:  "verdict",
		Text:     "report with password=hunter2",
	}

	payload := NewFailureReport("payments-service", result)

	if payload.Key() != "payments-service#10" {
		t.Errorf("expected key payments-service#10, got %q", payload.Key())
	}
	if len(payload.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(payload.Findings))
	}
	if payload.Findings[0].Category != "compilation-error" || payload.Findings[1].Category != "network-error" {
		t.Errorf("expected classifier table order, got %q then %q", payload.Findings[0].Category, payload.Findings[1].Category)
	}
	for _, f := range payload.Findings {
		for _, s := range f.Samples {
			if strings.Contains(s, "hunter2") {
				t.Errorf("expected sample secrets to be masked, got %q", s)
			}
		}
	}
	if strings.Contains(payload.ReportText, "hunter2") {
		t.Errorf("expected report text secrets to be masked, got %q", payload.ReportText)
	}
	if len(payload.Fingerprint) != 16 {
		t.Errorf("expected 16-char fingerprint, got %q", payload.Fingerprint)
	}
	if _, err := time.Parse(time.RFC3339, payload.AnalyzedAt); err != nil {
		t.Errorf("expected RFC3339 analyzed-at, got %q: %v", payload.AnalyzedAt, err)
	}
}
