// Demo program to showcase the Failsift TUI with a rich, realistic dataset.
package main

import (
	"fmt"
	"os"
	"time"

	"failsift-agent/src/classify"
	"failsift-agent/src/contracts"
	"failsift-agent/src/jenkins"
	"failsift-agent/src/pipeline"
	"failsift-agent/src/report"
	"failsift-agent/src/tui"
)

const demoJob = "payments-service"

func main() {
	fmt.Println("Generating sample failure reports...")
	reports := generateSampleData()

	fmt.Printf("Loaded %d reports covering %d failure categories.\n", len(reports), countCategories(reports))
	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond) // Brief pause for effect

	if err := tui.Start(demoJob, reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func countCategories(reports []*contracts.FailureReport) int {
	categories := make(map[string]bool)
	for _, r := range reports {
		for _, f := range r.Findings {
			categories[f.Category] = true
		}
	}
	return len(categories)
}

// sampleReport runs a canned console excerpt through the real classifier and
// report assembler so the demo shows exactly what a triage run produces.
func sampleReport(number int, age time.Duration, console, verdict string) *contracts.FailureReport {
	build := jenkins.BuildSummary{
		Number:    number,
		URL:       fmt.Sprintf("https://jenkins.example.com/job/%s/%d/", demoJob, number),
		Timestamp: time.Now().Add(-age).UnixMilli(),
	}
	findings := classify.Classify(console)

	return pipeline.NewFailureReport(demoJob, pipeline.Result{
		Build:    build,
		Findings: findings,
		Verdict:  verdict,
		Text:     report.Assemble(demoJob, build, findings, verdict),
	})
}

func generateSampleData() []*contracts.FailureReport {
	return []*contracts.FailureReport{
		// 1. Broken compile after a bad merge
		sampleReport(142, 25*time.Minute,
			`[INFO] Compiling 214 source files to /workspace/target/classes
/workspace/src/main/java/com/acme/payments/LedgerService.java:88: error: cannot find symbol
        ledger.reconcile(batch);
              ^
  symbol:   method reconcile(Batch)
/workspace/src/main/java/com/acme/payments/LedgerService.java:101: error: incompatible types: String cannot be converted to BatchId
[ERROR] COMPILATION ERROR
[INFO] BUILD FAILURE`,
			`The build fails at compile time, not in tests. LedgerService calls a
reconcile(Batch) method that no longer exists; the signature was changed on
the ledger-core side. Rebase onto the branch that renamed reconcile to
reconcileBatch, or pin ledger-core to the previous minor version.`),

		// 2. Flaky downstream dependency
		sampleReport(141, 3*time.Hour,
			`[TestWorker-2] RUN TestCheckoutFlow
[TestWorker-2] POST /api/v1/orders
[DB-Pool] Acquiring connection to postgres://db-staging:5432
Connection refused
Connection refused
[TestWorker-2] Connection timed out after 30000ms
FAIL: TestCheckoutFlow (31.02s)`,
			`Every failure in this log is a connection problem against the staging
database, not a code defect. db-staging refused connections for the whole
test window. Check whether the staging Postgres was being restarted and
rerun the build.`),

		// 3. Heap exhaustion in the integration suite
		sampleReport(139, 26*time.Hour,
			`[INFO] Running test: com.acme.payments.LargeBatchIT
[INFO] Loading dataset: datasets/settlement_huge.csv (500MB)
[WARN] GC overhead limit exceeded imminent
java.lang.OutOfMemoryError: Java heap space
	at com.acme.payments.BatchLoader.load(BatchLoader.java:142)
	at com.acme.payments.LargeBatchIT.setUp(LargeBatchIT.java:55)
[ERROR] Test runner crashed unexpectedly`,
			`LargeBatchIT loads a 500MB settlement dataset into memory during setUp
and exhausts the 2GB heap. Either stream the dataset instead of loading it
whole, or raise -Xmx for the integration-test JVM.`),

		// 4. Assertion mismatches that no classifier pattern covers
		sampleReport(138, 4*24*time.Hour,
			`RUN TestRefundRounding
    refund_test.go:45: assertion failed: expected 10.00, got 9.99
FAIL: TestRefundRounding (0.02s)
RUN TestRefundCurrency
    refund_test.go:71: assertion failed: expected "EUR", got "USD"
FAIL: TestRefundCurrency (0.01s)
Tests run: 184, Failures: 2`,
			`Two refund tests fail on real assertion mismatches introduced with the
rounding change in the refund calculator. The new half-even rounding is off
by one cent for amounts ending in .995; the currency mismatch looks like a
fixture that still assumes the old default currency.`),

		// 5. Sick build agent
		sampleReport(137, 6*24*time.Hour,
			`[Checkout] Cloning repository into /var/lib/jenkins/workspace/payments-service
fatal: could not create work tree dir: Permission denied
rsync: mkstemp "/var/lib/jenkins/cache/.deps.tmp" failed: Permission denied
tar: ./artifacts: Cannot write: No space left on device
[ERROR] Workspace preparation failed`,
			`Nothing here points at the code. The agent that took this build cannot
write to its own workspace and its disk is full; every step fails before
the checkout completes. Take the agent offline, clear /var/lib/jenkins and
fix the workspace ownership before rerunning.`),
	}
}
