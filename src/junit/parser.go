// Package junit parses JUnit XML test reports into grouped failure digests.
package junit

import (
	"crypto/sha256"
	"encoding/xml"
	"fmt"
	"strings"

	"failsift-agent/src/sanitize"
)

// hashBytes sets the recurrence hash width: 4 bytes, 8 hex characters.
const hashBytes = 4

// TestSuites is the <testsuites> root element.
type TestSuites struct {
	XMLName xml.Name    `xml:"testsuites"`
	Suites  []TestSuite `xml:"testsuite"`
}

// TestSuite is a single <testsuite> element.
type TestSuite struct {
	XMLName  xml.Name   `xml:"testsuite"`
	Name     string     `xml:"name,attr"`
	Tests    int        `xml:"tests,attr"`
	Failures int        `xml:"failures,attr"`
	Errors   int        `xml:"errors,attr"`
	Skipped  int        `xml:"skipped,attr"`
	Time     float64    `xml:"time,attr"`
	Cases    []TestCase `xml:"testcase"`
}

// TestCase is a single <testcase> element.
type TestCase struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Time      float64  `xml:"time,attr"`
	Failure   *Failure `xml:"failure"`
	Error     *Error   `xml:"error"`
	Skipped   *Skipped `xml:"skipped"`
}

// Failure is an assertion failure recorded on a test case.
type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Error is an unexpected error recorded on a test case.
type Error struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Skipped marks a skipped test case.
type Skipped struct {
	Message string `xml:"message,attr"`
}

// TestFailure is one failed or errored test, ready for grouping.
type TestFailure struct {
	Suite     string
	Test      string
	ClassName string
	// Kind is "failure" for assertion failures and "error" for unexpected
	// errors.
	Kind    string
	Message string
	// Output is the captured stack trace or console output.
	Output string
	// Hash identifies the failure shape across builds.
	Hash string
}

// FullName returns the test's display identity.
func (tf *TestFailure) FullName() string {
	switch {
	case tf.ClassName != "":
		return tf.ClassName + "." + tf.Test
	case tf.Suite != "":
		return tf.Suite + "." + tf.Test
	default:
		return tf.Test
	}
}

// Parse extracts failed and errored tests from a JUnit XML document. It
// accepts both a <testsuites> root and a bare <testsuite> root and returns
// an empty slice when every test passed. Skipped tests are not failures.
func Parse(data []byte) ([]TestFailure, error) {
	var root TestSuites
	if err := xml.Unmarshal(data, &root); err == nil {
		return collect(root.Suites), nil
	}

	var suite TestSuite
	if err := xml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse JUnit XML: %w", err)
	}
	return collect([]TestSuite{suite}), nil
}

func collect(suites []TestSuite) []TestFailure {
	var failures []TestFailure
	for _, suite := range suites {
		for _, tc := range suite.Cases {
			if tc.Failure != nil {
				failures = append(failures, newFailure(suite, tc, "failure", tc.Failure.Message, tc.Failure.Content))
			}
			if tc.Error != nil {
				failures = append(failures, newFailure(suite, tc, "error", tc.Error.Message, tc.Error.Content))
			}
		}
	}
	return failures
}

func newFailure(suite TestSuite, tc TestCase, kind, message, output string) TestFailure {
	return TestFailure{
		Suite:     suite.Name,
		Test:      tc.Name,
		ClassName: tc.ClassName,
		Kind:      kind,
		Message:   message,
		Output:    strings.TrimSpace(output),
		Hash:      recurrenceHash(tc.ClassName, tc.Name, message),
	}
}

// recurrenceHash identifies a failure shape across builds. The message is
// normalized first so line numbers, counts and addresses embedded in
// assertion text do not split the group.
func recurrenceHash(className, test, message string) string {
	key := fmt.Sprintf("%s::%s::%s", className, test, sanitize.NormalizeLine(message))
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:hashBytes])
}

// Digest renders a grouped, human-readable summary of the failures.
// Repeated runs of the same test (parameterized suites) collapse into one
// entry carrying the run count.
func Digest(failures []TestFailure) string {
	if len(failures) == 0 {
		return "All tests passed.\n"
	}

	order := make([]string, 0, len(failures))
	groups := make(map[string][]TestFailure)
	for _, f := range failures {
		if _, ok := groups[f.Hash]; !ok {
			order = append(order, f.Hash)
		}
		groups[f.Hash] = append(groups[f.Hash], f)
	}

	var b strings.Builder
	b.WriteString("📋 JUnit failure digest\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Failed: %d test(s) in %d group(s)\n\n", len(failures), len(order))

	for _, hash := range order {
		group := groups[hash]
		first := group[0]
		fmt.Fprintf(&b, "  [%s] %s (%s", first.Hash, first.FullName(), first.Kind)
		if len(group) > 1 {
			fmt.Fprintf(&b, ", %d runs", len(group))
		}
		b.WriteString(")\n")
		if first.Message != "" {
			fmt.Fprintf(&b, "      %s\n", first.Message)
		}
	}

	return b.String()
}

// CombinedOutput concatenates every failure's message and captured output
// so the result can be fed to the pattern classifier.
func CombinedOutput(failures []TestFailure) string {
	var b strings.Builder
	for _, f := range failures {
		if f.Message != "" {
			b.WriteString(f.Message)
			b.WriteString("\n")
		}
		if f.Output != "" {
			b.WriteString(f.Output)
			b.WriteString("\n")
		}
	}
	return b.String()
}
