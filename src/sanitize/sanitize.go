// Package sanitize provides utilities for cleaning Jenkins console output.
// It removes ANSI escape codes and timestamper prefixes, caps log excerpts
// at a character budget, and normalizes or masks lines for recurrence
// grouping and persistence.
//
// Masking is for stored and published artifacts only. The AI analysis path
// receives the excerpt verbatim and must not go through MaskSecrets.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

var (
	// jenkinsTimestamp matches the Timestamper plugin prefix at line start.
	// Matches: [2024-01-15T10:30:45.123Z] mvn clean install
	jenkinsTimestamp = regexp.MustCompile(`(?m)^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:[.,]\d+)?Z?\] ?`)

	// timestampPattern matches ISO8601 and common log timestamps.
	// Matches: 2024-05-21T10:00:05.123Z, 2024-05-21 10:00:05,123, etc.
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}([.,]\d+)?(Z|[+-]\d{2}:?\d{2})?`)

	// uuidPattern matches standard UUIDs.
	// Matches: 550e8400-e29b-41d4-a716-446655440000
	uuidPattern = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)

	// longHashPattern matches long hex strings (container IDs, git SHAs, etc.)
	longHashPattern = regexp.MustCompile(`\b[a-f0-9]{12,}\b`)

	// hexAddressPattern matches 0x-prefixed hex addresses.
	hexAddressPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)

	// numberPattern matches standalone numbers, masking line numbers and
	// durations so recurring errors group together.
	numberPattern = regexp.MustCompile(`\b\d+\b`)

	// longPathPattern matches absolute paths with 3+ directories.
	// /var/lib/jenkins/workspace/src/main.go:42 → [PATH]
	longPathPattern = regexp.MustCompile(`/(?:[^/\s]+/){3,}[^/\s:]+(?::\d+)?`)

	// whitespacePattern matches runs of whitespace.
	whitespacePattern = regexp.MustCompile(`\s+`)
)

var (
	// credentialAssignment matches key=value / key: value credential forms.
	credentialAssignment = regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token|api[_-]?key|apikey|access[_-]?key)\b(\s*[=:]\s*)\S+`)

	// authorizationHeader matches HTTP Authorization header values.
	authorizationHeader = regexp.MustCompile(`(?i)\b(authorization\s*:\s*)(bearer|basic)\s+\S+`)

	// urlCredentials matches user:pass@ in URLs.
	urlCredentials = regexp.MustCompile(`(https?://)[^/\s:@]+:[^/\s@]+@`)
)

// StripANSI removes ANSI escape sequences and Jenkins Timestamper prefixes.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	s = jenkinsTimestamp.ReplaceAllString(s, "")
	return s
}

// Clean prepares raw console output for analysis: escape sequences and
// timestamper prefixes are stripped and line endings normalized to \n.
func Clean(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// TruncateLog caps s at max characters. Input at or under the cap is
// returned unchanged; longer input keeps exactly the first max runes.
func TruncateLog(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := 0
	for i := 0; i < max; i++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	return s[:cut]
}

// NormalizeLine rewrites the volatile parts of a log line with placeholders
// so recurring failures fingerprint identically across builds. Timestamps,
// UUIDs, addresses, long hashes, deep paths and standalone numbers are
// masked and whitespace is collapsed.
func NormalizeLine(line string) string {
	line = timestampPattern.ReplaceAllString(line, "[TIMESTAMP]")
	line = uuidPattern.ReplaceAllString(line, "[UUID]")
	line = hexAddressPattern.ReplaceAllString(line, "[HEX]")
	line = longPathPattern.ReplaceAllString(line, "[PATH]")
	line = longHashPattern.ReplaceAllString(line, "[HASH]")
	line = numberPattern.ReplaceAllString(line, "[NUM]")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
}

// MaskSecrets blanks credential material before a report is published or
// stored: assignments like password=..., Authorization headers, and inline
// URL credentials.
func MaskSecrets(s string) string {
	s = credentialAssignment.ReplaceAllString(s, "$1$2[MASKED]")
	s = authorizationHeader.ReplaceAllString(s, "$1$2 [MASKED]")
	s = urlCredentials.ReplaceAllString(s, "$1[MASKED]@")
	return s
}
