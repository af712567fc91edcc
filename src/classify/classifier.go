// Package classify detects known failure patterns in console log excerpts.
//
// The category table is static and ordered; reports and fingerprints follow
// table order so output is deterministic across runs. Several patterns carry
// Chinese alternates because the deployments this tool grew up on emit
// bilingual build logs.
package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"failsift-agent/src/sanitize"
)

// maxSamples caps how many distinct matches a finding keeps.
const maxSamples = 3

// fingerprintLen is the hex length of a failure fingerprint.
const fingerprintLen = 16

// Category pairs a stable category name with the pattern that detects it.
type Category struct {
	Name    string
	pattern *regexp.Regexp
}

// categories is the classifier table. Matching is case-insensitive and the
// order here is the presentation order.
var categories = []Category{
	{"compilation-error", regexp.MustCompile(`(?i)error: .*|FAILED to compile|编译失败`)},
	{"test-failure", regexp.MustCompile(`(?i)FAILED \d+ tests?|测试用例.*失败`)},
	{"dependency-resolution", regexp.MustCompile(`(?i)Unable to resolve dependency|404 Not Found|无法下载依赖`)},
	{"timeout", regexp.MustCompile(`(?i)Timeout.*exceeded|执行超时`)},
	{"permission-denied", regexp.MustCompile(`(?i)Permission denied|权限被拒绝`)},
	{"disk-space", regexp.MustCompile(`(?i)No space left on device|磁盘空间不足`)},
	{"out-of-memory", regexp.MustCompile(`(?i)OutOfMemoryError|内存溢出`)},
	{"network-error", regexp.MustCompile(`(?i)Connection refused|连接超时|无法连接到`)},
}

// Finding summarizes all matches of one category in an excerpt.
type Finding struct {
	Category string
	// Count is the total number of matches, including duplicates.
	Count int
	// Samples holds the first distinct matches, at most maxSamples,
	// in the order they appeared.
	Samples []string
}

// Classify runs every category pattern over the excerpt and returns the
// categories that matched, keyed by name. Text with no recognized pattern
// yields an empty map.
func Classify(text string) map[string]Finding {
	findings := make(map[string]Finding)
	for _, cat := range categories {
		matches := cat.pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		findings[cat.Name] = Finding{
			Category: cat.Name,
			Count:    len(matches),
			Samples:  uniqueSamples(matches),
		}
	}
	return findings
}

// Categories returns the category names in table order.
func Categories() []string {
	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
	}
	return names
}

// Fingerprint derives a short stable digest of a failure's shape. Samples
// are recurrence-normalized first, so the same failure on different builds
// (new timestamps, line numbers, build paths) fingerprints identically.
func Fingerprint(findings map[string]Finding) string {
	h := sha256.New()
	for _, cat := range categories {
		f, ok := findings[cat.Name]
		if !ok {
			continue
		}
		h.Write([]byte(cat.Name))
		h.Write([]byte{0})
		for _, sample := range f.Samples {
			h.Write([]byte(sanitize.NormalizeLine(sample)))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen]
}

func uniqueSamples(matches []string) []string {
	seen := make(map[string]struct{}, len(matches))
	samples := make([]string, 0, maxSamples)
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		samples = append(samples, m)
		if len(samples) == maxSamples {
			break
		}
	}
	return samples
}
