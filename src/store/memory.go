package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"failsift-agent/src/contracts"
)

// MemoryStore is an in-memory implementation of Store.
// Useful for tests and single-run sessions without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*contracts.FailureReport // report key -> report
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]*contracts.FailureReport),
	}
}

// SaveReport inserts or replaces the report for its (job, build) pair.
func (s *MemoryStore) SaveReport(ctx context.Context, report *contracts.FailureReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.Key()] = cloneReport(report)
	return nil
}

// GetReport returns the report for one build, or ErrNotFound.
func (s *MemoryStore) GetReport(ctx context.Context, job string, buildNumber int) (*contracts.FailureReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[contracts.ReportKey(job, buildNumber)]
	if !exists {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotFound, job, buildNumber)
	}

	return cloneReport(report), nil
}

// ListReports returns up to limit reports for a job, newest build first.
func (s *MemoryStore) ListReports(ctx context.Context, job string, limit int) ([]*contracts.FailureReport, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []*contracts.FailureReport
	for _, report := range s.reports {
		if report.Job == job {
			reports = append(reports, cloneReport(report))
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].BuildNumber > reports[j].BuildNumber
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}

	return reports, nil
}

// RecurrenceCount returns how many stored reports share a fingerprint.
func (s *MemoryStore) RecurrenceCount(ctx context.Context, fingerprint string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, report := range s.reports {
		if report.Fingerprint == fingerprint {
			count++
		}
	}
	return count, nil
}

// Close closes the store (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}

// cloneReport copies a report deeply enough that callers can mutate the
// result without reaching stored state.
func cloneReport(r *contracts.FailureReport) *contracts.FailureReport {
	copied := *r
	copied.Findings = make([]contracts.Finding, len(r.Findings))
	for i, f := range r.Findings {
		f.Samples = append([]string(nil), f.Samples...)
		copied.Findings[i] = f
	}
	return &copied
}
