package mcp

import (
	"sync"

	"failsift-agent/src/contracts"
)

// ReportStore keeps the reports produced during one MCP session so a client
// can re-fetch a single build without re-running the pipeline.
type ReportStore interface {
	// Put saves one report, replacing any earlier report for the same build.
	Put(report *contracts.FailureReport)
	// Get retrieves a report by job and build number.
	Get(job string, buildNumber int) (*contracts.FailureReport, bool)
}

// InMemoryStore is a thread-safe in-memory ReportStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*contracts.FailureReport
}

// NewInMemoryStore creates a new in-memory report store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		reports: make(map[string]*contracts.FailureReport),
	}
}

// Put saves one report keyed by job and build number.
func (s *InMemoryStore) Put(report *contracts.FailureReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.Key()] = report
}

// Get retrieves a report by job and build number.
func (s *InMemoryStore) Get(job string, buildNumber int) (*contracts.FailureReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[contracts.ReportKey(job, buildNumber)]
	return r, ok
}
