// Package store defines the report archive and its implementations.
package store

import (
	"context"
	"errors"

	"failsift-agent/src/contracts"
)

// ErrNotFound is returned when no report exists for the requested build.
var ErrNotFound = errors.New("report not found")

// Store persists failure reports for later triage.
type Store interface {
	// SaveReport inserts or replaces the report for its (job, build) pair.
	SaveReport(ctx context.Context, report *contracts.FailureReport) error

	// GetReport returns the report for one build, or ErrNotFound.
	GetReport(ctx context.Context, job string, buildNumber int) (*contracts.FailureReport, error)

	// ListReports returns up to limit reports for a job, newest build first.
	ListReports(ctx context.Context, job string, limit int) ([]*contracts.FailureReport, error)

	// RecurrenceCount returns how many archived reports share a fingerprint.
	RecurrenceCount(ctx context.Context, fingerprint string) (int, error)

	// Close closes the store connection.
	Close() error
}
