// Package archive provides the Archive Agent. It consumes failure reports
// from the report bus and persists them to the report store.
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"failsift-agent/src/broker"
	"failsift-agent/src/contracts"
	"failsift-agent/src/logger"
	"failsift-agent/src/store"
)

// ConsumerGroup identifies this agent on the report topic.
const ConsumerGroup = "failsift-archive"

// Agent consumes failure reports and writes them to the store.
type Agent struct {
	broker  broker.Broker
	archive store.Store
	logger  logger.Logger
}

// NewAgent creates a new archive agent.
func NewAgent(brk broker.Broker, archive store.Store, log logger.Logger) *Agent {
	return &Agent{
		broker:  brk,
		archive: archive,
		logger:  logger.OrSilent(log),
	}
}

// Run starts the agent's main loop.
// It subscribes to failsift.reports and persists every report it can decode.
// A malformed payload or a failed save is logged and skipped so one bad
// record never stalls the topic.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("[ArchiveAgent] Starting...")

	msgChan, err := a.broker.Subscribe(ctx, contracts.TopicReports, ConsumerGroup)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", contracts.TopicReports, err)
	}

	a.logger.Info("[ArchiveAgent] Listening for reports on '%s' topic...", contracts.TopicReports)

	for {
		select {
		case msg, ok := <-msgChan:
			if !ok {
				a.logger.Info("[ArchiveAgent] Message channel closed, shutting down")
				return nil
			}

			if err := a.processReport(ctx, msg); err != nil {
				a.logger.Error("[ArchiveAgent] Error processing report: %v", err)
			}

		case <-ctx.Done():
			a.logger.Info("[ArchiveAgent] Context cancelled, shutting down")
			return ctx.Err()
		}
	}
}

// processReport persists a single failure report.
func (a *Agent) processReport(ctx context.Context, msg broker.Message) error {
	var report contracts.FailureReport
	if err := json.Unmarshal(msg.Value, &report); err != nil {
		return fmt.Errorf("failed to unmarshal report: %w", err)
	}

	if err := a.archive.SaveReport(ctx, &report); err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.Key(), err)
	}

	seen, err := a.archive.RecurrenceCount(ctx, report.Fingerprint)
	if err != nil {
		a.logger.Debug("[ArchiveAgent] Recurrence lookup failed for %s: %v", report.Fingerprint, err)
		seen = 0
	}

	if seen > 1 {
		a.logger.Info("[ArchiveAgent] Archived report %s (failure shape %s seen %d times)",
			report.Key(), report.Fingerprint, seen)
	} else {
		a.logger.Info("[ArchiveAgent] Archived report %s (fingerprint %s)", report.Key(), report.Fingerprint)
	}
	return nil
}
