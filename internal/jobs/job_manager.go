package jobs

import (
	"fmt"
	"log/slog"
)

// Schedules holds the cron specs and batch sizes of the background jobs.
// Specs accept an optional seconds field and descriptors such as "@every 5s".
type Schedules struct {
	Sweep           string
	SweepBatchSize  int
	Outbox          string
	OutboxBatchSize int
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	sessionExpiryJob *SessionExpiryJob
	outboxRelayJob   *OutboxRelayJob
}

func NewJobManager(
	sweeper sessionSweeper,
	relayer outboxRelayer,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		sessionExpiryJob: NewSessionExpiryJob(sweeper, schedules.Sweep, schedules.SweepBatchSize, logger),
		outboxRelayJob:   NewOutboxRelayJob(relayer, schedules.Outbox, schedules.OutboxBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sessionExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start session expiry job: %w", err)
	}

	if err := jm.outboxRelayJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.sessionExpiryJob.Stop()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to return.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.sessionExpiryJob.Stop()
}
