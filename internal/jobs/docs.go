// Package jobs provides scheduled background tasks for the half-order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. SessionExpiryJob - sweeps OPEN sessions whose deadline has passed, expiring the
// session and cancelling its half-order
// 2. OutboxRelayJob - publishes committed domain events from the outbox to the broker
//
// # Usage
//
//	jobManager := jobs.NewJobManager(&expireHandler, &relayHandler, jobs.Schedules{
//		Sweep:           "@every 5s",
//		SweepBatchSize:  100,
//		Outbox:          "@every 2s",
//		OutboxBatchSize: 100,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both crons are built with cron.WithSeconds, so six-field specs are accepted, and
// with cron.SkipIfStillRunning, so a slow pass never overlaps the next one.
//
// # Error Handling
//
// A failed pass is logged and retried on the next tick. Sessions a join won
// between listing and expiry are counted as skipped, not as failures.
package jobs
