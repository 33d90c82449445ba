// Package jobs provides scheduled background tasks for the freight
// marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the order lifecycle depends on.
//
// # Available Jobs
//
// 1. HoldExpiryJob - Sweeps orders whose reservation or candidate hold has
// lapsed and returns them to the feed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireHoldsHandler, sweepSpec, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep schedule is configurable; the default "0 * * * * *" runs once
// a minute. Holds are also checked lazily whenever an order is read, so
// the sweep only bounds how long a lapsed hold can linger in the feed.
//
// # Error Handling
//
// The sweep logs failures and retries on the next tick; a failed run
// never leaves holds permanently stuck because expiry is idempotent.
package jobs
