// Package jobs provides scheduled background tasks for the ride pooling service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-level schedules.
//
// # Available Jobs
//
// 1. SurgeRefreshJob - every 30 seconds recounts active bookings and rewrites the cached surge multiplier
// 2. GroupLockingJob - every 30 seconds locks FORMING ride groups whose departure is within the lock lead
//
// # Usage
//
//	jobManager := jobs.NewJobManager(lockDueGroupsHandler, refreshSurgeHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next tick tries again. A tick is skipped
// while the previous run of the same job is still in progress.
package jobs
