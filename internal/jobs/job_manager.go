package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// EveryThirtySeconds is a six-field (seconds first) cron expression.
const EveryThirtySeconds = "*/30 * * * * *"

const runTimeout = 25 * time.Second

// newCron skips a tick while the previous run of the same job is still going.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	groupLockingJob *GroupLockingJob
	surgeRefreshJob *SurgeRefreshJob
}

func NewJobManager(
	groupLocker DueGroupLocker,
	surgeRefresher SurgeRefresher,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		groupLockingJob: NewGroupLockingJob(groupLocker, logger),
		surgeRefreshJob: NewSurgeRefreshJob(surgeRefresher, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.surgeRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start surge refresh job: %w", err)
	}

	if err := jm.groupLockingJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.surgeRefreshJob.Stop()
		return fmt.Errorf("failed to start group locking job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.groupLockingJob.Stop()
	jm.surgeRefreshJob.Stop()
}
