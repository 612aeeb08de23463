package jobs

import (
	"context"
	"log/slog"
	"time"

	"sharedcab/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type DueGroupLocker interface {
	Handle(ctx context.Context, cmd commands.LockDueGroupsCommand) error
}

// GroupLockingJob moves FORMING groups that are about to depart to LOCKED.
type GroupLockingJob struct {
	handler DueGroupLocker
	cron    *cron.Cron
	logger  *slog.Logger
	clock   func() time.Time
}

func NewGroupLockingJob(handler DueGroupLocker, logger *slog.Logger) *GroupLockingJob {
	return &GroupLockingJob{
		handler: handler,
		cron:    newCron(),
		logger:  logger.With("component", "group_locking_job"),
		clock:   time.Now,
	}
}

func (j *GroupLockingJob) Start() error {
	if _, err := j.cron.AddFunc(EveryThirtySeconds, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("group locking job started", "schedule", EveryThirtySeconds)
	return nil
}

// Run performs a single pass. Errors are logged only.
func (j *GroupLockingJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	cmd, err := commands.NewLockDueGroupsCommand(j.clock())
	if err == nil {
		err = j.handler.Handle(ctx, cmd)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "group locking failed", "error", err)
	}
}

// Stop waits for a running pass to finish.
func (j *GroupLockingJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("group locking job stopped")
}
