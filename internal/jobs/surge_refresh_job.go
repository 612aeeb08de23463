package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type SurgeRefresher interface {
	Handle(ctx context.Context) error
}

// SurgeRefreshJob recomputes the surge snapshot so requests rarely miss the cache.
type SurgeRefreshJob struct {
	handler SurgeRefresher
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewSurgeRefreshJob(handler SurgeRefresher, logger *slog.Logger) *SurgeRefreshJob {
	return &SurgeRefreshJob{
		handler: handler,
		cron:    newCron(),
		logger:  logger.With("component", "surge_refresh_job"),
	}
}

func (j *SurgeRefreshJob) Start() error {
	if _, err := j.cron.AddFunc(EveryThirtySeconds, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("surge refresh job started", "schedule", EveryThirtySeconds)
	return nil
}

func (j *SurgeRefreshJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := j.handler.Handle(ctx); err != nil {
		j.logger.ErrorContext(ctx, "surge refresh failed", "error", err)
	}
}

func (j *SurgeRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("surge refresh job stopped")
}
