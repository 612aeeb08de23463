// Package rebalance runs ride group rebalancing off the request path. Cancellation
// hands group ids to a Reactor, whose workers run the rebalance command for each.
package rebalance

import (
	"context"
	"log/slog"
	"time"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers   = 2
	DefaultQueueSize = 256
	signalTimeout    = 30 * time.Second
	signalReason     = "booking cancelled"
)

var _ ports.RebalanceNotifier = (*Reactor)(nil)

type GroupRebalancer interface {
	Handle(ctx context.Context, cmd commands.RebalanceGroupCommand) error
}

// Reactor queues signals in a bounded buffer. When the buffer is full the signal
// is dropped and logged; the group is left as the cancellation committed it.
type Reactor struct {
	rebalancer GroupRebalancer
	queue      chan kernel.UUID
	workers    int
	logger     *slog.Logger
}

func NewReactor(rebalancer GroupRebalancer, workers, queueSize int, logger *slog.Logger) *Reactor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Reactor{
		rebalancer: rebalancer,
		queue:      make(chan kernel.UUID, queueSize),
		workers:    workers,
		logger:     logger.With("component", "rebalance"),
	}
}

// NotifyRebalance never blocks.
func (r *Reactor) NotifyRebalance(groupID kernel.UUID) {
	select {
	case r.queue <- groupID:
	default:
		metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceFailed).Inc()
		r.logger.Warn("rebalance queue full, signal dropped", "ride_group_id", groupID.String())
	}
}

// Run blocks until ctx is cancelled. Signals still queued at that point are discarded.
func (r *Reactor) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "rebalance reactor started", "workers", r.workers)

	g, ctx := errgroup.WithContext(ctx)
	for range r.workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case groupID := <-r.queue:
					r.process(ctx, groupID)
				}
			}
		})
	}
	err := g.Wait()

	r.logger.Info("rebalance reactor stopped", "pending", len(r.queue))
	return err
}

// process swallows every failure: the cancellation that raised the signal has
// already committed.
func (r *Reactor) process(ctx context.Context, groupID kernel.UUID) {
	ctx, cancel := context.WithTimeout(ctx, signalTimeout)
	defer cancel()

	cmd, err := commands.NewRebalanceGroupCommand(groupID, signalReason)
	if err == nil {
		err = r.rebalancer.Handle(ctx, cmd)
	}
	if err != nil {
		metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceFailed).Inc()
		r.logger.ErrorContext(ctx, "rebalance failed", "ride_group_id", groupID.String(), "error", err)
	}
}
