package rebalance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"sharedcab/internal/core/application/rebalance"
	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRebalancer struct {
	mu     sync.Mutex
	seen   []kernel.UUID
	err    error
	block  chan struct{}
	called chan struct{}
}

func newRecordingRebalancer() *recordingRebalancer {
	return &recordingRebalancer{called: make(chan struct{}, 16)}
}

func (r *recordingRebalancer) Handle(ctx context.Context, cmd commands.RebalanceGroupCommand) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	r.mu.Lock()
	r.seen = append(r.seen, cmd.GroupID())
	r.mu.Unlock()
	r.called <- struct{}{}
	return r.err
}

func (r *recordingRebalancer) groups() []kernel.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kernel.UUID(nil), r.seen...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitCalls(t *testing.T, r *recordingRebalancer, n int) {
	t.Helper()
	for range n {
		select {
		case <-r.called:
		case <-time.After(5 * time.Second):
			t.Fatal("rebalance was not run in time")
		}
	}
}

func Test_ReactorRebalancesNotifiedGroups(t *testing.T) {
	// Arrange
	rebalancer := newRecordingRebalancer()
	reactor := rebalance.NewReactor(rebalancer, 2, 8, discardLogger())
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- reactor.Run(ctx) }()

	first, second := kernel.NewUUID(), kernel.NewUUID()

	// Act
	reactor.NotifyRebalance(first)
	reactor.NotifyRebalance(second)
	waitCalls(t, rebalancer, 2)
	cancel()

	// Assert
	require.NoError(t, <-done)
	assert.ElementsMatch(t, []kernel.UUID{first, second}, rebalancer.groups())
}

func Test_ReactorSwallowsRebalanceErrors(t *testing.T) {
	rebalancer := newRecordingRebalancer()
	rebalancer.err = errors.New("lock not acquired")
	reactor := rebalance.NewReactor(rebalancer, 1, 8, discardLogger())
	failed := metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceFailed)
	before := testutil.ToFloat64(failed)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- reactor.Run(ctx) }()

	reactor.NotifyRebalance(kernel.NewUUID())
	reactor.NotifyRebalance(kernel.NewUUID())
	waitCalls(t, rebalancer, 2)
	cancel()

	require.NoError(t, <-done)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(failed) >= before+2
	}, time.Second, 10*time.Millisecond)
}

func Test_NotifyRebalanceDropsWhenQueueIsFull(t *testing.T) {
	// Nobody runs the reactor, so the queue fills up.
	rebalancer := newRecordingRebalancer()
	reactor := rebalance.NewReactor(rebalancer, 1, 1, discardLogger())
	failed := metrics.RebalancesTotal.WithLabelValues(metrics.RebalanceFailed)
	before := testutil.ToFloat64(failed)

	returned := make(chan struct{})
	go func() {
		reactor.NotifyRebalance(kernel.NewUUID())
		reactor.NotifyRebalance(kernel.NewUUID())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("NotifyRebalance blocked")
	}
	assert.InDelta(t, before+1, testutil.ToFloat64(failed), 1e-9)
	assert.Empty(t, rebalancer.groups())
}

func Test_ReactorStopsWhileRebalanceIsRunning(t *testing.T) {
	rebalancer := newRecordingRebalancer()
	rebalancer.block = make(chan struct{})
	reactor := rebalance.NewReactor(rebalancer, 1, 4, discardLogger())
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- reactor.Run(ctx) }()

	reactor.NotifyRebalance(kernel.NewUUID())
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reactor did not stop")
	}
}
