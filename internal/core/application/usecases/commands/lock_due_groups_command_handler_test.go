package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharedcab/internal/adapters/out/inmem"
	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLockDueGroupsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	m := newGroupMocks()
	now := time.Now()

	due, _ := newGroupedBooking(t, 5*time.Minute, 0)
	// moved out of the window after the search
	later, _ := newGroupedBooking(t, time.Hour, 0)

	m.groups.On("FindFormingDepartingBefore", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Equal(now.Add(10 * time.Minute))
	}), 100).Return([]kernel.UUID{due.ID(), later.ID()}, nil).Once()
	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Twice()
	m.groups.On("GetForUpdate", ctx, due.ID()).Return(due, nil).Once()
	m.groups.On("GetForUpdate", ctx, later.ID()).Return(later, nil).Once()
	m.groups.On("Update", ctx, due).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()

	handler := commands.NewLockDueGroupsCommandHandler(m.factory, inmem.NewLocker(), commands.DefaultLockSettings(),
		10*time.Minute, discardLogger())
	cmd, err := commands.NewLockDueGroupsCommand(now)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	m.groups.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	assert.Equal(t, ridegroup.Locked, due.Status())
	assert.Equal(t, ridegroup.Forming, later.Status())
}

func TestLockDueGroupsCommandHandler_Handle_ContinuesAfterFailure(t *testing.T) {
	ctx := t.Context()
	m := newGroupMocks()
	now := time.Now()

	busy, _ := newGroupedBooking(t, 5*time.Minute, 0)
	due, _ := newGroupedBooking(t, 5*time.Minute, 0)
	busyKey := ports.RideGroupLockKey(busy.ID())

	m.groups.On("FindFormingDepartingBefore", ctx, mock.Anything, mock.Anything).
		Return([]kernel.UUID{busy.ID(), due.ID()}, nil).Once()
	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Twice()
	m.groups.On("GetForUpdate", ctx, due.ID()).Return(due, nil).Once()
	m.groups.On("Update", ctx, due).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()

	lease := &MockLease{}
	lease.On("Release", mock.Anything).Return(nil)
	locker := &MockLocker{}
	locker.On("Acquire", ctx, busyKey, mock.Anything, mock.Anything).
		Return(nil, errs.NewLockNotAcquiredError(busyKey)).Once()
	locker.On("Acquire", ctx, ports.RideGroupLockKey(due.ID()), mock.Anything, mock.Anything).
		Return(lease, nil).Once()

	handler := commands.NewLockDueGroupsCommandHandler(m.factory, locker, commands.DefaultLockSettings(), 0,
		discardLogger())
	cmd, err := commands.NewLockDueGroupsCommand(now)
	require.NoError(t, err)

	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrLockNotAcquired)
	assert.Equal(t, ridegroup.Locked, due.Status())
	assert.Equal(t, ridegroup.Forming, busy.Status())
}

func TestLockDueGroupsCommandHandler_Handle_SearchFails(t *testing.T) {
	ctx := t.Context()
	m := newGroupMocks()
	searchErr := errors.New("timeout")

	m.groups.On("FindFormingDepartingBefore", ctx, mock.Anything, mock.Anything).Return(nil, searchErr).Once()

	handler := commands.NewLockDueGroupsCommandHandler(m.factory, inmem.NewLocker(), commands.DefaultLockSettings(), 0,
		discardLogger())
	cmd, err := commands.NewLockDueGroupsCommand(time.Now())
	require.NoError(t, err)

	require.ErrorIs(t, handler.Handle(ctx, cmd), searchErr)
	m.uow.AssertNotCalled(t, "Begin", mock.Anything, mock.Anything)
}

type MockSurgeRefresher struct{ mock.Mock }

func (m *MockSurgeRefresher) Refresh(ctx context.Context) (ports.Surge, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Surge), args.Error(1)
}

func TestRefreshSurgeCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	refresher := &MockSurgeRefresher{}
	refresher.On("Refresh", ctx).Return(ports.Surge{ActiveBookings: 60}, nil).Once()

	handler := commands.NewRefreshSurgeCommandHandler(refresher, discardLogger())

	require.NoError(t, handler.Handle(ctx))
	refresher.AssertExpectations(t)
}

func TestRefreshSurgeCommandHandler_Handle_Error(t *testing.T) {
	ctx := t.Context()
	refreshErr := errors.New("db down")
	refresher := &MockSurgeRefresher{}
	refresher.On("Refresh", ctx).Return(ports.Surge{}, refreshErr).Once()

	handler := commands.NewRefreshSurgeCommandHandler(refresher, discardLogger())

	require.ErrorIs(t, handler.Handle(ctx), refreshErr)
}
