package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"sharedcab/internal/adapters/out/inmem"
	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/domain/services/matching"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	mgRoad     = kernel.MustNewLocation(12.9756, 77.6050)
	nearMGRoad = kernel.MustNewLocation(12.9790, 77.6080)
	airport    = kernel.MustNewLocation(13.1986, 77.7066)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTrip(pickup kernel.Location) booking.Trip {
	return booking.Trip{
		Pickup:              pickup,
		Dropoff:             airport,
		RequestedPickupTime: time.Now().Add(time.Hour).Truncate(time.Minute),
		PassengerCount:      1,
		LuggageWeightKg:     10,
		LuggageCount:        1,
		MaxDetourTolerance:  booking.DefaultDetourTolerance,
	}
}

func newPassenger(t *testing.T, class vehicle.Class) *passenger.Passenger {
	t.Helper()
	p, err := passenger.NewPassenger(kernel.NewUUID(), "Asha", "asha@example.com", "+911234567890",
		booking.DefaultDetourTolerance, class)
	require.NoError(t, err)
	return p
}

func newVehicle(t *testing.T, class vehicle.Class) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "KA01AB"+kernel.NewUUID().String()[:4], "Ravi", "+919876543210",
		class, mgRoad)
	require.NoError(t, err)
	return v
}

// newFormingGroup returns a forming group holding one confirmed booking from near MG Road.
func newFormingGroup(t *testing.T, class vehicle.Class) *ridegroup.RideGroup {
	t.Helper()
	now := time.Now()
	trip := newTrip(nearMGRoad)
	member, err := booking.NewBooking(kernel.NewUUID(), kernel.NewUUID(), trip, now)
	require.NoError(t, err)

	g, err := ridegroup.NewRideGroup(kernel.NewUUID(), kernel.NewUUID(), class, airport,
		trip.RequestedPickupTime, member.DirectDistanceKm(), now)
	require.NoError(t, err)
	require.NoError(t, g.AddBooking(member, now))
	require.NoError(t, member.Confirm(now))
	return g
}

type rideMocks struct {
	factory       *MockRideUoWFactory
	uow           *MockUoW
	passengers    *MockPassengerRepository
	vehicles      *MockVehicleRepository
	bookings      *MockBookingRepository
	groups        *MockRideGroupRepository
	cancellations *MockCancellationRepository
	configs       *MockPricingConfigRepository
	publisher     *MockPublisher
	surge         *MockSurgeInvalidator
	trace         []string
}

func newRideMocks() *rideMocks {
	m := &rideMocks{
		factory:       &MockRideUoWFactory{},
		uow:           &MockUoW{},
		passengers:    &MockPassengerRepository{},
		vehicles:      &MockVehicleRepository{},
		bookings:      &MockBookingRepository{},
		groups:        &MockRideGroupRepository{},
		cancellations: &MockCancellationRepository{},
		configs:       &MockPricingConfigRepository{},
		publisher:     &MockPublisher{},
		surge:         &MockSurgeInvalidator{},
	}
	m.factory.On("Create").Return(m.uow)
	m.uow.On("PassengerRepository").Return(m.passengers).Maybe()
	m.uow.On("VehicleRepository").Return(m.vehicles).Maybe()
	m.uow.On("BookingRepository").Return(m.bookings).Maybe()
	m.uow.On("RideGroupRepository").Return(m.groups).Maybe()
	m.uow.On("CancellationRepository").Return(m.cancellations).Maybe()
	m.uow.On("PricingConfigRepository").Return(m.configs).Maybe()
	m.uow.On("Rollback", mock.Anything).Run(func(mock.Arguments) {
		m.trace = append(m.trace, "rollback")
	}).Return(nil).Maybe()
	return m
}

func (m *rideMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.passengers.AssertExpectations(t)
	m.vehicles.AssertExpectations(t)
	m.bookings.AssertExpectations(t)
	m.groups.AssertExpectations(t)
	m.configs.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
	m.surge.AssertExpectations(t)
}

func newRequestRideHandler(m *rideMocks, locker ports.Locker) *commands.RequestRideCommandHandler {
	settings := matching.DefaultSettings()
	matcher := matching.NewMatcher(
		matching.NewGreedyNearestNeighbor(settings),
		matching.NewConstraintBasedClustering(settings),
	)
	return commands.NewRequestRideCommandHandler(m.factory, matcher, pricing.DefaultPipeline(nil), locker,
		m.publisher, m.surge, commands.DefaultRideSettings(), discardLogger())
}

func newRequestRideCommand(t *testing.T, passengerID kernel.UUID, class vehicle.Class) commands.RequestRideCommand {
	t.Helper()
	cmd, err := commands.NewRequestRideCommand(kernel.NewUUID(), passengerID, newTrip(mgRoad), class)
	require.NoError(t, err)
	return cmd
}

func TestRequestRideCommandHandler_Handle_JoinsFormingGroup(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	g := newFormingGroup(t, vehicle.SUV)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*ridegroup.RideGroup{g}, nil).Once()
	m.groups.On("GetForUpdate", ctx, g.ID()).Return(g, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()
	m.groups.On("Update", ctx, g).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.surge.On("Invalidate", ctx).Return(nil).Once()

	var event ports.BookingEvent
	m.publisher.On("Publish", ctx, mock.Anything).Run(func(args mock.Arguments) {
		event = args.Get(1).(ports.BookingEvent)
	}).Return(nil).Once()

	locker := inmem.NewLocker()
	handler := newRequestRideHandler(m, locker)

	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	m.assertExpectations(t)
	m.vehicles.AssertNotCalled(t, "FindAvailableNear", mock.Anything, mock.Anything)

	joined, ok := g.Member(cmd.BookingID())
	require.True(t, ok)
	assert.Len(t, g.Members(), 2)
	assert.Equal(t, 2, g.TotalPassengers())
	assert.Equal(t, booking.Confirmed, joined.Status())

	fare, ok := joined.Fare()
	require.True(t, ok)
	assert.True(t, fare.SharingDiscount().IsPositive())
	assert.True(t, fare.Final().LessThan(fare.Base()))

	assert.Equal(t, ports.BookingConfirmedEvent, event.Type)
	assert.Equal(t, cmd.BookingID().String(), event.BookingID)
	assert.Equal(t, g.ID().String(), event.RideGroupID)
	assert.NotEmpty(t, event.FinalFare)

	// locks are released once the handler returns
	lease, err := locker.Acquire(ctx, ports.RideGroupLockKey(g.ID()), time.Millisecond, time.Second)
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))
}

func TestRequestRideCommandHandler_Handle_OpensGroupWithPreferredClass(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.SUV)
	v := newVehicle(t, vehicle.SUV)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.MatchedBy(func(s ports.VehicleSearch) bool {
		return s.Class == vehicle.SUV && s.MinSeats == 1 && s.Limit == 1
	})).Return([]*vehicle.Vehicle{v}, nil).Once()
	m.vehicles.On("GetForUpdate", ctx, v.ID()).Return(v, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()

	var added *ridegroup.RideGroup
	m.groups.On("Add", ctx, mock.Anything).Run(func(args mock.Arguments) {
		added = args.Get(1).(*ridegroup.RideGroup)
	}).Return(nil).Once()
	m.vehicles.On("Update", ctx, v).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.surge.On("Invalidate", ctx).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	handler := newRequestRideHandler(m, inmem.NewLocker())

	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	m.assertExpectations(t)
	m.groups.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	require.NotNil(t, added)
	assert.Equal(t, ridegroup.Forming, added.Status())
	assert.Equal(t, vehicle.SUV, added.VehicleClass())
	require.NotNil(t, added.VehicleID())
	assert.True(t, added.VehicleID().IsEqual(v.ID()))
	assert.Equal(t, vehicle.Assigned, v.Status())

	b, ok := added.Member(cmd.BookingID())
	require.True(t, ok)
	assert.Equal(t, booking.Confirmed, b.Status())
	fare, ok := b.Fare()
	require.True(t, ok)
	assert.True(t, fare.SharingDiscount().IsZero())
}

func TestRequestRideCommandHandler_Handle_SkipsVehicleTakenMeanwhile(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	taken := newVehicle(t, vehicle.Sedan)
	free := newVehicle(t, vehicle.Van)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)
	require.NoError(t, taken.Assign())

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.MatchedBy(func(s ports.VehicleSearch) bool {
		return s.Class == vehicle.Sedan
	})).Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.MatchedBy(func(s ports.VehicleSearch) bool {
		return s.Class == vehicle.UnknownClass && s.Limit == 5
	})).Return([]*vehicle.Vehicle{taken, free}, nil).Once()
	m.vehicles.On("GetForUpdate", ctx, taken.ID()).Return(taken, nil).Once()
	m.vehicles.On("GetForUpdate", ctx, free.ID()).Return(free, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()
	m.groups.On("Add", ctx, mock.Anything).Return(nil).Once()
	m.vehicles.On("Update", ctx, free).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.surge.On("Invalidate", ctx).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	handler := newRequestRideHandler(m, inmem.NewLocker())

	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	m.assertExpectations(t)
	assert.Equal(t, vehicle.Assigned, free.Status())
}

func TestRequestRideCommandHandler_Handle_NoVehicle(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.PremiumSedan)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.Anything).Return(nil, nil).Twice()

	locker := &MockLocker{}
	handler := newRequestRideHandler(m, locker)

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNoResourceAvailable)
	m.assertExpectations(t)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
	m.groups.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	locker.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRideCommandHandler_Handle_VehicleLockNotAcquired(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	v := newVehicle(t, vehicle.Sedan)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.Anything).Return([]*vehicle.Vehicle{v}, nil).Once()

	key := ports.VehicleLockKey(v.ID())
	locker := &MockLocker{}
	locker.On("Acquire", ctx, key, ports.DefaultLockWait, ports.DefaultLockLease).
		Return(nil, errs.NewLockNotAcquiredError(key)).Once()

	handler := newRequestRideHandler(m, locker)

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrLockNotAcquired)
	m.assertExpectations(t)
	locker.AssertExpectations(t)
	m.vehicles.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRequestRideCommandHandler_Handle_ReleasesLocksOnFailure(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	v := newVehicle(t, vehicle.Sedan)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)
	commitErr := errors.New("commit failed")

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.Anything).Return([]*vehicle.Vehicle{v}, nil).Once()
	m.vehicles.On("GetForUpdate", ctx, v.ID()).Return(v, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()
	m.groups.On("Add", ctx, mock.Anything).Return(nil).Once()
	m.vehicles.On("Update", ctx, v).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(commitErr).Once()

	lease := &MockLease{}
	lease.On("Release", mock.Anything).Run(func(mock.Arguments) {
		m.trace = append(m.trace, "release")
	}).Return(nil).Once()
	locker := &MockLocker{}
	locker.On("Acquire", ctx, ports.VehicleLockKey(v.ID()), mock.Anything, mock.Anything).Return(lease, nil).Once()

	handler := newRequestRideHandler(m, locker)

	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commitErr)
	m.assertExpectations(t)
	lease.AssertExpectations(t)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	m.surge.AssertNotCalled(t, "Invalidate", mock.Anything)
	// row locks go first so the next lease holder never waits on them
	assert.Equal(t, []string{"rollback", "release"}, m.trace)
}

func TestRequestRideCommandHandler_Handle_FallsBackWhenGroupFilledMeanwhile(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	g := newFormingGroup(t, vehicle.Sedan)
	v := newVehicle(t, vehicle.Sedan)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)

	// three more seats taken by a concurrent request before the group lock is granted
	lateTrip := newTrip(nearMGRoad)
	lateTrip.PassengerCount = 3
	late, err := booking.NewBooking(kernel.NewUUID(), kernel.NewUUID(), lateTrip, time.Now())
	require.NoError(t, err)

	groupLease := &MockLease{}
	groupLease.On("Release", mock.Anything).Return(nil).Once()
	vehicleLease := &MockLease{}
	vehicleLease.On("Release", mock.Anything).Return(nil).Once()
	locker := &MockLocker{}
	locker.On("Acquire", ctx, ports.RideGroupLockKey(g.ID()), mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			require.NoError(t, g.AddBooking(late, time.Now()))
		}).Return(groupLease, nil).Once()
	locker.On("Acquire", ctx, ports.VehicleLockKey(v.ID()), mock.Anything, mock.Anything).
		Return(vehicleLease, nil).Once()

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*ridegroup.RideGroup{g}, nil).Once()
	m.groups.On("GetForUpdate", ctx, g.ID()).Return(g, nil).Once()
	m.vehicles.On("FindAvailableNear", ctx, mock.Anything).Return([]*vehicle.Vehicle{v}, nil).Once()
	m.vehicles.On("GetForUpdate", ctx, v.ID()).Return(v, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()

	var added *ridegroup.RideGroup
	m.groups.On("Add", ctx, mock.Anything).Run(func(args mock.Arguments) {
		added = args.Get(1).(*ridegroup.RideGroup)
	}).Return(nil).Once()
	m.vehicles.On("Update", ctx, v).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.surge.On("Invalidate", ctx).Return(nil).Once()
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	handler := newRequestRideHandler(m, locker)

	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	m.assertExpectations(t)
	locker.AssertExpectations(t)
	groupLease.AssertExpectations(t)
	vehicleLease.AssertExpectations(t)
	m.groups.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	_, joined := g.Member(cmd.BookingID())
	assert.False(t, joined)
	require.NotNil(t, added)
	assert.False(t, added.ID().IsEqual(g.ID()))
	_, ok := added.Member(cmd.BookingID())
	assert.True(t, ok)
	assert.Equal(t, vehicle.Assigned, v.Status())
}

func TestRequestRideCommandHandler_Handle_PassengerNotFound(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	passengerID := kernel.NewUUID()
	cmd := newRequestRideCommand(t, passengerID, vehicle.UnknownClass)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, passengerID).
		Return(nil, errs.NewObjectNotFoundError("passenger", passengerID)).Once()

	handler := newRequestRideHandler(m, inmem.NewLocker())

	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	m.assertExpectations(t)
	m.groups.AssertNotCalled(t, "FindFormingNear",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRideCommandHandler_Handle_BeginFails(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	cmd := newRequestRideCommand(t, kernel.NewUUID(), vehicle.UnknownClass)
	beginErr := errors.New("connection refused")

	m.uow.On("Begin", ctx, mock.Anything).Return(beginErr).Once()

	handler := newRequestRideHandler(m, inmem.NewLocker())

	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, beginErr)
	m.passengers.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRequestRideCommandHandler_Handle_InvalidCommand(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	handler := newRequestRideHandler(m, inmem.NewLocker())

	err := handler.Handle(ctx, commands.RequestRideCommand{})

	require.ErrorIs(t, err, commands.ErrRequestRideCommandIsNotConstructed)
	m.factory.AssertNotCalled(t, "Create")
}

func TestRequestRideCommandHandler_Handle_PublishFailureIsLogged(t *testing.T) {
	ctx := t.Context()
	m := newRideMocks()
	p := newPassenger(t, vehicle.UnknownClass)
	g := newFormingGroup(t, vehicle.Sedan)
	cmd := newRequestRideCommand(t, p.ID(), vehicle.UnknownClass)

	m.uow.On("Begin", ctx, mock.Anything).Return(nil).Once()
	m.passengers.On("Get", ctx, p.ID()).Return(p, nil).Once()
	m.groups.On("FindFormingNear", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*ridegroup.RideGroup{g}, nil).Once()
	m.groups.On("GetForUpdate", ctx, g.ID()).Return(g, nil).Once()
	m.configs.On("ListActive", ctx).Return(nil, nil).Once()
	m.groups.On("Update", ctx, g).Return(nil).Once()
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.surge.On("Invalidate", ctx).Return(errors.New("redis down")).Once()
	m.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	handler := newRequestRideHandler(m, inmem.NewLocker())

	require.NoError(t, handler.Handle(ctx, cmd))
	m.assertExpectations(t)
}
