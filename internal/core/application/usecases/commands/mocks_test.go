package commands_test

import (
	"context"
	"database/sql"
	"time"

	"sharedcab/internal/core/application/usecases/commands"
	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockPassengerRepository struct{ mock.Mock }

func (m *MockPassengerRepository) Add(ctx context.Context, p *passenger.Passenger) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPassengerRepository) Update(ctx context.Context, p *passenger.Passenger) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPassengerRepository) Get(ctx context.Context, id kernel.UUID) (*passenger.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passenger.Passenger), args.Error(1)
}

func (m *MockPassengerRepository) GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*passenger.Passenger), args.Error(1)
}

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) FindAvailableNear(ctx context.Context, search ports.VehicleSearch) ([]*vehicle.Vehicle, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vehicle.Vehicle), args.Error(1)
}

type MockBookingRepository struct{ mock.Mock }

func (m *MockBookingRepository) Add(ctx context.Context, b *booking.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Get(ctx context.Context, id kernel.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) FindPendingNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*booking.Booking, error) {
	args := m.Called(ctx, near, radiusKm, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

type MockRideGroupRepository struct{ mock.Mock }

func (m *MockRideGroupRepository) Add(ctx context.Context, g *ridegroup.RideGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockRideGroupRepository) Update(ctx context.Context, g *ridegroup.RideGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *MockRideGroupRepository) Get(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ridegroup.RideGroup), args.Error(1)
}

func (m *MockRideGroupRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ridegroup.RideGroup), args.Error(1)
}

func (m *MockRideGroupRepository) FindFormingNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*ridegroup.RideGroup, error) {
	args := m.Called(ctx, near, radiusKm, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ridegroup.RideGroup), args.Error(1)
}

func (m *MockRideGroupRepository) FindFormingDepartingBefore(ctx context.Context, t time.Time, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, t, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockCancellationRepository struct{ mock.Mock }

func (m *MockCancellationRepository) Add(ctx context.Context, c *cancellation.Cancellation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCancellationRepository) GetByBookingID(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.Cancellation), args.Error(1)
}

type MockPricingConfigRepository struct{ mock.Mock }

func (m *MockPricingConfigRepository) ListActive(ctx context.Context) ([]*pricingconfig.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingconfig.Entry), args.Error(1)
}

// MockUoW implements every segmented unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context, opts ...*sql.TxOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) PassengerRepository() ports.PassengerRepository {
	return m.Called().Get(0).(ports.PassengerRepository)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	return m.Called().Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) BookingRepository() ports.BookingRepository {
	return m.Called().Get(0).(ports.BookingRepository)
}

func (m *MockUoW) RideGroupRepository() ports.RideGroupRepository {
	return m.Called().Get(0).(ports.RideGroupRepository)
}

func (m *MockUoW) CancellationRepository() ports.CancellationRepository {
	return m.Called().Get(0).(ports.CancellationRepository)
}

func (m *MockUoW) PricingConfigRepository() ports.PricingConfigRepository {
	return m.Called().Get(0).(ports.PricingConfigRepository)
}

type MockRideUoWFactory struct{ mock.Mock }

func (m *MockRideUoWFactory) Create() commands.RideUoW {
	return m.Called().Get(0).(commands.RideUoW)
}

type MockGroupUoWFactory struct{ mock.Mock }

func (m *MockGroupUoWFactory) Create() commands.GroupUoW {
	return m.Called().Get(0).(commands.GroupUoW)
}

type MockPassengerUoWFactory struct{ mock.Mock }

func (m *MockPassengerUoWFactory) Create() commands.PassengerUoW {
	return m.Called().Get(0).(commands.PassengerUoW)
}

type MockVehicleUoWFactory struct{ mock.Mock }

func (m *MockVehicleUoWFactory) Create() commands.VehicleUoW {
	return m.Called().Get(0).(commands.VehicleUoW)
}

type MockLease struct{ mock.Mock }

func (m *MockLease) Key() string {
	return m.Called().String(0)
}

func (m *MockLease) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockLocker struct{ mock.Mock }

func (m *MockLocker) Acquire(ctx context.Context, key string, wait, lease time.Duration) (ports.Lease, error) {
	args := m.Called(ctx, key, wait, lease)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Lease), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, event ports.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockSurgeInvalidator struct{ mock.Mock }

func (m *MockSurgeInvalidator) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyRebalance(groupID kernel.UUID) {
	m.Called(groupID)
}
