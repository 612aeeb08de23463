package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharedcab/internal/core/application/usecases/queries"
	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/pricingconfig"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/domain/services/matching"
	"sharedcab/internal/core/domain/services/pricing"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPricingConfigSource struct {
	mock.Mock
}

func (m *MockPricingConfigSource) ListActive(ctx context.Context) ([]*pricingconfig.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingconfig.Entry), args.Error(1)
}

type MockSurgeReader struct {
	mock.Mock
}

func (m *MockSurgeReader) Current(ctx context.Context) (ports.Surge, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.Surge), args.Error(1)
}

type MockBookingFinder struct {
	mock.Mock
}

func (m *MockBookingFinder) Get(ctx context.Context, id kernel.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingFinder) FindPendingNear(
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

type MockFormingGroupFinder struct {
	mock.Mock
}

func (m *MockFormingGroupFinder) FindFormingNear(
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

func Test_FareEstimateAtNightExpectsNoCoPassengers(t *testing.T) {
	// Arrange
	configs := &MockPricingConfigSource{}
	configs.On("ListActive", mock.Anything).Return([]*pricingconfig.Entry{}, nil)
	handler := queries.NewFareEstimateQueryHandler(configs, pricing.DefaultPipeline(nil))
	at := time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)
	query, err := queries.NewFareEstimateQuery(mgRoad, airport, vehicle.UnknownClass, at)
	require.NoError(t, err)

	// Act
	estimate, err := handler.Handle(t.Context(), query)

	// Assert
	require.NoError(t, err)
	distance := kernel.Distance(mgRoad, airport)
	assert.InDelta(t, distance, estimate.EstimatedDistanceKm, 1e-9)
	assert.True(t, pricing.DefaultBookingFee.Equal(estimate.BookingFee))
	assert.True(t, estimate.BaseFare.Equal(estimate.BookingFee.Add(estimate.DistanceCharge)))
	assert.True(t, decimal.NewFromInt(1).Equal(estimate.SurgeMultiplier))
	assert.True(t, estimate.SurgeCharge.IsZero())
	assert.Zero(t, estimate.EstimatedCoPassengers)
	assert.True(t, estimate.EstimatedSharingDiscount.IsZero())
	assert.True(t, estimate.EstimatedTotalFare.IsPositive())
	assert.Equal(t, "Book now for best rates.", estimate.Message)
	configs.AssertExpectations(t)
}

func Test_FareEstimateInRushHourPromisesSharingDiscount(t *testing.T) {
	configs := &MockPricingConfigSource{}
	configs.On("ListActive", mock.Anything).Return([]*pricingconfig.Entry{}, nil)
	handler := queries.NewFareEstimateQueryHandler(configs, pricing.DefaultPipeline(nil))
	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	query, err := queries.NewFareEstimateQuery(mgRoad, airport, vehicle.SUV, at)
	require.NoError(t, err)

	estimate, err := handler.Handle(t.Context(), query)

	require.NoError(t, err)
	assert.Equal(t, 2, estimate.EstimatedCoPassengers)
	expected := estimate.EstimatedTotalFare.Mul(decimal.RequireFromString("0.10")).Round(pricing.Scale)
	assert.True(t, expected.Equal(estimate.EstimatedSharingDiscount))
	assert.Equal(t, "Share your ride and save up to 10%!", estimate.Message)
}

func Test_FareEstimateConfigFailure(t *testing.T) {
	configs := &MockPricingConfigSource{}
	configs.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))
	handler := queries.NewFareEstimateQueryHandler(configs, pricing.DefaultPipeline(nil))
	query, err := queries.NewFareEstimateQuery(mgRoad, airport, vehicle.Sedan, time.Time{})
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), query)

	require.EqualError(t, err, "db down")
}

func Test_NewFareEstimateQueryRejectsMissingLocations(t *testing.T) {
	_, err := queries.NewFareEstimateQuery(kernel.Location{}, kernel.Location{}, vehicle.Sedan, time.Time{})

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func Test_CurrentSurge(t *testing.T) {
	tests := []struct {
		name       string
		multiplier string
		percentage string
		active     bool
	}{
		{name: "no surge", multiplier: "1", percentage: "0", active: false},
		{name: "medium demand", multiplier: "1.5", percentage: "50", active: true},
		{name: "high demand", multiplier: "2.0", percentage: "100", active: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &MockSurgeReader{}
			reader.On("Current", mock.Anything).Return(ports.Surge{
				ActiveBookings: 120,
				Multiplier:     decimal.RequireFromString(tt.multiplier),
				ComputedAt:     now,
			}, nil)

			got, err := queries.NewCurrentSurgeQueryHandler(reader).Handle(t.Context())

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.percentage).Equal(got.Percentage))
			assert.Equal(t, tt.active, got.Active)
			assert.Equal(t, int64(120), got.ActiveBookings)
		})
	}
}

func Test_CompatibleBookingsExcludesTheBookingItself(t *testing.T) {
	// Arrange
	b := pendingBooking(t, mgRoad)
	other := pendingBooking(t, indiranagar)
	bookings := &MockBookingFinder{}
	bookings.On("Get", mock.Anything, b.ID()).Return(b, nil)
	bookings.On("FindPendingNear", mock.Anything, mgRoad, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*booking.Booking{b, other}, nil)
	matcher := matching.NewMatcher(matching.NewGreedyNearestNeighbor(matching.DefaultSettings()))
	handler := queries.NewCompatibleBookingsQueryHandler(bookings, &MockFormingGroupFinder{}, matcher)
	query, err := queries.NewCompatibleBookingsQuery(b.ID(), "greedy_nearest_neighbor")
	require.NoError(t, err)

	// Act
	got, err := handler.Handle(t.Context(), query)

	// Assert
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ID.IsEqual(other.ID()))
	assert.Equal(t, "PENDING", got[0].Status)
	bookings.AssertExpectations(t)
}

func Test_CompatibleBookingsUnknownStrategy(t *testing.T) {
	matcher := matching.NewMatcher(matching.NewGreedyNearestNeighbor(matching.DefaultSettings()))
	handler := queries.NewCompatibleBookingsQueryHandler(&MockBookingFinder{}, &MockFormingGroupFinder{}, matcher)
	query, err := queries.NewCompatibleBookingsQuery(kernel.NewUUID(), "random")
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func Test_NewCompatibleBookingsQueryDefaultsStrategy(t *testing.T) {
	query, err := queries.NewCompatibleBookingsQuery(kernel.NewUUID(), " ")

	require.NoError(t, err)
	assert.Equal(t, matching.ConstraintBasedClusteringName, query.Strategy())
}

func Test_QueryConstructorsRejectNilIDs(t *testing.T) {
	_, err := queries.NewGetBookingQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetRideGroupForBookingQuery(kernel.UUID{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewListPassengerBookingsQuery(kernel.UUID{}, true, 0, 10)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetPassengerByEmailQuery("   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetVehicleByPlateQuery("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func Test_NewListPassengerBookingsQueryClampsPaging(t *testing.T) {
	query, err := queries.NewListPassengerBookingsQuery(kernel.NewUUID(), false, -3, 1000)

	require.NoError(t, err)
	assert.Equal(t, 0, query.Page())
	assert.Equal(t, queries.MaxPageSize, query.Size())
}

func Test_NewNearbyVehiclesQueryRadius(t *testing.T) {
	query, err := queries.NewNearbyVehiclesQuery(mgRoad, 0)
	require.NoError(t, err)
	assert.InDelta(t, queries.DefaultNearbyRadiusKm, query.RadiusKm(), 1e-9)

	_, err = queries.NewNearbyVehiclesQuery(mgRoad, 500)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func pendingBooking(t *testing.T, from kernel.Location) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(kernel.NewUUID(), kernel.NewUUID(), booking.Trip{
		Pickup:              from,
		Dropoff:             airport,
		RequestedPickupTime: now.Add(time.Hour),
		PassengerCount:      1,
		MaxDetourTolerance:  booking.DefaultDetourTolerance,
	}, now)
	require.NoError(t, err)
	return b
}
