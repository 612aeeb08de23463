package ridegroup_test

import (
	"testing"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	airport = kernel.MustNewLocation(13.1986, 77.7066)
)

func newBooking(t *testing.T, lat, lng float64, passengers int, luggageKg float64) *booking.Booking {
	t.Helper()
	b, err := booking.NewBooking(kernel.NewUUID(), kernel.NewUUID(), booking.Trip{
		Pickup:              kernel.MustNewLocation(lat, lng),
		Dropoff:             airport,
		RequestedPickupTime: now.Add(time.Hour),
		PassengerCount:      passengers,
		LuggageWeightKg:     luggageKg,
		MaxDetourTolerance:  booking.DefaultDetourTolerance,
	}, now)
	require.NoError(t, err)
	return b
}

func newGroup(t *testing.T, class vehicle.Class) *ridegroup.RideGroup {
	t.Helper()
	g, err := ridegroup.NewRideGroup(kernel.NewUUID(), kernel.NewUUID(), class, airport, now.Add(time.Hour), 30, now)
	require.NoError(t, err)
	return g
}

func sumPassengers(g *ridegroup.RideGroup) int {
	total := 0
	for _, m := range g.Members() {
		total += m.PassengerCount()
	}
	return total
}

func TestRideGroup_TotalsFollowMembership(t *testing.T) {
	g := newGroup(t, vehicle.SUV)
	a := newBooking(t, 12.97, 77.59, 2, 20)
	b := newBooking(t, 12.98, 77.60, 1, 15)
	c := newBooking(t, 12.99, 77.61, 3, 30)

	for _, m := range []*booking.Booking{a, b, c} {
		require.NoError(t, g.AddBooking(m, now))
		assert.Equal(t, sumPassengers(g), g.TotalPassengers())
	}
	assert.InDelta(t, 65, g.TotalLuggageKg(), 1e-9)

	removed, err := g.RemoveBooking(b.ID(), now)
	require.NoError(t, err)
	assert.Same(t, b, removed)
	assert.Nil(t, b.RideGroupID())
	assert.Equal(t, sumPassengers(g), g.TotalPassengers())
	assert.InDelta(t, 50, g.TotalLuggageKg(), 1e-9)
	assert.Equal(t, ridegroup.Forming, g.Status())
}

func TestRideGroup_CapacityIsEnforced(t *testing.T) {
	t.Run("seats", func(t *testing.T) {
		g := newGroup(t, vehicle.Sedan)
		require.NoError(t, g.AddBooking(newBooking(t, 12.97, 77.59, 3, 0), now))

		err := g.AddBooking(newBooking(t, 12.97, 77.59, 2, 0), now)

		require.ErrorIs(t, err, errs.ErrConstraintViolation)
		assert.Contains(t, err.Error(), "Insufficient seats: need 2, available 1")
		assert.Equal(t, 3, g.TotalPassengers())
	})

	t.Run("luggage", func(t *testing.T) {
		g := newGroup(t, vehicle.Sedan)
		require.NoError(t, g.AddBooking(newBooking(t, 12.97, 77.59, 1, 80), now))

		err := g.AddBooking(newBooking(t, 12.97, 77.59, 1, 25), now)

		require.ErrorIs(t, err, errs.ErrConstraintViolation)
		assert.Contains(t, err.Error(), "Insufficient luggage capacity")
	})

	t.Run("not forming", func(t *testing.T) {
		g := newGroup(t, vehicle.Van)
		require.NoError(t, g.Lock(now))

		err := g.AddBooking(newBooking(t, 12.97, 77.59, 1, 0), now)

		require.ErrorIs(t, err, errs.ErrConstraintViolation)
	})
}

func TestRideGroup_OptimizeRoute(t *testing.T) {
	t.Run("single member uses its direct distance", func(t *testing.T) {
		g := newGroup(t, vehicle.Sedan)
		b := newBooking(t, 12.97, 77.59, 1, 0)
		require.NoError(t, g.AddBooking(b, now))

		assert.Equal(t, []kernel.UUID{b.ID()}, g.Route())
		assert.InDelta(t, b.DirectDistanceKm(), g.TotalRouteDistanceKm(), 1e-9)
		assert.Equal(t, 1, b.PickupSequence())
	})

	t.Run("visits each pickup once with sequences 1..k", func(t *testing.T) {
		g := newGroup(t, vehicle.Van)
		members := []*booking.Booking{
			newBooking(t, 12.90, 77.50, 1, 0),
			newBooking(t, 12.99, 77.65, 1, 0),
			newBooking(t, 12.93, 77.55, 1, 0),
			newBooking(t, 12.96, 77.60, 1, 0),
		}
		for _, m := range members {
			require.NoError(t, g.AddBooking(m, now))
		}

		route := g.Route()
		require.Len(t, route, len(members))
		seen := map[int]bool{}
		for _, m := range members {
			assert.Contains(t, route, m.ID())
			seen[m.PickupSequence()] = true
		}
		for seq := 1; seq <= len(members); seq++ {
			assert.True(t, seen[seq], "sequence %d missing", seq)
		}
		assert.True(t, route[0].IsEqual(members[0].ID()), "walk starts at the first pickup")
		assert.Greater(t, g.TotalRouteDistanceKm(), 0.0)
	})

	t.Run("is idempotent", func(t *testing.T) {
		g := newGroup(t, vehicle.Van)
		for _, m := range []*booking.Booking{
			newBooking(t, 12.90, 77.50, 1, 0),
			newBooking(t, 12.99, 77.65, 1, 0),
			newBooking(t, 12.93, 77.55, 1, 0),
		} {
			require.NoError(t, g.AddBooking(m, now))
		}
		route, total := g.Route(), g.TotalRouteDistanceKm()
		sequences := map[kernel.UUID]int{}
		for _, m := range g.Members() {
			sequences[m.ID()] = m.PickupSequence()
		}

		g.OptimizeRoute()

		assert.Equal(t, route, g.Route())
		assert.InDelta(t, total, g.TotalRouteDistanceKm(), 1e-12)
		for _, m := range g.Members() {
			assert.Equal(t, sequences[m.ID()], m.PickupSequence())
		}
	})
}

func TestRideGroup_RemoveLastMemberCancels(t *testing.T) {
	g := newGroup(t, vehicle.Sedan)
	b := newBooking(t, 12.97, 77.59, 1, 0)
	require.NoError(t, g.AddBooking(b, now))

	_, err := g.RemoveBooking(b.ID(), now)

	require.NoError(t, err)
	assert.True(t, g.IsEmpty())
	assert.Equal(t, ridegroup.Cancelled, g.Status())
	assert.Empty(t, g.Route())
	assert.Zero(t, g.TotalPassengers())
}

func TestRideGroup_RemoveUnknownMember(t *testing.T) {
	g := newGroup(t, vehicle.Sedan)

	_, err := g.RemoveBooking(kernel.NewUUID(), now)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRideGroup_RecomputeTotalsCountsRidingMembersOnly(t *testing.T) {
	g := newGroup(t, vehicle.Van)
	confirmed := newBooking(t, 12.97, 77.59, 2, 10)
	pending := newBooking(t, 12.98, 77.59, 3, 10)
	require.NoError(t, g.AddBooking(confirmed, now))
	require.NoError(t, g.AddBooking(pending, now))
	require.NoError(t, confirmed.Confirm(now))

	g.RecomputeTotals(now)

	assert.Equal(t, 2, g.TotalPassengers())
	assert.InDelta(t, 10, g.TotalLuggageKg(), 1e-9)
	assert.Len(t, g.ActiveMembers(), 1)
}

func TestRideGroup_Lifecycle(t *testing.T) {
	g := newGroup(t, vehicle.Sedan)

	require.NoError(t, g.Lock(now))
	require.NoError(t, g.Dispatch(now))
	assert.False(t, g.HasDeparted())
	require.NoError(t, g.Start(now))
	assert.True(t, g.HasDeparted())
	require.ErrorIs(t, g.Cancel(now), errs.ErrInvalidState)
	require.NoError(t, g.Complete(now))
	assert.True(t, g.Status().IsTerminal())
}

func TestRoute_RoundTrip(t *testing.T) {
	route := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}

	parsed, err := ridegroup.ParseRoute(ridegroup.FormatRoute(route))

	require.NoError(t, err)
	assert.Equal(t, route, parsed)

	empty, err := ridegroup.ParseRoute("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ridegroup.ParseRoute("not-a-uuid," + route[0].String())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
