package matching

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
)

type FormingGroupFinder interface {
	FindFormingNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*ridegroup.RideGroup, error)
}

type PendingBookingFinder interface {
	FindPendingNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*booking.Booking, error)
}

// RepositorySource answers strategy lookups from the ride group and booking repositories.
type RepositorySource struct {
	groups   FormingGroupFinder
	bookings PendingBookingFinder
}

func NewRepositorySource(groups FormingGroupFinder, bookings PendingBookingFinder) RepositorySource {
	return RepositorySource{groups: groups, bookings: bookings}
}

func (s RepositorySource) FindFormingGroupsNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*ridegroup.RideGroup, error) {
	return s.groups.FindFormingNear(ctx, near, radiusKm, from, to, limit)
}

func (s RepositorySource) FindPendingBookingsNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*booking.Booking, error) {
	return s.bookings.FindPendingNear(ctx, near, radiusKm, from, to, limit)
}
