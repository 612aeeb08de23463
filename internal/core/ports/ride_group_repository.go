package ports

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
)

// RideGroupRepository persists ride groups together with their member bookings.
type RideGroupRepository interface {
	Add(ctx context.Context, aggregate *ridegroup.RideGroup) error

	// Update writes the group row and every current member booking.
	Update(ctx context.Context, aggregate *ridegroup.RideGroup) error

	Get(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error)

	// GetForUpdate locks the group row and its member rows. It needs an open transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error)

	// FindFormingNear returns FORMING groups with a member pickup within radiusKm
	// of near and a scheduled departure inside [from, to].
	FindFormingNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*ridegroup.RideGroup, error)

	// FindFormingDepartingBefore lists ids of FORMING groups scheduled to leave before t.
	FindFormingDepartingBefore(ctx context.Context, t time.Time, limit int) ([]kernel.UUID, error)
}
