package ports

import (
	"context"
	"time"

	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
)

// BookingRepository persists bookings on their own. Ride group members are
// also written through RideGroupRepository.Update.
type BookingRepository interface {
	Add(ctx context.Context, aggregate *booking.Booking) error
	Update(ctx context.Context, aggregate *booking.Booking) error
	Get(ctx context.Context, id kernel.UUID) (*booking.Booking, error)

	// GetForUpdate loads the row with SELECT ... FOR UPDATE. It needs an open transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*booking.Booking, error)

	// CountActive counts PENDING, CONFIRMED and IN_PROGRESS bookings.
	CountActive(ctx context.Context) (int64, error)

	// FindPendingNear returns PENDING bookings picked up within radiusKm of near
	// and requested inside [from, to].
	FindPendingNear(
		ctx context.Context,
		near kernel.Location,
		radiusKm float64,
		from, to time.Time,
		limit int,
	) ([]*booking.Booking, error)
}
