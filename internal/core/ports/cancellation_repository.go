package ports

import (
	"context"

	"sharedcab/internal/core/domain/model/cancellation"
	"sharedcab/internal/core/domain/model/kernel"
)

type CancellationRepository interface {
	Add(ctx context.Context, aggregate *cancellation.Cancellation) error
	GetByBookingID(ctx context.Context, bookingID kernel.UUID) (*cancellation.Cancellation, error)
}
