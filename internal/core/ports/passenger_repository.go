// Package ports defines the contracts between the shared-cab core and its adapters:
// repositories bound to a unit of work, the distributed lock, the surge cache and
// outbound event publishing.
package ports

import (
	"context"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/passenger"
)

// PassengerRepository persists passenger aggregates.
type PassengerRepository interface {
	Add(ctx context.Context, aggregate *passenger.Passenger) error
	Update(ctx context.Context, aggregate *passenger.Passenger) error

	// Get returns errs.ErrObjectNotFound when no passenger has the id.
	Get(ctx context.Context, id kernel.UUID) (*passenger.Passenger, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*passenger.Passenger, error)
}
