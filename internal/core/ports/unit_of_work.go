package ports

import (
	"context"
	"database/sql"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin run inside the transaction.
type UnitOfWork interface {
	// Begin starts a transaction. opts sets the isolation level; the database
	// default applies without it.
	Begin(ctx context.Context, opts ...*sql.TxOptions) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	PassengerRepository() PassengerRepository
	VehicleRepository() VehicleRepository
	BookingRepository() BookingRepository
	RideGroupRepository() RideGroupRepository
	CancellationRepository() CancellationRepository
	PricingConfigRepository() PricingConfigRepository
}
