// Package commands contains the write-side use cases: ride requests, cancellations,
// group maintenance and passenger/vehicle registration.
// Every handler validates its command, opens a unit of work, loads what it changes
// under row locks and commits once. Side effects that must not roll back with the
// transaction (events, rebalance signals, cache invalidation) run after Commit.
package commands

import (
	"context"
	"database/sql"

	"sharedcab/internal/core/ports"
)

// Unit of Work interfaces, segmented by the repositories a use case touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context, opts ...*sql.TxOptions) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PassengerRepoFactory interface {
		PassengerRepository() ports.PassengerRepository
	}

	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	BookingRepoFactory interface {
		BookingRepository() ports.BookingRepository
	}

	RideGroupRepoFactory interface {
		RideGroupRepository() ports.RideGroupRepository
	}

	CancellationRepoFactory interface {
		CancellationRepository() ports.CancellationRepository
	}

	PricingConfigRepoFactory interface {
		PricingConfigRepository() ports.PricingConfigRepository
	}

	// PassengerUoW is used by passenger profile commands.
	PassengerUoW interface {
		TxManager
		PassengerRepoFactory
	}

	PassengerUoWFactory interface {
		Create() PassengerUoW
	}

	// VehicleUoW is used by fleet commands.
	VehicleUoW interface {
		TxManager
		VehicleRepoFactory
	}

	VehicleUoWFactory interface {
		Create() VehicleUoW
	}

	// GroupUoW is used by commands that maintain an existing ride group and its vehicle.
	GroupUoW interface {
		TxManager
		RideGroupRepoFactory
		VehicleRepoFactory
	}

	GroupUoWFactory interface {
		Create() GroupUoW
	}

	// RideUoW spans every aggregate a ride request or cancellation touches.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	//   defer uow.Rollback(ctx)
	//
	//   b, err := uow.BookingRepository().GetForUpdate(ctx, id)
	//   g, err := uow.RideGroupRepository().GetForUpdate(ctx, *b.RideGroupID())
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	RideUoW interface {
		TxManager
		PassengerRepoFactory
		VehicleRepoFactory
		BookingRepoFactory
		RideGroupRepoFactory
		CancellationRepoFactory
		PricingConfigRepoFactory
	}

	RideUoWFactory interface {
		Create() RideUoW
	}
)

// SurgeInvalidator drops the memoized surge after active demand changed.
type SurgeInvalidator interface {
	Invalidate(ctx context.Context) error
}
