// Package postgres provides the GORM-based Unit of Work used by the command handlers.
//
// A unit of work owns one transaction at a time. Repositories handed out after
// Begin run inside it; before Begin they run on the plain connection.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	b, err := uow.BookingRepository().GetForUpdate(ctx, id)
//	...
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction, which
// callers ignore in the deferred call.
package postgres

import (
	"context"
	"database/sql"

	"sharedcab/internal/adapters/out/postgres/bookingrepo"
	"sharedcab/internal/adapters/out/postgres/cancellationrepo"
	"sharedcab/internal/adapters/out/postgres/passengerrepo"
	"sharedcab/internal/adapters/out/postgres/pricingconfigrepo"
	"sharedcab/internal/adapters/out/postgres/ridegrouprepo"
	"sharedcab/internal/adapters/out/postgres/vehiclerepo"
	"sharedcab/internal/core/ports"

	"gorm.io/gorm"
)

type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work. Instances are not safe for concurrent use.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context, opts ...*sql.TxOptions) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) PassengerRepository() ports.PassengerRepository {
	return passengerrepo.NewGormPassengerRepository(uow.conn())
}

func (uow *GormUnitOfWork) VehicleRepository() ports.VehicleRepository {
	return vehiclerepo.NewGormVehicleRepository(uow.conn())
}

func (uow *GormUnitOfWork) BookingRepository() ports.BookingRepository {
	return bookingrepo.NewGormBookingRepository(uow.conn())
}

func (uow *GormUnitOfWork) RideGroupRepository() ports.RideGroupRepository {
	return ridegrouprepo.NewGormRideGroupRepository(uow.conn())
}

func (uow *GormUnitOfWork) CancellationRepository() ports.CancellationRepository {
	return cancellationrepo.NewGormCancellationRepository(uow.conn())
}

func (uow *GormUnitOfWork) PricingConfigRepository() ports.PricingConfigRepository {
	return pricingconfigrepo.NewGormPricingConfigRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
