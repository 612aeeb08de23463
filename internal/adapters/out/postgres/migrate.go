package postgres

import (
	"sharedcab/internal/adapters/out/postgres/bookingrepo"
	"sharedcab/internal/adapters/out/postgres/cancellationrepo"
	"sharedcab/internal/adapters/out/postgres/passengerrepo"
	"sharedcab/internal/adapters/out/postgres/pricingconfigrepo"
	"sharedcab/internal/adapters/out/postgres/ridegrouprepo"
	"sharedcab/internal/adapters/out/postgres/vehiclerepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&passengerrepo.PassengerDTO{},
		&vehiclerepo.VehicleDTO{},
		&ridegrouprepo.RideGroupDTO{},
		&bookingrepo.BookingDTO{},
		&cancellationrepo.CancellationDTO{},
		&pricingconfigrepo.PricingConfigDTO{},
	)
}
