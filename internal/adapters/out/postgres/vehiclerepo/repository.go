package vehiclerepo

import (
	"context"
	"errors"
	"strings"

	"sharedcab/internal/adapters/out/postgres/geosql"
	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Add(ctx context.Context, aggregate *vehicle.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerrs.IsUniqueViolation(err) {
			return errs.NewConstraintViolationErrorWithCause("vehicle", err, "license plate is already registered")
		}
		return err
	}
	return nil
}

func (r *GormVehicleRepository) Update(ctx context.Context, aggregate *vehicle.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&VehicleDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("vehicle", aggregate.ID().String())
	}
	return nil
}

func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	return r.get(ctx, r.db, id)
}

func (r *GormVehicleRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	v, err := r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	if err != nil {
		return nil, pgerrs.LockConflict(ports.VehicleLockKey(id), err)
	}
	return v, nil
}

func (r *GormVehicleRepository) GetByLicensePlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	plate = strings.TrimSpace(plate)

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "license_plate = ?", plate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", plate)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindAvailableNear filters on status, class and remaining capacity and orders by
// great-circle distance from the search point.
func (r *GormVehicleRepository) FindAvailableNear(
	ctx context.Context,
	search ports.VehicleSearch,
) ([]*vehicle.Vehicle, error) {
	if err := search.Near.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Where("status = ?", vehicle.Available.String()).
		Where("available_seats >= ?", search.MinSeats).
		Where("available_luggage_kg >= ?", search.MinLuggageKg).
		Where(geosql.Within("current_latitude", "current_longitude", search.Near, search.RadiusKm))
	if search.Class != vehicle.UnknownClass {
		q = q.Where("cab_type = ?", search.Class.String())
	}
	if search.Limit > 0 {
		q = q.Limit(search.Limit)
	}

	var dtos []VehicleDTO
	err := q.Order(clause.OrderBy{
		Expression: geosql.DistanceKm("current_latitude", "current_longitude", search.Near),
	}).Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormVehicleRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*vehicle.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
