package ridegrouprepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharedcab/internal/adapters/out/postgres/bookingrepo"
	"sharedcab/internal/adapters/out/postgres/geosql"
	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/ridegroup"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRideGroupRepository struct {
	db *gorm.DB
}

func NewGormRideGroupRepository(db *gorm.DB) *GormRideGroupRepository {
	return &GormRideGroupRepository{db: db}
}

// Add inserts the group row, then upserts its members.
func (r *GormRideGroupRepository) Add(ctx context.Context, aggregate *ridegroup.RideGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&dto).Error; err != nil {
		return err
	}
	return r.saveMembers(ctx, aggregate)
}

// Update rewrites the group row and upserts its members. Bookings that left the
// group are not touched here; callers save them through the booking repository.
func (r *GormRideGroupRepository) Update(ctx context.Context, aggregate *ridegroup.RideGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&RideGroupDTO{}).
		Where("id = ?", dto.ID).
		Omit(clause.Associations).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("ride group", aggregate.ID().String())
	}
	return r.saveMembers(ctx, aggregate)
}

func (r *GormRideGroupRepository) Get(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *GormRideGroupRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*ridegroup.RideGroup, error) {
	g, err := r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id, true)
	if err != nil {
		return nil, pgerrs.LockConflict(ports.RideGroupLockKey(id), err)
	}
	return g, nil
}

// FindFormingNear returns FORMING groups with spare seats and at least one member
// picked up within radiusKm of near, earliest departure first.
func (r *GormRideGroupRepository) FindFormingNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*ridegroup.RideGroup, error) {
	if err := near.Validate(); err != nil {
		return nil, err
	}

	nearby := r.db.Model(&bookingrepo.BookingDTO{}).
		Select("ride_group_id").
		Where("ride_group_id IS NOT NULL").
		Where(geosql.Within("pickup_latitude", "pickup_longitude", near, radiusKm))

	var dtos []RideGroupDTO
	err := r.db.WithContext(ctx).
		Preload("Members", memberOrder(false)).
		Where("status = ?", ridegroup.Forming.String()).
		Where("scheduled_departure BETWEEN ? AND ?", from, to).
		Where("total_passengers < " + seatCapacitySQL()).
		Where("id IN (?)", nearby).
		Order("scheduled_departure").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	groups := make([]*ridegroup.RideGroup, 0, len(dtos))
	for _, dto := range dtos {
		g, gErr := toDomain(dto)
		if gErr != nil {
			return nil, gErr
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *GormRideGroupRepository) FindFormingDepartingBefore(
	ctx context.Context,
	t time.Time,
	limit int,
) ([]kernel.UUID, error) {
	var rows []RideGroupDTO
	err := r.db.WithContext(ctx).
		Select("id").
		Where("status = ?", ridegroup.Forming.String()).
		Where("scheduled_departure <= ?", t).
		Order("scheduled_departure").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormRideGroupRepository) get(
	ctx context.Context,
	db *gorm.DB,
	id kernel.UUID,
	lockMembers bool,
) (*ridegroup.RideGroup, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RideGroupDTO
	err := db.WithContext(ctx).
		Preload("Members", memberOrder(lockMembers)).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("ride group", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormRideGroupRepository) saveMembers(ctx context.Context, g *ridegroup.RideGroup) error {
	members := membersFromDomain(g)
	if len(members) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&members).Error
}

// memberOrder keeps members in join order, which route optimisation starts from.
func memberOrder(lock bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if lock {
			db = db.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		return db.Order("created_at, id")
	}
}

// seatCapacitySQL maps the stored cab type to its seat count.
func seatCapacitySQL() string {
	var sb strings.Builder
	sb.WriteString("CASE cab_type")
	for _, c := range vehicle.Classes() {
		fmt.Fprintf(&sb, " WHEN '%s' THEN %d", c.String(), c.MaxPassengers())
	}
	sb.WriteString(" ELSE 0 END")
	return sb.String()
}
