package bookingrepo

import (
	"context"
	"errors"
	"time"

	"sharedcab/internal/adapters/out/postgres/geosql"
	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/core/domain/model/booking"
	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Add(ctx context.Context, aggregate *booking.Booking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := FromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormBookingRepository) Update(ctx context.Context, aggregate *booking.Booking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return Save(ctx, r.db, aggregate)
}

func (r *GormBookingRepository) Get(ctx context.Context, id kernel.UUID) (*booking.Booking, error) {
	return r.get(ctx, r.db, id)
}

func (r *GormBookingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*booking.Booking, error) {
	b, err := r.get(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	if err != nil {
		return nil, pgerrs.LockConflict(ports.BookingLockKey(id), err)
	}
	return b, nil
}

func (r *GormBookingRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookingDTO{}).
		Where("status = ANY(?)", pq.Array(activeStatuses())).
		Count(&count).Error
	return count, err
}

// FindPendingNear returns ungrouped PENDING bookings, earliest pickup first.
func (r *GormBookingRepository) FindPendingNear(
	ctx context.Context,
	near kernel.Location,
	radiusKm float64,
	from, to time.Time,
	limit int,
) ([]*booking.Booking, error) {
	if err := near.Validate(); err != nil {
		return nil, err
	}

	var dtos []BookingDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", booking.Pending.String()).
		Where("ride_group_id IS NULL").
		Where("requested_pickup_time BETWEEN ? AND ?", from, to).
		Where(geosql.Within("pickup_latitude", "pickup_longitude", near, radiusKm)).
		Order("requested_pickup_time").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return ToDomainList(dtos)
}

// Save writes every column of an existing booking row.
func Save(ctx context.Context, db *gorm.DB, b *booking.Booking) error {
	dto := FromDomain(b)
	result := db.WithContext(ctx).Model(&BookingDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("booking", b.ID().String())
	}
	return nil
}

func (r *GormBookingRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*booking.Booking, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BookingDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("booking", id.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}

func activeStatuses() []string {
	statuses := booking.ActiveStatuses()
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
