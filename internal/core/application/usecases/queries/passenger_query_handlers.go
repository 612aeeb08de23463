package queries

import (
	"context"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const passengerColumns = `id, name, email, phone, max_detour_tolerance, preferred_cab_type, rating, total_rides`

type passengerRow struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Phone              string
	MaxDetourTolerance float64
	PreferredCabType   *string
	Rating             float64
	TotalRides         int
}

func (r passengerRow) toResponse() (PassengerResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return PassengerResponse{}, err
	}
	resp := PassengerResponse{
		ID:                 id,
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		MaxDetourTolerance: r.MaxDetourTolerance,
		Rating:             r.Rating,
		TotalRides:         r.TotalRides,
	}
	if r.PreferredCabType != nil {
		resp.PreferredCabType = *r.PreferredCabType
	}
	return resp, nil
}

type GetPassengerQueryHandler struct {
	db *gorm.DB
}

func NewGetPassengerQueryHandler(db *gorm.DB) GetPassengerQueryHandler {
	return GetPassengerQueryHandler{db: db}
}

func (h GetPassengerQueryHandler) Handle(ctx context.Context, query GetPassengerQuery) (PassengerResponse, error) {
	if err := query.Validate(); err != nil {
		return PassengerResponse{}, err
	}

	var (
		row   passengerRow
		res   *gorm.DB
		param string
		key   any
	)
	db := h.db.WithContext(ctx)
	if query.Email() != "" {
		param, key = "email", query.Email()
		res = db.Raw(`SELECT `+passengerColumns+` FROM passengers WHERE email = ?`, query.Email()).Scan(&row)
	} else {
		param, key = "passenger id", query.PassengerID()
		res = db.Raw(`SELECT `+passengerColumns+` FROM passengers WHERE id = ?`, query.PassengerID().String()).Scan(&row)
	}
	if res.Error != nil {
		return PassengerResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return PassengerResponse{}, errs.NewObjectNotFoundError(param, key)
	}

	return row.toResponse()
}

type ListPassengersQueryHandler struct {
	db *gorm.DB
}

func NewListPassengersQueryHandler(db *gorm.DB) ListPassengersQueryHandler {
	return ListPassengersQueryHandler{db: db}
}

// Handle returns passengers ordered by name.
func (h ListPassengersQueryHandler) Handle(
	ctx context.Context,
	query ListPassengersQuery,
) (Page[PassengerResponse], error) {
	if err := query.Validate(); err != nil {
		return Page[PassengerResponse]{}, err
	}

	db := h.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT count(*) FROM passengers`).Scan(&total).Error; err != nil {
		return Page[PassengerResponse]{}, err
	}

	var rows []passengerRow
	err := db.Raw(`
		SELECT `+passengerColumns+`
		FROM passengers
		ORDER BY name, id
		LIMIT ? OFFSET ?
	`, query.Size(), query.Page()*query.Size()).Scan(&rows).Error
	if err != nil {
		return Page[PassengerResponse]{}, err
	}

	items := make([]PassengerResponse, 0, len(rows))
	for _, row := range rows {
		resp, convErr := row.toResponse()
		if convErr != nil {
			return Page[PassengerResponse]{}, convErr
		}
		items = append(items, resp)
	}

	return Page[PassengerResponse]{Items: items, Page: query.Page(), Size: query.Size(), Total: total}, nil
}
