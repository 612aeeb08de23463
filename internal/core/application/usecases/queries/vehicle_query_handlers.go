package queries

import (
	"context"
	"fmt"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const vehicleColumns = `
	id, license_plate, driver_name, driver_phone, cab_type, status,
	current_latitude, current_longitude, driver_rating, available_seats, available_luggage_kg`

// haversineKm expects the point as (lat, lng, lat) arguments.
var haversineKm = fmt.Sprintf(
	"(%v * acos(least(1.0, greatest(-1.0, "+
		"cos(radians(?)) * cos(radians(current_latitude)) * cos(radians(current_longitude) - radians(?)) + "+
		"sin(radians(?)) * sin(radians(current_latitude))))))",
	kernel.EarthRadiusKm,
)

type vehicleRow struct {
	ID                 uuid.UUID
	LicensePlate       string
	DriverName         string
	DriverPhone        string
	CabType            string
	Status             string
	CurrentLatitude    float64
	CurrentLongitude   float64
	DriverRating       float64
	AvailableSeats     int
	AvailableLuggageKg float64
	DistanceKm         float64
}

func (r vehicleRow) toResponse() (VehicleResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return VehicleResponse{}, err
	}
	location, err := kernel.RestoreLocation(r.CurrentLatitude, r.CurrentLongitude, "")
	if err != nil {
		return VehicleResponse{}, err
	}
	return VehicleResponse{
		ID:                 id,
		LicensePlate:       r.LicensePlate,
		DriverName:         r.DriverName,
		DriverPhone:        r.DriverPhone,
		CabType:            r.CabType,
		Status:             r.Status,
		Location:           location,
		DriverRating:       r.DriverRating,
		AvailableSeats:     r.AvailableSeats,
		AvailableLuggageKg: r.AvailableLuggageKg,
		DistanceKm:         r.DistanceKm,
	}, nil
}

func vehicleRowsToResponses(rows []vehicleRow) ([]VehicleResponse, error) {
	out := make([]VehicleResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := row.toResponse()
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

type GetVehicleQueryHandler struct {
	db *gorm.DB
}

func NewGetVehicleQueryHandler(db *gorm.DB) GetVehicleQueryHandler {
	return GetVehicleQueryHandler{db: db}
}

func (h GetVehicleQueryHandler) Handle(ctx context.Context, query GetVehicleQuery) (VehicleResponse, error) {
	if err := query.Validate(); err != nil {
		return VehicleResponse{}, err
	}

	var (
		row   vehicleRow
		res   *gorm.DB
		param string
		key   any
	)
	db := h.db.WithContext(ctx)
	if query.LicensePlate() != "" {
		param, key = "license plate", query.LicensePlate()
		res = db.Raw(`SELECT `+vehicleColumns+` FROM vehicles WHERE license_plate = ?`, query.LicensePlate()).Scan(&row)
	} else {
		param, key = "vehicle id", query.VehicleID()
		res = db.Raw(`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, query.VehicleID().String()).Scan(&row)
	}
	if res.Error != nil {
		return VehicleResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return VehicleResponse{}, errs.NewObjectNotFoundError(param, key)
	}

	return row.toResponse()
}

type ListVehiclesQueryHandler struct {
	db *gorm.DB
}

func NewListVehiclesQueryHandler(db *gorm.DB) ListVehiclesQueryHandler {
	return ListVehiclesQueryHandler{db: db}
}

func (h ListVehiclesQueryHandler) Handle(ctx context.Context, query ListVehiclesQuery) ([]VehicleResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE TRUE`
	var args []any
	if query.AvailableOnly() {
		sql += ` AND status = ?`
		args = append(args, vehicle.Available.String())
	}
	if query.Class() != vehicle.UnknownClass {
		sql += ` AND cab_type = ?`
		args = append(args, query.Class().String())
	}
	sql += ` ORDER BY license_plate`

	var rows []vehicleRow
	if err := h.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return vehicleRowsToResponses(rows)
}

type NearbyVehiclesQueryHandler struct {
	db *gorm.DB
}

func NewNearbyVehiclesQueryHandler(db *gorm.DB) NearbyVehiclesQueryHandler {
	return NearbyVehiclesQueryHandler{db: db}
}

func (h NearbyVehiclesQueryHandler) Handle(ctx context.Context, query NearbyVehiclesQuery) ([]VehicleResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	lat, lng := query.Near().Latitude(), query.Near().Longitude()

	var rows []vehicleRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT `+vehicleColumns+`, `+haversineKm+` AS distance_km
			FROM vehicles
			WHERE status = ?
		) nearby
		WHERE distance_km <= ?
		ORDER BY distance_km
		LIMIT ?
	`, lat, lng, lat, vehicle.Available.String(), query.RadiusKm(), NearbyVehicleLimit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return vehicleRowsToResponses(rows)
}
