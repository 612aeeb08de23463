package commands

import (
	"context"
	"errors"
	"log/slog"

	"sharedcab/internal/core/domain/model/vehicle"
	"sharedcab/internal/pkg/errs"
)

type RegisterVehicleCommandHandler struct {
	uowFactory VehicleUoWFactory
	logger     *slog.Logger
}

func NewRegisterVehicleCommandHandler(uowFactory VehicleUoWFactory, logger *slog.Logger) *RegisterVehicleCommandHandler {
	return &RegisterVehicleCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "register_vehicle"),
	}
}

// Handle registers an available vehicle with the full capacity of its class.
// A license plate that is already registered is a constraint violation.
func (h *RegisterVehicleCommandHandler) Handle(ctx context.Context, cmd RegisterVehicleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.VehicleRepository()
	existing, err := repo.GetByLicensePlate(ctx, cmd.LicensePlate())
	switch {
	case err == nil && existing != nil:
		return errs.NewConstraintViolationError("license plate", "License plate already registered: "+cmd.LicensePlate())
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	v, err := vehicle.NewVehicle(cmd.VehicleID(), cmd.LicensePlate(), cmd.DriverName(), cmd.DriverPhone(),
		cmd.Class(), cmd.Location())
	if err != nil {
		return err
	}
	if err = repo.Add(ctx, v); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "vehicle registered",
		"vehicle_id", v.ID().String(),
		"class", v.Class().String(),
	)
	return nil
}
