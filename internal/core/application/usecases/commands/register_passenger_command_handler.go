package commands

import (
	"context"
	"errors"
	"log/slog"

	"sharedcab/internal/core/domain/model/passenger"
	"sharedcab/internal/pkg/errs"
)

type RegisterPassengerCommandHandler struct {
	uowFactory       PassengerUoWFactory
	defaultTolerance float64
	logger           *slog.Logger
}

func NewRegisterPassengerCommandHandler(
	uowFactory PassengerUoWFactory,
	defaultTolerance float64,
	logger *slog.Logger,
) *RegisterPassengerCommandHandler {
	return &RegisterPassengerCommandHandler{
		uowFactory:       uowFactory,
		defaultTolerance: defaultTolerance,
		logger:           logger.With("component", "register_passenger"),
	}
}

// Handle rejects an email that is already registered with a constraint violation.
func (h *RegisterPassengerCommandHandler) Handle(ctx context.Context, cmd RegisterPassengerCommand) error {
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

	repo := uow.PassengerRepository()
	existing, err := repo.GetByEmail(ctx, cmd.Email())
	switch {
	case err == nil && existing != nil:
		return errs.NewConstraintViolationError("email", "Email already registered: "+cmd.Email())
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	tolerance, ok := cmd.DetourTolerance()
	if !ok {
		tolerance = h.defaultTolerance
	}
	p, err := passenger.NewPassenger(cmd.PassengerID(), cmd.Name(), cmd.Email(), cmd.Phone(),
		tolerance, cmd.PreferredClass())
	if err != nil {
		return err
	}
	if err = repo.Add(ctx, p); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "passenger registered", "passenger_id", p.ID().String())
	return nil
}
