package commands

import (
	"context"
)

type UpdatePassengerCommandHandler struct {
	uowFactory PassengerUoWFactory
}

func NewUpdatePassengerCommandHandler(uowFactory PassengerUoWFactory) *UpdatePassengerCommandHandler {
	return &UpdatePassengerCommandHandler{uowFactory: uowFactory}
}

func (h *UpdatePassengerCommandHandler) Handle(ctx context.Context, cmd UpdatePassengerCommand) error {
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
	p, err := repo.Get(ctx, cmd.PassengerID())
	if err != nil {
		return err
	}
	if err = p.UpdateProfile(cmd.Name(), cmd.Phone(), cmd.DetourTolerance(), cmd.PreferredClass()); err != nil {
		return err
	}
	if err = repo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
