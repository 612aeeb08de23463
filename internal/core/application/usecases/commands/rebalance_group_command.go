package commands

import (
	"errors"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrRebalanceGroupCommandIsNotConstructed = errors.New(
	"RebalanceGroupCommand must be created via NewRebalanceGroupCommand constructor",
)

type RebalanceGroupCommand struct {
	groupID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRebalanceGroupCommand(groupID kernel.UUID, reason string) (RebalanceGroupCommand, error) {
	if err := groupID.Validate(); err != nil {
		return RebalanceGroupCommand{}, errs.NewValueIsRequiredErrorWithCause("ride group id", err)
	}

	return RebalanceGroupCommand{
		groupID: groupID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RebalanceGroupCommand) Validate() error {
	return c.guard.Validate(ErrRebalanceGroupCommandIsNotConstructed)
}

func (c RebalanceGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c RebalanceGroupCommand) Reason() string {
	return c.reason
}
