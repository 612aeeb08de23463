package commands

import (
	"errors"
	"time"

	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var ErrLockDueGroupsCommandIsNotConstructed = errors.New(
	"LockDueGroupsCommand must be created via NewLockDueGroupsCommand constructor",
)

// LockDueGroupsCommand closes forming groups that are about to depart.
type LockDueGroupsCommand struct {
	now time.Time

	guard guard.ConstructorGuard
}

func NewLockDueGroupsCommand(now time.Time) (LockDueGroupsCommand, error) {
	if now.IsZero() {
		return LockDueGroupsCommand{}, errs.NewValueIsRequiredError("now")
	}
	return LockDueGroupsCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c LockDueGroupsCommand) Validate() error {
	return c.guard.Validate(ErrLockDueGroupsCommandIsNotConstructed)
}

func (c LockDueGroupsCommand) Now() time.Time {
	return c.now
}
