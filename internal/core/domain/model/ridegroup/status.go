package ridegroup

import (
	"fmt"
	"strings"

	"sharedcab/internal/pkg/errs"
)

// Status represents the lifecycle state of a ride group.
//
//	Forming ──> Locked ──> Dispatched ──> InProgress ──> Completed
//	   │           │
//	   └───────────┴──> Cancelled
type Status int

const (
	Unknown Status = iota
	Forming
	Locked
	Dispatched
	InProgress
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Forming:    "FORMING",
		Locked:     "LOCKED",
		Dispatched: "DISPATCHED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != Unknown && strings.EqualFold(name, strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid ride group status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the group can no longer change.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

func (s Status) Lock() (Status, error) {
	if s != Forming {
		return 0, s.transitionError("lock")
	}
	return Locked, nil
}

func (s Status) Dispatch() (Status, error) {
	if s != Locked {
		return 0, s.transitionError("dispatch")
	}
	return Dispatched, nil
}

func (s Status) Start() (Status, error) {
	if s != Dispatched {
		return 0, s.transitionError("start")
	}
	return InProgress, nil
}

func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, s.transitionError("complete")
	}
	return Completed, nil
}

// Cancel is allowed until the group has been dispatched.
func (s Status) Cancel() (Status, error) {
	if s != Forming && s != Locked {
		return 0, s.transitionError("cancel")
	}
	return Cancelled, nil
}

func (s Status) transitionError(action string) error {
	return errs.NewInvalidStateErrorWithCause("ride group status", s,
		fmt.Errorf("%s is not a valid status to %s", s.String(), action))
}
