package booking

import (
	"fmt"
	"strings"

	"sharedcab/internal/pkg/errs"
)

// Status represents the lifecycle state of a booking.
//
//	Pending ──> Confirmed ──> InProgress ──> Completed
//	   │            │
//	   └────────────┴──> Cancelled | Expired
type Status int

const (
	Unknown Status = iota
	Pending
	Confirmed
	InProgress
	Completed
	Cancelled
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Confirmed:  "CONFIRMED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
		Expired:    "EXPIRED",
	}
}

func getValidStatusStrings() map[Status]string {
	valid := getStatusStrings()
	delete(valid, Unknown)
	return valid
}

// ActiveStatuses are the statuses counted as live demand.
func ActiveStatuses() []Status {
	return []Status{Pending, Confirmed, InProgress}
}

// CancellableStatuses are the statuses a booking may be cancelled from.
func CancellableStatuses() []Status {
	return []Status{Pending, Confirmed}
}

func ParseStatus(s string) (Status, error) {
	for st, name := range getValidStatusStrings() {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid booking status", s))
}

func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
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

func (s Status) IsActive() bool {
	return s == Pending || s == Confirmed || s == InProgress
}

// IsRiding reports whether the booking still occupies a seat in its group.
func (s Status) IsRiding() bool {
	return s == Confirmed || s == InProgress
}

func (s Status) IsCancellable() bool {
	return s == Pending || s == Confirmed
}

func (s Status) Confirm() (Status, error) {
	if s != Pending {
		return 0, s.transitionError("confirm")
	}
	return Confirmed, nil
}

func (s Status) Start() (Status, error) {
	if s != Confirmed {
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

func (s Status) Cancel() (Status, error) {
	if !s.IsCancellable() {
		return 0, errs.NewInvalidStateErrorWithCause("booking status", s,
			fmt.Errorf("cannot cancel booking with status: %s", s.String()))
	}
	return Cancelled, nil
}

func (s Status) Expire() (Status, error) {
	if !s.IsCancellable() {
		return 0, s.transitionError("expire")
	}
	return Expired, nil
}

func (s Status) transitionError(action string) error {
	return errs.NewInvalidStateErrorWithCause("booking status", s,
		fmt.Errorf("%s is not a valid status to %s", s.String(), action))
}
