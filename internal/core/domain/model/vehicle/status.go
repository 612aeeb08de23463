package vehicle

import (
	"fmt"
	"strings"

	"sharedcab/internal/pkg/errs"
)

// Status of a vehicle.
//
//	Available ──> Assigned ──> EnRoute ──> OnTrip
//	    ^             │           │          │
//	    └─────────────┴───────────┴──────────┘  (Free)
//
// Offline can be set and left by the driver at any time.
type Status int

const (
	UnknownStatus Status = iota
	Available
	Assigned
	EnRoute
	OnTrip
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "UNKNOWN",
		Available:     "AVAILABLE",
		Assigned:      "ASSIGNED",
		EnRoute:       "EN_ROUTE",
		OnTrip:        "ON_TRIP",
		Offline:       "OFFLINE",
	}
}

func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != UnknownStatus && strings.EqualFold(name, strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid vehicle status", s))
}

func (s Status) Validate() error {
	if s <= UnknownStatus || s > Offline {
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

// Assign moves an available vehicle to a newly formed ride group.
func (s Status) Assign() (Status, error) {
	if s != Available {
		return 0, errs.NewInvalidStateErrorWithCause(
			"vehicle status", s, fmt.Errorf("%s is not a valid status to assign", s.String()))
	}
	return Assigned, nil
}

// Free returns the vehicle to the pool. An offline vehicle stays offline.
func (s Status) Free() Status {
	if s == Offline {
		return Offline
	}
	return Available
}
