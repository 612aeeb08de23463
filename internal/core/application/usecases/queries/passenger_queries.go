package queries

import (
	"errors"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
	"sharedcab/internal/pkg/guard"
)

var (
	ErrGetPassengerQueryIsNotConstructed = errors.New(
		"GetPassengerQuery must be created via NewGetPassengerQuery or NewGetPassengerByEmailQuery constructor",
	)
	ErrListPassengersQueryIsNotConstructed = errors.New(
		"ListPassengersQuery must be created via NewListPassengersQuery constructor",
	)
)

// GetPassengerQuery finds a passenger by id or by email. Emails are matched
// case-insensitively since they are stored lowercased.
type GetPassengerQuery struct {
	passengerID kernel.UUID
	email       string

	guard guard.ConstructorGuard
}

func NewGetPassengerQuery(passengerID kernel.UUID) (GetPassengerQuery, error) {
	if err := passengerID.Validate(); err != nil {
		return GetPassengerQuery{}, errs.NewValueIsRequiredErrorWithCause("passenger id", err)
	}
	return GetPassengerQuery{passengerID: passengerID, guard: guard.NewConstructorGuard()}, nil
}

func NewGetPassengerByEmailQuery(email string) (GetPassengerQuery, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return GetPassengerQuery{}, errs.NewValueIsRequiredError("email")
	}
	return GetPassengerQuery{email: email, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPassengerQuery) Validate() error {
	return q.guard.Validate(ErrGetPassengerQueryIsNotConstructed)
}

func (q GetPassengerQuery) PassengerID() kernel.UUID {
	return q.passengerID
}

// Email is empty when the query is by id.
func (q GetPassengerQuery) Email() string {
	return q.email
}

type ListPassengersQuery struct {
	page int
	size int

	guard guard.ConstructorGuard
}

func NewListPassengersQuery(page, size int) ListPassengersQuery {
	page, size = normalizePage(page, size)
	return ListPassengersQuery{page: page, size: size, guard: guard.NewConstructorGuard()}
}

func (q ListPassengersQuery) Validate() error {
	return q.guard.Validate(ErrListPassengersQueryIsNotConstructed)
}

func (q ListPassengersQuery) Page() int {
	return q.page
}

func (q ListPassengersQuery) Size() int {
	return q.size
}

type PassengerResponse struct {
	ID                 kernel.UUID
	Name               string
	Email              string
	Phone              string
	MaxDetourTolerance float64
	PreferredCabType   string
	Rating             float64
	TotalRides         int
}
