package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrNoResourceAvailable = errors.New("no resource available")
	ErrInvalidState        = errors.New("invalid state")
	ErrLockNotAcquired     = errors.New("lock not acquired")
)

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(fmt.Sprintf("%s", e.ID)), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(fmt.Sprintf("%s", e.ID)))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ConstraintViolationError reports a rejected request together with every rule it broke.
type ConstraintViolationError struct {
	ParamName  string
	Violations []string
	Cause      error
}

func NewConstraintViolationError(paramName string, violations ...string) *ConstraintViolationError {
	return &ConstraintViolationError{
		ParamName:  paramName,
		Violations: violations,
	}
}

func NewConstraintViolationErrorWithCause(paramName string, cause error, violations ...string) *ConstraintViolationError {
	return &ConstraintViolationError{
		ParamName:  paramName,
		Violations: violations,
		Cause:      cause,
	}
}

func (e *ConstraintViolationError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrConstraintViolation, e.ParamName)
	if len(e.Violations) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, sanitize(strings.Join(e.Violations, "; ")))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ConstraintViolationError) Unwrap() error {
	return ErrConstraintViolation
}

// NoResourceAvailableError reports that no resource could serve the request right now.
// Callers may retry later.
type NoResourceAvailableError struct {
	ParamName string
	Cause     error
}

func NewNoResourceAvailableError(paramName string) *NoResourceAvailableError {
	return &NoResourceAvailableError{ParamName: paramName}
}

func NewNoResourceAvailableErrorWithCause(paramName string, cause error) *NoResourceAvailableError {
	return &NoResourceAvailableError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *NoResourceAvailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrNoResourceAvailable, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrNoResourceAvailable, e.ParamName)
}

func (e *NoResourceAvailableError) Unwrap() error {
	return ErrNoResourceAvailable
}

// InvalidStateError reports an operation that is not allowed in the object's current state.
type InvalidStateError struct {
	ParamName string
	State     any
	Cause     error
}

func NewInvalidStateError(paramName string, state any) *InvalidStateError {
	return &InvalidStateError{
		ParamName: paramName,
		State:     state,
	}
}

func NewInvalidStateErrorWithCause(paramName string, state any, cause error) *InvalidStateError {
	return &InvalidStateError{
		ParamName: paramName,
		State:     state,
		Cause:     cause,
	}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: %s is %v", ErrInvalidState, e.ParamName, e.State)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// LockNotAcquiredError reports a mutual-exclusion section that could not be entered in time.
// Callers may retry.
type LockNotAcquiredError struct {
	Key   string
	Cause error
}

func NewLockNotAcquiredError(key string) *LockNotAcquiredError {
	return &LockNotAcquiredError{Key: key}
}

func NewLockNotAcquiredErrorWithCause(key string, cause error) *LockNotAcquiredError {
	return &LockNotAcquiredError{
		Key:   key,
		Cause: cause,
	}
}

func (e *LockNotAcquiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrLockNotAcquired, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrLockNotAcquired, e.Key)
}

func (e *LockNotAcquiredError) Unwrap() error {
	return ErrLockNotAcquired
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
