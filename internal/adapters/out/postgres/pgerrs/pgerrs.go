// Package pgerrs classifies driver errors returned by lib/pq.
package pgerrs

import (
	"errors"

	"sharedcab/internal/pkg/errs"

	"github.com/lib/pq"
)

const (
	uniqueViolation      = pq.ErrorCode("23505")
	serializationFailure = pq.ErrorCode("40001")
	deadlockDetected     = pq.ErrorCode("40P01")
)

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsSerializationFailure reports whether err aborted the transaction because of a
// concurrent update or a deadlock. Both clear up on retry.
func IsSerializationFailure(err error) bool {
	return hasCode(err, serializationFailure) || hasCode(err, deadlockDetected)
}

// LockConflict turns a serialization failure on the row behind key into a
// LockNotAcquired error. Any other err is returned as is.
func LockConflict(key string, err error) error {
	if IsSerializationFailure(err) {
		return errs.NewLockNotAcquiredErrorWithCause(key, err)
	}
	return err
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
