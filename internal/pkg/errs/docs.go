// Package errs is the error vocabulary shared by the domain, the use cases and
// the HTTP boundary, which maps each kind to a status code.
//
// Every kind has a sentinel (ErrObjectNotFound, ErrInvalidState, ...), a struct
// carrying the offending parameter and an optional cause, New and NewWithCause
// constructors, and an Unwrap that returns the sentinel so callers test kinds
// with errors.Is:
//
//	if errors.Is(err, errs.ErrLockNotAcquired) {
//	    // retry later
//	}
//
// Messages are single-line; embedded newlines are replaced with spaces.
package errs
