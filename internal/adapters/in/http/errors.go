package http

import (
	"errors"
	"log/slog"
	"net/http"

	"sharedcab/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the domain error kinds onto HTTP status codes.
func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConstraintViolation),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, errs.ErrLockNotAcquired):
		return http.StatusLocked
	case errors.Is(err, errs.ErrNoResourceAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusOf(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
			msg = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, Error{Code: code, Message: msg})
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}

func badQuery(err error) error {
	return errs.NewValueIsInvalidErrorWithCause("query parameters", err)
}
