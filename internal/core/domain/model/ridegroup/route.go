package ridegroup

import (
	"fmt"
	"strings"

	"sharedcab/internal/core/domain/model/kernel"
	"sharedcab/internal/pkg/errs"
)

const routeSeparator = ","

// FormatRoute serialises the pickup order as comma-separated booking ids.
func FormatRoute(route []kernel.UUID) string {
	parts := make([]string, 0, len(route))
	for _, id := range route {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, routeSeparator)
}

// ParseRoute is the inverse of FormatRoute. An empty string is an empty route.
func ParseRoute(s string) ([]kernel.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, routeSeparator)
	route := make([]kernel.UUID, 0, len(parts))
	for i, part := range parts {
		id, err := kernel.UUIDFromString(strings.TrimSpace(part))
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("route", fmt.Errorf("stop %d: %w", i+1, err))
		}
		route = append(route, id)
	}
	return route, nil
}
