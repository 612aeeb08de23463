// Package queries contains the read side: bookings, ride groups, passengers,
// vehicles, cancellations, fare estimates and the current surge.
// Most handlers run raw SQL through gorm and return read models shaped for the
// HTTP boundary rather than domain aggregates.
package queries
