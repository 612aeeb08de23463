// Package ridegroup models a pool of bookings that share one vehicle toward a
// common destination, together with its nearest-neighbour pickup sequencing.
//
// The optimised route is persisted as comma-separated booking ids; FormatRoute
// and ParseRoute round-trip it exactly.
package ridegroup
