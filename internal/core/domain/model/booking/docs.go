// Package booking models a passenger's request for a shared ride and its lifecycle
// from PENDING to COMPLETED, CANCELLED or EXPIRED.
//
// Membership in a ride group is owned by ridegroup.RideGroup; a Booking only keeps a
// back-reference and its pickup position so it can be looked up by group.
package booking
