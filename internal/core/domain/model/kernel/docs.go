// Package kernel holds the value objects shared by every aggregate of the shared-cab domain.
//
// The package includes:
//   - UUID: identity of passengers, vehicles, bookings, ride groups and cancellations
//   - Location: a validated latitude/longitude pair with an optional address
//   - great-circle helpers used by matching and route sequencing (Distance, DetourFraction,
//     InsertionCost, TotalRouteDistance)
//
// All values are immutable and safe for concurrent use.
package kernel
