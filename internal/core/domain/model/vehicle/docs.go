// Package vehicle models cabs available for pooling: their class limits,
// availability and the capacity left for the ride group they serve.
package vehicle
