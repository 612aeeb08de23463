// Package metrics holds the Prometheus collectors shared by the use cases and the HTTP server.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sharedcab"

// Booking outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeNewGroup  = "new_group"
	OutcomeNoVehicle = "no_vehicle"
)

// Rebalance outcomes.
const (
	RebalanceSkipped   = "skipped"
	RebalanceCancelled = "cancelled"
	RebalanceMerged    = "merge_hook"
	RebalanceUpdated   = "updated"
	RebalanceFailed    = "failed"
)

var (
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "bookings_total", Help: "Ride requests by outcome"},
		[]string{"outcome"},
	)
	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "cancellations_total", Help: "Cancelled bookings"},
	)
	RebalancesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rebalances_total", Help: "Processed rebalance signals by outcome"},
		[]string{"outcome"},
	)
	LockFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "lock_failures_total", Help: "Locks not acquired in time by key kind"},
		[]string{"kind"},
	)
	MatchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_latency_seconds",
			Help:      "Time spent grouping a ride request",
			Buckets:   prometheus.DefBuckets,
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// LockKind is the prefix of a lock key ("booking", "group", "vehicle").
func LockKind(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}
