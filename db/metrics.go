// ABOUTME: Prometheus metrics for record store operations
// ABOUTME: Counts operations by outcome and times them per collection
package db

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for storeOperations.
const (
	outcomeOK          = "ok"
	outcomeNotFound    = "not_found"
	outcomeInvalid     = "invalid"
	outcomeCanceled    = "canceled"
	outcomeUnavailable = "unavailable"
)

var (
	// storeOperations counts store calls.
	// Labels: collection, op, outcome
	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dealdesk",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Total record store operations by outcome",
	}, []string{"collection", "op", "outcome"})

	// storeLatency measures store call duration.
	// Labels: collection, op
	storeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dealdesk",
		Subsystem: "store",
		Name:      "latency_seconds",
		Help:      "Record store operation latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	}, []string{"collection", "op"})
)
