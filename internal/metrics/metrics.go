package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PassesTotal tracks finished passes per mode and result
	PassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_passes_total",
			Help: "Total number of availability passes",
		},
		[]string{"mode", "result"},
	)

	// PassDuration tracks how long passes take, including user interaction
	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "availability_pass_duration_seconds",
			Help:    "Availability pass duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 300},
		},
		[]string{"mode"},
	)

	// FailuresDetected tracks failures reported by probes
	FailuresDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_failures_detected_total",
			Help: "Total number of failures reported by availability probes",
		},
		[]string{"kind"},
	)

	// FailuresResolved tracks failures removed by a strategy
	FailuresResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_failures_resolved_total",
			Help: "Total number of failures resolved by a strategy",
		},
		[]string{"kind"},
	)

	// FailuresUnresolved tracks failures left in a remainder
	FailuresUnresolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_failures_unresolved_total",
			Help: "Total number of failures left unresolved after a pass",
		},
		[]string{"kind"},
	)

	// StrategyAttempts tracks each Resolve call
	StrategyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_strategy_attempts_total",
			Help: "Total number of resolution attempts per strategy",
		},
		[]string{"strategy", "outcome"},
	)

	// PendingInteractions tracks prompts and flows waiting on the user
	PendingInteractions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "availability_pending_interactions",
			Help: "Number of interactions waiting for the user",
		},
		[]string{"type"},
	)

	// ActiveSessions tracks open sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "availability_active_sessions",
			Help: "Number of open sessions",
		},
	)

	// DBConnectionPoolUsage tracks open connections as a percentage of the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "availability_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
