// Package metrics defines and registers all custom Prometheus metrics for the
// site presence API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site_presence"

// ── Presence metrics ──────────────────────────────────────────────────────────

// CheckInsTotal counts completed check-in attempts.
// Label:
//   - result: "verified", "out_of_range", "location_unavailable", "already_verified"
var CheckInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_total",
		Help:      "Total number of check-in attempts, by result.",
	},
	[]string{"result"},
)

// CheckInErrorsTotal counts check-in attempts that ended in an error.
// Label:
//   - reason: e.g. "project_not_found", "in_progress", "malformed_input", "persist_failed"
var CheckInErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_in_errors_total",
		Help:      "Total number of check-in attempts that failed with an error.",
	},
	[]string{"reason"},
)

// CheckInDistance observes the measured distance from the site for every
// attempt that produced one.
var CheckInDistance = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "check_in_distance_meters",
		Help:      "Distance between the observed position and the site coordinate.",
		Buckets:   []float64{10, 25, 50, 100, 200, 500, 1000, 5000, 20000},
	},
	[]string{"status"},
)

// LocateDuration measures how long location acquisition took.
// Label:
//   - outcome: "ok" or "unavailable"
var LocateDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "locate_duration_seconds",
		Help:      "Duration of device location acquisition.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Offline sync metrics ──────────────────────────────────────────────────────

// ObservationsQueueDepth tracks the number of observations waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ObservationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "observations_queue_depth",
		Help:      "Current number of offline observations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Risk metrics ──────────────────────────────────────────────────────────────

// RiskAssessmentsTotal counts risk evaluations, by resulting tier.
var RiskAssessmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "risk_assessments_total",
		Help:      "Total number of project risk assessments, by tier.",
	},
	[]string{"tier"},
)

// RiskSignalErrorsTotal counts signal reads that failed and fell back to the
// risk-increasing default.
// Label:
//   - signal: "dpr", "attendance", "materials", "messages"
var RiskSignalErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "risk_signal_errors_total",
		Help:      "Total number of risk signal reads that failed, by signal.",
	},
	[]string{"signal"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// DPRsSubmittedTotal counts accepted daily progress reports.
var DPRsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dprs_submitted_total",
		Help:      "Total number of daily progress reports submitted.",
	},
)

// ObservationsRejectedTotal counts offline observations turned away because
// their worker channel was full.
var ObservationsRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "observations_rejected_total",
		Help:      "Total number of offline observations rejected because the dispatcher queue was full.",
	},
)
