// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Admission metrics
	CandidatesEvaluated *prometheus.CounterVec // outcome, reason
	SweepsTotal         prometheus.Counter
	SweepDuration       prometheus.Histogram
	MarketsListed       prometheus.Counter

	// Risk metrics
	CyclesTotal    prometheus.Counter
	CycleDuration  prometheus.Histogram
	CapSubmissions *prometheus.CounterVec // status: confirmed, rejected, timeout
	MarketsSkipped prometheus.Counter

	// Provider metrics
	ProviderErrors *prometheus.CounterVec // kind: unavailable, invalid

	// Scheduler metrics
	TicksCoalesced *prometheus.CounterVec // task
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dex_free"
	}

	return &Metrics{
		CandidatesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "candidates_evaluated_total",
			Help:      "Total number of candidate tokens evaluated by outcome and reason",
		}, []string{"outcome", "reason"}),
		SweepsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "sweeps_total",
			Help:      "Total number of admission sweeps executed",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of admission sweeps",
			Buckets:   prometheus.DefBuckets,
		}),
		MarketsListed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "markets_listed_total",
			Help:      "Total number of markets listed on the ledger",
		}),
		CyclesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "cycles_total",
			Help:      "Total number of risk control cycles executed",
		}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of risk control cycles",
			Buckets:   prometheus.DefBuckets,
		}),
		CapSubmissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "cap_submissions_total",
			Help:      "Total number of cap submissions by status",
		}, []string{"status"}),
		MarketsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "markets_skipped_total",
			Help:      "Total number of markets skipped due to provider failures",
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Total number of provider errors by kind",
		}, []string{"kind"}),
		TicksCoalesced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "ticks_coalesced_total",
			Help:      "Total number of ticks skipped because the previous run was still in flight",
		}, []string{"task"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
