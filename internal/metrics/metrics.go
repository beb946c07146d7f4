package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselbrief_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vesselbrief_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// ProviderCalls counts outbound source calls. outcome mirrors models.OutcomeKind
	// plus "empty" for best-effort sources that returned nothing.
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselbrief_provider_calls_total",
			Help: "Outbound provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vesselbrief_provider_call_duration_seconds",
			Help:    "Outbound provider call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vesselbrief_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselbrief_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselbrief_reports_total",
			Help: "Generated reports by outcome",
		},
		[]string{"outcome"},
	)

	AuditEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselbrief_audit_events_total",
			Help: "report.generated messages handled by the worker",
		},
		[]string{"result"},
	)
)

func ObserveProviderCall(provider, outcome string, started time.Time) {
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
	ProviderCallDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}
