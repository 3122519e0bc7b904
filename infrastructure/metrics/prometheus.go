// Package metrics provides Prometheus metrics for monitoring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Claim coordination metrics
	claimsTotal    *prometheus.CounterVec
	claimConflicts prometheus.Counter

	// Pool metrics
	poolJobs prometheus.Gauge

	// Request workflow metrics
	requestsResponded *prometheus.CounterVec
	requestsExpired   prometheus.Counter

	// Trash metrics
	recordsPurged *prometheus.CounterVec

	// Notifier metrics
	eventsPublished prometheus.Counter
	eventsFailed    prometheus.Counter

	// Transport metrics
	httpInFlight prometheus.Gauge
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		claimsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crewdispatch_claims_total",
				Help: "Total number of successful job claims",
			},
			[]string{"path"},
		),
		claimConflicts: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crewdispatch_claim_conflicts_total",
				Help: "Total number of claims lost to a concurrent winner",
			},
		),
		poolJobs: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "crewdispatch_pool_jobs",
				Help: "Number of jobs currently claimable in the pool",
			},
		),
		requestsResponded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crewdispatch_job_requests_responded_total",
				Help: "Total number of job request responses",
			},
			[]string{"status"},
		),
		requestsExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crewdispatch_job_requests_expired_total",
				Help: "Total number of job requests expired by the sweep",
			},
		),
		recordsPurged: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crewdispatch_trash_purged_total",
				Help: "Total number of records permanently purged",
			},
			[]string{"entity_type"},
		),
		eventsPublished: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crewdispatch_events_published_total",
				Help: "Total number of transition events published",
			},
		),
		eventsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "crewdispatch_events_failed_total",
				Help: "Total number of transition events that failed to publish",
			},
		),
		httpInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "crewdispatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
	}
}

// RecordClaim records a successful claim via the given path (pool or request).
func (m *Metrics) RecordClaim(path string) {
	m.claimsTotal.WithLabelValues(path).Inc()
}

// RecordClaimConflict records a claim lost to a concurrent winner.
func (m *Metrics) RecordClaimConflict() {
	m.claimConflicts.Inc()
}

// SetPoolJobs sets the claimable pool size gauge.
func (m *Metrics) SetPoolJobs(n int) {
	m.poolJobs.Set(float64(n))
}

// RecordRequestResponse records a job request response by terminal status.
func (m *Metrics) RecordRequestResponse(status string) {
	m.requestsResponded.WithLabelValues(status).Inc()
}

// RecordRequestsExpired records requests expired by the sweep.
func (m *Metrics) RecordRequestsExpired(n int64) {
	m.requestsExpired.Add(float64(n))
}

// RecordPurged records permanently purged records by entity kind.
func (m *Metrics) RecordPurged(entityType string, n int64) {
	m.recordsPurged.WithLabelValues(entityType).Add(float64(n))
}

// RecordEventPublished increments the published event counter.
func (m *Metrics) RecordEventPublished() {
	m.eventsPublished.Inc()
}

// RecordEventFailed increments the failed event counter.
func (m *Metrics) RecordEventFailed() {
	m.eventsFailed.Inc()
}

// HTTPRequestStarted increments the in-flight request gauge.
func (m *Metrics) HTTPRequestStarted() {
	m.httpInFlight.Inc()
}

// HTTPRequestFinished decrements the in-flight request gauge.
func (m *Metrics) HTTPRequestFinished() {
	m.httpInFlight.Dec()
}
