// Package metrics provides Prometheus instrumentation for the report engine.
//
// All instruments are registered against a caller-supplied registerer so
// tests can use an isolated registry. Every Metrics method is safe to call
// on a nil receiver, which lets callers wire instrumentation optionally.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "worklogreport"

// Metrics holds the Prometheus instruments recorded by the client,
// cache and report layers.
type Metrics struct {
	apiRequestsTotal    *prometheus.CounterVec
	apiRequestDuration  *prometheus.HistogramVec
	cacheRequestsTotal  *prometheus.CounterVec
	reportBuildDuration *prometheus.HistogramVec
	fanoutFailuresTotal *prometheus.CounterVec
}

// New creates the instrument set and registers it with the given registerer.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		apiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of Jira API requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Duration of Jira API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		cacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "Total number of cache lookups by result",
			},
			[]string{"cache", "result"},
		),
		reportBuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_build_duration_seconds",
				Help:      "Duration of worklog report builds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"report_type"},
		),
		fanoutFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worklog_fanout_failures_total",
				Help:      "Total number of per-issue worklog fetch failures tolerated during report builds",
			},
			[]string{"report_type"},
		),
	}

	registerer.MustRegister(
		m.apiRequestsTotal,
		m.apiRequestDuration,
		m.cacheRequestsTotal,
		m.reportBuildDuration,
		m.fanoutFailuresTotal,
	)

	return m
}

// ObserveAPIRequest records one Jira API request outcome.
func (m *Metrics) ObserveAPIRequest(endpoint, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.apiRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(statusCode)).Inc()
	m.apiRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// ObserveCache records a cache lookup as a hit or a miss.
func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// ObserveReportBuild records the duration of a completed report build.
func (m *Metrics) ObserveReportBuild(reportType string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportBuildDuration.WithLabelValues(reportType).Observe(duration.Seconds())
}

// ObserveFanoutFailure records a tolerated per-issue failure during fan-out.
func (m *Metrics) ObserveFanoutFailure(reportType string) {
	if m == nil {
		return
	}
	m.fanoutFailuresTotal.WithLabelValues(reportType).Inc()
}

// Handler returns an HTTP handler exposing the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr and blocks until the listener fails.
func Serve(addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return http.ListenAndServe(addr, mux)
}
