// Package metrics holds the Prometheus registry and the collectors the service
// exports on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics wraps a private registry with the standard collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HeuristicRunsTotal  *prometheus.CounterVec
	HeuristicDuration   *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec
}

// New registers the Go runtime and process collectors plus the service
// collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = m.newCounterVec(prometheus.CounterOpts{
		Name: "http_server_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.HTTPRequestDuration = m.newHistogramVec(prometheus.HistogramOpts{
		Name:    "http_server_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.HeuristicRunsTotal = m.newCounterVec(prometheus.CounterOpts{
		Name: "ttp_heuristic_runs_total",
		Help: "Heuristic runs by outcome",
	}, []string{"heuristic", "valid"})

	m.HeuristicDuration = m.newHistogramVec(prometheus.HistogramOpts{
		Name:    "ttp_heuristic_duration_seconds",
		Help:    "Wall time of one heuristic run",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"heuristic"})

	m.CacheLookupsTotal = m.newCounterVec(prometheus.CounterOpts{
		Name: "ttp_report_cache_lookups_total",
		Help: "Report cache lookups by result",
	}, []string{"result"})

	return m
}

func (m *Metrics) newCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

func (m *Metrics) newHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// HeuristicOther labels runs of heuristics without a catalog key.
const HeuristicOther = "other"

// ObserveHeuristic records one heuristic run under its catalog key, never its
// display name, so client-chosen parameters cannot mint new series.
func (m *Metrics) ObserveHeuristic(key string, valid bool, d time.Duration) {
	if key == "" {
		key = HeuristicOther
	}
	m.HeuristicRunsTotal.WithLabelValues(key, strconv.FormatBool(valid)).Inc()
	m.HeuristicDuration.WithLabelValues(key).Observe(d.Seconds())
}

// ObserveCache records a report cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
