package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus collectors.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry       *prometheus.Registry
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	workerJobs     *prometheus.CounterVec
	statsDuration  prometheus.Histogram
	gridsProjected prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kanso_http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kanso_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kanso_cache_lookups_total",
			Help: "Streak cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		workerJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kanso_streak_worker_jobs_total",
			Help: "Streak recalculation jobs by outcome.",
		}, []string{"outcome"}),
		statsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanso_stats_aggregate_duration_seconds",
			Help:    "Time spent aggregating a statistics snapshot.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		gridsProjected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kanso_grids_projected_total",
			Help: "Total contribution grids projected.",
		}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.cacheLookups,
		m.workerJobs,
		m.statsDuration,
		m.gridsProjected,
	)

	return m
}

// Handler serves the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Middleware records request count and latency per matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *Metrics) CacheError() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("error").Inc()
}

// JobProcessed counts a worker job; outcome is one of updated, unchanged, failed or dropped.
func (m *Metrics) JobProcessed(outcome string) {
	if m == nil {
		return
	}
	m.workerJobs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAggregate(d time.Duration) {
	if m == nil {
		return
	}
	m.statsDuration.Observe(d.Seconds())
}

func (m *Metrics) GridProjected() {
	if m == nil {
		return
	}
	m.gridsProjected.Inc()
}
