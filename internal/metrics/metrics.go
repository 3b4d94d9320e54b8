package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewhub"

// Metrics holds the Prometheus instruments for the API and the review
// domain.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec

	reviewsCreated prometheus.Counter
	trustScores    prometheus.Histogram
	upvotesApplied prometheus.Counter
	viewsRecorded  prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		reviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "created_total",
			Help:      "Total number of reviews created.",
		}),
		trustScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "trust_score",
			Help:      "Distribution of trust scores at creation time.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		upvotesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "upvotes_total",
			Help:      "Total number of applied upvotes.",
		}),
		viewsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "views_total",
			Help:      "Total number of recorded views.",
		}),
	}

	reg.MustRegister(
		m.requestDuration, m.requestsTotal,
		m.reviewsCreated, m.trustScores, m.upvotesApplied, m.viewsRecorded,
	)
	return m
}

func (m *Metrics) ReviewCreated(trustScore int) {
	m.reviewsCreated.Inc()
	m.trustScores.Observe(float64(trustScore))
}

func (m *Metrics) UpvoteApplied() {
	m.upvotesApplied.Inc()
}

func (m *Metrics) ViewRecorded() {
	m.viewsRecorded.Inc()
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request duration and count per route. The /metrics
// endpoint itself is skipped.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/metrics" {
			c.Next()
			return
		}

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			status := strconv.Itoa(c.Writer.Status())
			m.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(v)
			m.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		}))
		c.Next()
		timer.ObserveDuration()
	}
}
