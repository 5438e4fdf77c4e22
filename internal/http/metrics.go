package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the API collectors. Build one per registry with NewMetrics.
type Metrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	reviewsCreated prometheus.Counter
	deactivations  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentals_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rentals_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		reviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rentals_reviews_created_total",
			Help: "Total number of reviews created",
		}),
		deactivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rentals_account_deactivations_total",
			Help: "Total number of deactivated accounts",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.reviewsCreated, m.deactivations)
	return m
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) reviewCreated() {
	if m != nil {
		m.reviewsCreated.Inc()
	}
}

func (m *Metrics) accountDeactivated() {
	if m != nil {
		m.deactivations.Inc()
	}
}
