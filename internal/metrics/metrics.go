// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth outcomes recorded by RecordAuth.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeForbidden = "forbidden"
)

// Collector gathers HTTP and authentication metrics.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	auth     *prometheus.CounterVec
	tokens   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_http_requests_total",
			Help: "HTTP responses by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_auth_attempts_total",
			Help: "Authentication attempts by scheme and outcome.",
		}, []string{"scheme", "outcome"}),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blog_tokens_issued_total",
			Help: "Access tokens issued.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.auth, c.tokens)

	return c
}

// RecordRequest records a completed HTTP request.
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuth records an authentication attempt for scheme.
func (c *Collector) RecordAuth(scheme, outcome string) {
	c.auth.WithLabelValues(scheme, outcome).Inc()
}

// RecordTokenIssued counts an issued access token.
func (c *Collector) RecordTokenIssued() {
	c.tokens.Inc()
}

// Handler returns an HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
