// Package metrics collects and exposes Prometheus metrics for the auth
// endpoints.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector counts request outcomes. Service and middleware layers record
// into it; the registry is exposed on /metrics.
type Collector struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	authFailures *prometheus.CounterVec
	logins       prometheus.Counter
	registered   prometheus.Counter
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storeauth_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"code"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storeauth_auth_failures_total",
			Help: "Authentication and authorization failures by kind.",
		}, []string{"reason"}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storeauth_logins_total",
			Help: "Successful logins.",
		}),
		registered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storeauth_registrations_total",
			Help: "Successful registrations.",
		}),
	}

	c.registry.MustRegister(c.requests, c.authFailures, c.logins, c.registered)

	return c
}

// RecordRequest counts one HTTP response with the given status code.
func (c *Collector) RecordRequest(statusCode int) {
	c.requests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordAuthFailure counts a failed authentication or authorization,
// labeled by the failure kind (missing_token, malformed_header,
// invalid_token, forbidden, invalid_credentials).
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordLogin counts a successful login.
func (c *Collector) RecordLogin() { c.logins.Inc() }

// RecordRegistration counts a successful registration.
func (c *Collector) RecordRegistration() { c.registered.Inc() }

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
