// Package metrics holds the Prometheus collectors for gateway calls, form
// validation and the web front end. Every method is safe on a nil *Metrics
// so the terminal client and tests can skip instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gateway call labels.
const (
	CallFetchForm  = "fetch_form"
	CallCreateUser = "create_user"
)

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	gatewayRequests   *prometheus.CounterVec
	gatewayDuration   *prometheus.HistogramVec
	validationFailure *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	gatewayRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formfill_gateway_requests_total",
		Help: "Remote form gateway calls by outcome",
	}, []string{"call", "outcome"})

	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formfill_gateway_request_duration_seconds",
		Help:    "Duration of remote form gateway calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"call"})

	validationFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formfill_validation_failures_total",
		Help: "Section validation failures by rule",
	}, []string{"rule"})

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "formfill_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "formfill_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(gatewayRequests, gatewayDuration, validationFailure, httpRequests, httpDuration)

	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		gatewayRequests:   gatewayRequests,
		gatewayDuration:   gatewayDuration,
		validationFailure: validationFailure,
		httpRequests:      httpRequests,
		httpDuration:      httpDuration,
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveGateway records one gateway call.
func (m *Metrics) ObserveGateway(call, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(call, outcome).Inc()
	m.gatewayDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// ValidationFailed counts one violated rule.
func (m *Metrics) ValidationFailed(rule string) {
	if m == nil {
		return
	}
	m.validationFailure.WithLabelValues(rule).Inc()
}

// ObserveHTTPRequest records request metrics. route is the mux template, not
// the raw path.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
