// Package metrics exposes Prometheus instrumentation for the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "car_catalog"

// Service owns a private registry. A disabled Service records nothing.
type Service struct {
	enabled  bool
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// New creates the metrics service.
func New(enabled bool) *Service {
	if !enabled {
		return &Service{}
	}
	reg := prometheus.NewRegistry()
	s := &Service{
		enabled:  true,
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.requests, s.latency, s.logins,
	)
	return s
}

// Enabled reports whether metrics are recorded.
func (s *Service) Enabled() bool { return s.enabled }

// GinMiddleware records request counts and latency keyed by the matched route.
func (s *Service) GinMiddleware() gin.HandlerFunc {
	if !s.enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		s.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		s.latency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// ObserveLogin counts a login attempt with the given outcome label.
func (s *Service) ObserveLogin(outcome string) {
	if !s.enabled {
		return
	}
	s.logins.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	if !s.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics disabled"))
		})
	}
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
