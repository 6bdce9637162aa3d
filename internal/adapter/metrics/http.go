package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route matched, so scanning random paths
// cannot grow the label set.
const unmatchedRoute = "unmatched"

// importRoute is the only route with a request body worth measuring.
const importRoute = "/movies/import"

// RequestMetrics tracks API requests by route template and status class.
// Health, version and scrape endpoints are not recorded.
type RequestMetrics struct {
	Duration    *prometheus.HistogramVec
	Requests    *prometheus.CounterVec
	InFlight    prometheus.Gauge
	ImportBytes prometheus.Histogram
}

func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	m := &RequestMetrics{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds, by route and status class.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route", "status_class"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests, by route and status class.",
		}, []string{"method", "route", "status_class"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of API requests currently being served.",
		}),
		ImportBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "import_request_bytes",
			Help:      "Declared size of movie list upload bodies.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}

	reg.MustRegister(m.Duration, m.Requests, m.InFlight, m.ImportBytes)
	return m
}

func skipRoute(route string) bool {
	return route == "/metrics" || route == "/version" || strings.HasPrefix(route, "/health/")
}

// statusClass folds a status code into 2xx, 4xx, and so on.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Middleware must run outside the error handler so it sees the final status.
func (m *RequestMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if skipRoute(route) {
				return next(c)
			}

			if route == importRoute && c.Request().ContentLength >= 0 {
				m.ImportBytes.Observe(float64(c.Request().ContentLength))
			}

			m.InFlight.Inc()
			defer m.InFlight.Dec()

			start := time.Now()
			err := next(c)

			status := responseStatus(c, err)
			if route == "" || status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
				route = unmatchedRoute
			}
			class := statusClass(status)
			m.Duration.WithLabelValues(c.Request().Method, route, class).Observe(time.Since(start).Seconds())
			m.Requests.WithLabelValues(c.Request().Method, route, class).Inc()

			return err
		}
	}
}

// responseStatus is the status echo will send. Errors that reach this point
// uncommitted are rendered later by echo's error handler.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}
