package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds Prometheus metrics for the Postgres and Redis clients
// and the circuit breaker guarding Redis.
type StoreMetrics struct {
	DBQueryDuration     *prometheus.HistogramVec
	DBErrors            *prometheus.CounterVec
	RedisOps            *prometheus.CounterVec
	RedisOpDuration     *prometheus.HistogramVec
	RedisConnErrors     prometheus.Counter
	BreakerState        *prometheus.GaugeVec
	BreakerStateChanges *prometheus.CounterVec
}

// NewStoreMetrics creates and registers store client metrics on the given registry.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds, by statement kind.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"query"}),
		DBErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "errors_total",
			Help:      "Total number of failed database queries, by statement kind.",
		}, []string{"query"}),
		RedisOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "operations_total",
			Help:      "Total number of Redis operations, by command and status.",
		}, []string{"operation", "status"}),
		RedisOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "operation_duration_seconds",
			Help:      "Duration of Redis operations in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"operation"}),
		RedisConnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "connection_errors_total",
			Help:      "Total number of failed Redis dials.",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open), by component.",
		}, []string{"component"}),
		BreakerStateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_changes_total",
			Help:      "Total number of circuit breaker transitions, by component and target state.",
		}, []string{"component", "state"}),
	}

	reg.MustRegister(m.DBQueryDuration, m.DBErrors, m.RedisOps, m.RedisOpDuration,
		m.RedisConnErrors, m.BreakerState, m.BreakerStateChanges)
	return m
}

func (m *StoreMetrics) ObserveQuery(query string, d time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(query).Observe(d.Seconds())
	if err != nil {
		m.DBErrors.WithLabelValues(query).Inc()
	}
}

func (m *StoreMetrics) ObserveCommand(operation string, d time.Duration, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	m.RedisOps.WithLabelValues(operation, status).Inc()
	m.RedisOpDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *StoreMetrics) DialFailed() {
	m.RedisConnErrors.Inc()
}

// BreakerStateChanged records a transition. state is the numeric gauge value
// and name its label.
func (m *StoreMetrics) BreakerStateChanged(component, name string, state float64) {
	m.BreakerStateChanges.WithLabelValues(component, name).Inc()
	m.BreakerState.WithLabelValues(component).Set(state)
}
