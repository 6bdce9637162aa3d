package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics holds Prometheus metrics for prize-interval cache performance.
type CacheMetrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	Invalidations prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics on the given registry.
// backend labels which cache implementation served the lookup (memory or redis).
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interval_cache",
			Name:      "hits_total",
			Help:      "Total number of prize-interval cache hits, by backend.",
		}, []string{"backend"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interval_cache",
			Name:      "misses_total",
			Help:      "Total number of prize-interval cache misses, by backend.",
		}, []string{"backend"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interval_cache",
			Name:      "errors_total",
			Help:      "Total number of cache operations that failed and were bypassed, by operation.",
		}, []string{"operation"}),
		Invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "interval_cache",
			Name:      "invalidations_total",
			Help:      "Total number of prize-interval cache invalidations.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Errors, m.Invalidations)
	return m
}
