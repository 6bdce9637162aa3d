package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/prizeintervals/internal/domain"
)

// IntervalMetrics holds Prometheus metrics for the prize-interval pipeline:
// computations, imports and the cache in front of them.
type IntervalMetrics struct {
	ComputeDuration prometheus.Histogram
	ResultProducers *prometheus.GaugeVec
	ImportDuration  prometheus.Histogram
	ImportRows      *prometheus.CounterVec
	Imports         *prometheus.CounterVec

	cache   *CacheMetrics
	backend string
}

// NewIntervalMetrics creates and registers pipeline metrics on the given
// registry. backend names the configured cache for the hit/miss labels.
func NewIntervalMetrics(reg prometheus.Registerer, backend string) *IntervalMetrics {
	m := &IntervalMetrics{
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interval_compute_duration_seconds",
			Help:      "Duration of prize-interval computations in seconds, including the store read.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		ResultProducers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interval_result_producers",
			Help:      "Number of producers in the last computed result, by side.",
		}, []string{"side"}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duration of movie list imports in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Total number of movie list rows processed, by outcome.",
		}, []string{"outcome"}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Total number of movie list imports, by mode.",
		}, []string{"mode"}),
		cache:   NewCacheMetrics(reg),
		backend: backend,
	}

	reg.MustRegister(m.ComputeDuration, m.ResultProducers, m.ImportDuration, m.ImportRows, m.Imports)
	return m
}

func (m *IntervalMetrics) ObserveCompute(d time.Duration, result domain.PrizeIntervals) {
	m.ComputeDuration.Observe(d.Seconds())
	m.ResultProducers.WithLabelValues("min").Set(float64(len(result.Min)))
	m.ResultProducers.WithLabelValues("max").Set(float64(len(result.Max)))
}

func (m *IntervalMetrics) ObserveImport(report domain.ImportReport) {
	m.ImportDuration.Observe(report.Duration.Seconds())
	m.Imports.WithLabelValues(string(report.Mode)).Inc()
	m.ImportRows.WithLabelValues("imported").Add(float64(report.Imported))
	m.ImportRows.WithLabelValues("skipped").Add(float64(len(report.Skipped)))
}

func (m *IntervalMetrics) CacheLookup(hit bool) {
	if hit {
		m.cache.Hits.WithLabelValues(m.backend).Inc()
		return
	}
	m.cache.Misses.WithLabelValues(m.backend).Inc()
}

func (m *IntervalMetrics) CacheError(operation string) {
	m.cache.Errors.WithLabelValues(operation).Inc()
}

func (m *IntervalMetrics) CacheInvalidated() {
	m.cache.Invalidations.Inc()
}
