package app

import (
	"time"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// Recorder receives measurements from the service. Implemented by the
// Prometheus adapter.
type Recorder interface {
	ObserveCompute(d time.Duration, result domain.PrizeIntervals)
	ObserveImport(report domain.ImportReport)
	CacheLookup(hit bool)
	CacheError(operation string)
	CacheInvalidated()
}

type noopRecorder struct{}

func (noopRecorder) ObserveCompute(time.Duration, domain.PrizeIntervals) {}
func (noopRecorder) ObserveImport(domain.ImportReport) {}
func (noopRecorder) CacheLookup(bool) {}
func (noopRecorder) CacheError(string) {}
func (noopRecorder) CacheInvalidated() {}
