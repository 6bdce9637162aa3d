package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/prizeintervals/internal/domain"
)

// IntervalCache holds the last computed result for a fixed TTL.
type IntervalCache struct {
	mu         sync.RWMutex
	clock      clockwork.Clock
	ttl        time.Duration
	generation uint64
	result     *domain.PrizeIntervals
	expiresAt  time.Time
}

var _ domain.IntervalCache = (*IntervalCache)(nil)

func NewIntervalCache(ttl time.Duration, clock clockwork.Clock) *IntervalCache {
	return &IntervalCache{clock: clock, ttl: ttl}
}

func (c *IntervalCache) Get(_ context.Context) (*domain.PrizeIntervals, uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.result == nil || !c.clock.Now().Before(c.expiresAt) {
		return nil, c.generation, domain.ErrCacheMiss
	}
	result := clonePrizeIntervals(*c.result)
	return &result, c.generation, nil
}

func (c *IntervalCache) Set(_ context.Context, gen uint64, result domain.PrizeIntervals) error {
	stored := clonePrizeIntervals(result)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return domain.ErrStaleGeneration
	}
	c.result = &stored
	c.expiresAt = c.clock.Now().Add(c.ttl)
	return nil
}

func (c *IntervalCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.result = nil
	return nil
}

func clonePrizeIntervals(result domain.PrizeIntervals) domain.PrizeIntervals {
	return domain.PrizeIntervals{
		Min: append([]domain.ProducerInterval{}, result.Min...),
		Max: append([]domain.ProducerInterval{}, result.Max...),
	}
}
