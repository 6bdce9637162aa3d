package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// Keys share a hash tag so MGET and WATCH stay on one cluster slot. The
// result key is versioned so a change to the JSON shape never reads entries
// written by an older release.
const (
	intervalCacheKey      = "{prize_intervals}:v1"
	intervalGenerationKey = "{prize_intervals}:gen"
)

// IntervalCache shares the computed result between replicas through Redis.
// The generation lives in Redis too, so an invalidation by any replica or by
// the import tool rejects results computed before it.
type IntervalCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

var _ domain.IntervalCache = (*IntervalCache)(nil)

func NewIntervalCache(rdb goredis.UniversalClient, ttl time.Duration) *IntervalCache {
	return &IntervalCache{rdb: rdb, ttl: ttl}
}

func (c *IntervalCache) Get(ctx context.Context) (*domain.PrizeIntervals, uint64, error) {
	values, err := c.rdb.MGet(ctx, intervalGenerationKey, intervalCacheKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read cached intervals: %w", err)
	}

	gen, err := parseGeneration(values[0])
	if err != nil {
		return nil, 0, err
	}

	data, ok := values[1].(string)
	if !ok {
		return nil, gen, domain.ErrCacheMiss
	}

	var result domain.PrizeIntervals
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, 0, fmt.Errorf("failed to decode cached intervals: %w", err)
	}
	if result.Min == nil {
		result.Min = []domain.ProducerInterval{}
	}
	if result.Max == nil {
		result.Max = []domain.ProducerInterval{}
	}
	return &result, gen, nil
}

// Set writes result in a WATCH transaction on the generation key, so an
// invalidation landing between the check and the write aborts it.
func (c *IntervalCache) Set(ctx context.Context, gen uint64, result domain.PrizeIntervals) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode intervals: %w", err)
	}

	err = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, intervalGenerationKey).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		current, err := parseGeneration(raw)
		if err != nil {
			return err
		}
		if current != gen {
			return domain.ErrStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, intervalCacheKey, encoded, c.ttl)
			return nil
		})
		return err
	}, intervalGenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrStaleGeneration):
		return err
	case errors.Is(err, goredis.TxFailedErr):
		return domain.ErrStaleGeneration
	default:
		return fmt.Errorf("failed to cache intervals: %w", err)
	}
}

// Invalidate advances the generation and drops the result atomically.
func (c *IntervalCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, intervalGenerationKey)
		pipe.Del(ctx, intervalCacheKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate interval cache: %w", err)
	}
	return nil
}

// parseGeneration reads the generation key; a missing key is generation 0.
func parseGeneration(value any) (uint64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case string:
		if v == "" {
			return 0, nil
		}
		gen, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid interval cache generation %q: %w", v, err)
		}
		return gen, nil
	default:
		return 0, fmt.Errorf("unexpected interval cache generation type %T", value)
	}
}
