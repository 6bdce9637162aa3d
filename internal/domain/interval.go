package domain

import "context"

// IntervalDetail is one pair of consecutive wins witnessing a producer's gap.
type IntervalDetail struct {
	Interval     int `json:"interval"`
	PreviousWin  int `json:"previousWin"`
	FollowingWin int `json:"followingWin"`
}

type ProducerInterval struct {
	Producer     string `json:"producer"`
	Interval     int    `json:"interval"`
	PreviousWin  int    `json:"previousWin"`
	FollowingWin int    `json:"followingWin"`
}

// PrizeIntervals lists the producers with the shortest and longest gap
// between consecutive wins. Both sides hold every producer tied at the
// extremal value.
type PrizeIntervals struct {
	Min []ProducerInterval `json:"min"`
	Max []ProducerInterval `json:"max"`
}

// IntervalCache stores the last computed PrizeIntervals until the movie
// list changes. Every invalidation advances the cache generation.
//
// Get reports the generation it observed alongside the result; on a miss it
// returns ErrCacheMiss and that generation. Set stores a result only while the
// generation is still gen and returns ErrStaleGeneration otherwise, so a
// result read from the store before an invalidation is never cached after it.
type IntervalCache interface {
	Get(ctx context.Context) (*PrizeIntervals, uint64, error)
	Set(ctx context.Context, gen uint64, result PrizeIntervals) error
	Invalidate(ctx context.Context) error
}
