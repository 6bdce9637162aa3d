package interval

import (
	"slices"
	"strings"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// Format turns a Result into the response shape. Both sides are sorted by
// producer name and never nil, so they encode as [] when empty.
func Format(result Result) domain.PrizeIntervals {
	return domain.PrizeIntervals{
		Min: formatSide(result.MinProducers, result.MinDetails),
		Max: formatSide(result.MaxProducers, result.MaxDetails),
	}
}

func formatSide(producers []string, details map[string]domain.IntervalDetail) []domain.ProducerInterval {
	out := make([]domain.ProducerInterval, 0, len(producers))
	for _, producer := range producers {
		detail := details[producer]
		out = append(out, domain.ProducerInterval{
			Producer:     producer,
			Interval:     detail.Interval,
			PreviousWin:  detail.PreviousWin,
			FollowingWin: detail.FollowingWin,
		})
	}

	slices.SortFunc(out, func(a, b domain.ProducerInterval) int {
		return strings.Compare(a.Producer, b.Producer)
	})
	return out
}

// Compute runs the whole pipeline over winning movies.
func Compute(movies []domain.Movie) domain.PrizeIntervals {
	return Format(Calculate(GroupByProducer(movies)))
}
