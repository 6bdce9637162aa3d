package interval

import (
	"slices"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// Result holds the global tie sets. MinProducers and MaxProducers keep the
// order producers joined them; each producer has exactly one detail on each
// side it belongs to.
type Result struct {
	MinInterval  int
	MaxInterval  int
	MinProducers []string
	MaxProducers []string
	MinDetails   map[string]domain.IntervalDetail
	MaxDetails   map[string]domain.IntervalDetail
}

// Empty reports whether no producer had a positive gap. MinInterval and
// MaxInterval carry no meaning in that case.
func (r Result) Empty() bool {
	return len(r.MinProducers) == 0 && len(r.MaxProducers) == 0
}

// span is a single producer's extremal gaps.
type span struct {
	min domain.IntervalDetail
	max domain.IntervalDetail
}

// Calculate walks producers in first-seen order and folds each producer's
// shortest and longest consecutive gap into the global tie sets.
func Calculate(grouped *ProducerYears) Result {
	result := Result{
		MinDetails: make(map[string]domain.IntervalDetail),
		MaxDetails: make(map[string]domain.IntervalDetail),
	}

	found := false
	for _, producer := range grouped.Producers() {
		s, ok := producerSpan(grouped.Years(producer))
		if !ok {
			continue
		}

		switch {
		case !found || s.min.Interval < result.MinInterval:
			result.MinInterval = s.min.Interval
			result.MinProducers = []string{producer}
			result.MinDetails = map[string]domain.IntervalDetail{producer: s.min}
		case s.min.Interval == result.MinInterval:
			result.MinProducers = append(result.MinProducers, producer)
			result.MinDetails[producer] = s.min
		}

		switch {
		case !found || s.max.Interval > result.MaxInterval:
			result.MaxInterval = s.max.Interval
			result.MaxProducers = []string{producer}
			result.MaxDetails = map[string]domain.IntervalDetail{producer: s.max}
		case s.max.Interval == result.MaxInterval:
			result.MaxProducers = append(result.MaxProducers, producer)
			result.MaxDetails[producer] = s.max
		}

		found = true
	}

	return result
}

// producerSpan returns the smallest and largest positive gap between
// consecutive sorted years. The first pair found wins ties. ok is false when
// there are fewer than two years or every gap is zero.
func producerSpan(years []int) (s span, ok bool) {
	if len(years) < 2 {
		return span{}, false
	}

	sorted := slices.Clone(years)
	slices.Sort(sorted)

	for i := 0; i+1 < len(sorted); i++ {
		gap := sorted[i+1] - sorted[i]
		if gap == 0 {
			continue
		}

		detail := domain.IntervalDetail{
			Interval:     gap,
			PreviousWin:  sorted[i],
			FollowingWin: sorted[i+1],
		}
		if !ok {
			s.min, s.max, ok = detail, detail, true
			continue
		}
		if gap < s.min.Interval {
			s.min = detail
		}
		if gap > s.max.Interval {
			s.max = detail
		}
	}

	return s, ok
}
