package interval

import (
	"testing"

	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearsOf(entries ...any) *ProducerYears {
	grouped := NewProducerYears()
	for i := 0; i < len(entries); i += 2 {
		producer := entries[i].(string)
		for _, year := range entries[i+1].([]int) {
			grouped.Add(producer, year)
		}
	}
	return grouped
}

func TestCalculate_SameYearWinsIgnored(t *testing.T) {
	result := Calculate(yearsOf("X", []int{1990, 1990, 1995}))

	want := domain.IntervalDetail{Interval: 5, PreviousWin: 1990, FollowingWin: 1995}
	assert.Equal(t, 5, result.MinInterval)
	assert.Equal(t, 5, result.MaxInterval)
	assert.Equal(t, []string{"X"}, result.MinProducers)
	assert.Equal(t, []string{"X"}, result.MaxProducers)
	assert.Equal(t, want, result.MinDetails["X"])
	assert.Equal(t, want, result.MaxDetails["X"])
}

func TestCalculate_SingleQualifyingProducer(t *testing.T) {
	result := Calculate(yearsOf(
		"Y", []int{1980, 1998},
		"Z", []int{1985},
	))

	want := domain.IntervalDetail{Interval: 18, PreviousWin: 1980, FollowingWin: 1998}
	assert.Equal(t, []string{"Y"}, result.MinProducers)
	assert.Equal(t, []string{"Y"}, result.MaxProducers)
	assert.Equal(t, want, result.MinDetails["Y"])
	assert.Equal(t, want, result.MaxDetails["Y"])
}

func TestCalculate_TiedMinimum(t *testing.T) {
	result := Calculate(yearsOf(
		"A", []int{2011, 2012},
		"B", []int{1986, 1987},
		"C", []int{1980, 1990},
	))

	assert.Equal(t, 1, result.MinInterval)
	assert.ElementsMatch(t, []string{"A", "B"}, result.MinProducers)
	assert.Equal(t, domain.IntervalDetail{Interval: 1, PreviousWin: 2011, FollowingWin: 2012}, result.MinDetails["A"])
	assert.Equal(t, domain.IntervalDetail{Interval: 1, PreviousWin: 1986, FollowingWin: 1987}, result.MinDetails["B"])

	assert.Equal(t, 10, result.MaxInterval)
	assert.Equal(t, []string{"C"}, result.MaxProducers)
}

func TestCalculate_Empty(t *testing.T) {
	result := Calculate(NewProducerYears())

	assert.True(t, result.Empty())
	assert.Empty(t, result.MinProducers)
	assert.Empty(t, result.MaxProducers)
	assert.Empty(t, result.MinDetails)
	assert.Empty(t, result.MaxDetails)
}

func TestCalculate_NoQualifyingProducers(t *testing.T) {
	result := Calculate(yearsOf(
		"single", []int{1990},
		"same-year", []int{2000, 2000, 2000},
	))

	assert.True(t, result.Empty())
}

func TestCalculate_StrictImprovementResetsTieSet(t *testing.T) {
	result := Calculate(yearsOf(
		"A", []int{1990, 1995},
		"B", []int{1990, 1995},
		"C", []int{2000, 2002},
	))

	assert.Equal(t, 2, result.MinInterval)
	assert.Equal(t, []string{"C"}, result.MinProducers)
	assert.NotContains(t, result.MinDetails, "A")
	assert.NotContains(t, result.MinDetails, "B")

	assert.Equal(t, 5, result.MaxInterval)
	assert.Equal(t, []string{"A", "B"}, result.MaxProducers)
	assert.NotContains(t, result.MaxDetails, "C")
}

func TestCalculate_ProducerOnBothSidesKeepsSeparateDetails(t *testing.T) {
	result := Calculate(yearsOf(
		"A", []int{1990, 1991, 2011},
		"B", []int{2000, 2005},
	))

	assert.Equal(t, []string{"A"}, result.MinProducers)
	assert.Equal(t, []string{"A"}, result.MaxProducers)
	assert.Equal(t, domain.IntervalDetail{Interval: 1, PreviousWin: 1990, FollowingWin: 1991}, result.MinDetails["A"])
	assert.Equal(t, domain.IntervalDetail{Interval: 20, PreviousWin: 1991, FollowingWin: 2011}, result.MaxDetails["A"])
}

func TestCalculate_UsesConsecutivePairsOnly(t *testing.T) {
	// first-to-last span is 30; the widest consecutive gap is 20
	result := Calculate(yearsOf("A", []int{1970, 1980, 2000}))

	assert.Equal(t, 10, result.MinInterval)
	assert.Equal(t, 20, result.MaxInterval)
	assert.Equal(t, domain.IntervalDetail{Interval: 20, PreviousWin: 1980, FollowingWin: 2000}, result.MaxDetails["A"])
}

func TestCalculate_SortsUnorderedYears(t *testing.T) {
	grouped := yearsOf("A", []int{2005, 1990, 2000})

	result := Calculate(grouped)

	assert.Equal(t, domain.IntervalDetail{Interval: 5, PreviousWin: 2000, FollowingWin: 2005}, result.MinDetails["A"])
	assert.Equal(t, domain.IntervalDetail{Interval: 10, PreviousWin: 1990, FollowingWin: 2000}, result.MaxDetails["A"])
	// input order is left untouched
	assert.Equal(t, []int{2005, 1990, 2000}, grouped.Years("A"))
}

func TestCalculate_FirstWitnessWinsWithinProducer(t *testing.T) {
	result := Calculate(yearsOf("A", []int{1990, 1993, 1996, 1999}))

	assert.Equal(t, domain.IntervalDetail{Interval: 3, PreviousWin: 1990, FollowingWin: 1993}, result.MinDetails["A"])
	assert.Equal(t, domain.IntervalDetail{Interval: 3, PreviousWin: 1990, FollowingWin: 1993}, result.MaxDetails["A"])
}

func TestCalculate_Invariants(t *testing.T) {
	grouped := yearsOf(
		"A", []int{1980, 1984, 1984, 1999},
		"B", []int{1990, 1991},
		"C", []int{2001, 2003, 2010},
		"D", []int{1995},
		"E", []int{2004, 2004},
		"F", []int{1981, 1996},
	)

	result := Calculate(grouped)
	require.False(t, result.Empty())

	assert.LessOrEqual(t, result.MinInterval, result.MaxInterval)
	assert.NotContains(t, result.MinProducers, "D")
	assert.NotContains(t, result.MaxProducers, "D")
	assert.NotContains(t, result.MinProducers, "E")
	assert.NotContains(t, result.MaxProducers, "E")

	for _, details := range []map[string]domain.IntervalDetail{result.MinDetails, result.MaxDetails} {
		for producer, detail := range details {
			assert.Positive(t, detail.Interval, producer)
			assert.Equal(t, detail.Interval, detail.FollowingWin-detail.PreviousWin, producer)
		}
	}

	assert.Len(t, result.MinDetails, len(result.MinProducers))
	assert.Len(t, result.MaxDetails, len(result.MaxProducers))
	assert.Equal(t, []string{"B"}, result.MinProducers)
	assert.ElementsMatch(t, []string{"A", "F"}, result.MaxProducers)
}

func TestCalculate_Idempotent(t *testing.T) {
	grouped := yearsOf(
		"A", []int{1990, 1991},
		"B", []int{1980, 1999},
		"C", []int{2011, 2012},
	)

	first := Calculate(grouped)
	second := Calculate(grouped)

	assert.Equal(t, first, second)
}
