package interval

import (
	"testing"

	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestGroupByProducer_MultipleCredits(t *testing.T) {
	movies := []domain.Movie{
		{Title: "First", Year: 1990, Producers: []string{"A", "B"}, Winner: true},
		{Title: "Second", Year: 1991, Producers: []string{"B"}, Winner: true},
		{Title: "Third", Year: 1995, Producers: []string{"C", "A"}, Winner: true},
	}

	grouped := GroupByProducer(movies)

	assert.Equal(t, []string{"A", "B", "C"}, grouped.Producers())
	assert.Equal(t, []int{1990, 1995}, grouped.Years("A"))
	assert.Equal(t, []int{1990, 1991}, grouped.Years("B"))
	assert.Equal(t, []int{1995}, grouped.Years("C"))
	assert.Equal(t, 3, grouped.Len())
}

func TestGroupByProducer_KeepsDuplicateYears(t *testing.T) {
	movies := []domain.Movie{
		{Year: 1990, Producers: []string{"X"}},
		{Year: 1990, Producers: []string{"X"}},
	}

	grouped := GroupByProducer(movies)

	assert.Equal(t, []int{1990, 1990}, grouped.Years("X"))
}

func TestGroupByProducer_EmptyProducers(t *testing.T) {
	movies := []domain.Movie{
		{Title: "Orphan", Year: 2000},
		{Title: "Also orphan", Year: 2001, Producers: []string{}},
	}

	grouped := GroupByProducer(movies)

	assert.Equal(t, 0, grouped.Len())
	assert.Empty(t, grouped.Producers())
}

func TestGroupByProducer_CaseSensitiveNames(t *testing.T) {
	movies := []domain.Movie{
		{Year: 1990, Producers: []string{"joel silver"}},
		{Year: 1991, Producers: []string{"Joel Silver"}},
	}

	grouped := GroupByProducer(movies)

	assert.Equal(t, []string{"joel silver", "Joel Silver"}, grouped.Producers())
}

func TestGroupByProducer_UnknownProducer(t *testing.T) {
	grouped := GroupByProducer(nil)
	assert.Nil(t, grouped.Years("nobody"))
}
