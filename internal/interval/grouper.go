package interval

import (
	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/pscheid92/prizeintervals/internal/domain"
)

// ProducerYears maps producer names to the years they were credited on a
// winning movie. Producers keep the order in which they were first added.
type ProducerYears struct {
	years *linkedhashmap.Map[string, []int]
}

func NewProducerYears() *ProducerYears {
	return &ProducerYears{years: linkedhashmap.New[string, []int]()}
}

// Add records a win for producer. Repeated years are kept.
func (p *ProducerYears) Add(producer string, year int) {
	years, _ := p.years.Get(producer)
	p.years.Put(producer, append(years, year))
}

// Producers returns producer names in first-seen order.
func (p *ProducerYears) Producers() []string {
	return p.years.Keys()
}

// Years returns the win years of producer in the order they were added.
func (p *ProducerYears) Years(producer string) []int {
	years, _ := p.years.Get(producer)
	return years
}

func (p *ProducerYears) Len() int {
	return p.years.Size()
}

// GroupByProducer collects, for every producer credit, the years of the
// movies crediting it. Movies are expected in ascending year order but the
// calculator sorts anyway.
func GroupByProducer(movies []domain.Movie) *ProducerYears {
	grouped := NewProducerYears()
	for _, movie := range movies {
		for _, producer := range movie.Producers {
			grouped.Add(producer, movie.Year)
		}
	}
	return grouped
}
