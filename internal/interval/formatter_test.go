package interval

import (
	"encoding/json"
	"testing"

	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_SortsByProducer(t *testing.T) {
	result := Result{
		MinInterval:  1,
		MaxInterval:  18,
		MinProducers: []string{"Yoram Globus", "Wyck Godfrey"},
		MaxProducers: []string{"Jerry Weintraub"},
		MinDetails: map[string]domain.IntervalDetail{
			"Yoram Globus": {Interval: 1, PreviousWin: 1986, FollowingWin: 1987},
			"Wyck Godfrey": {Interval: 1, PreviousWin: 2011, FollowingWin: 2012},
		},
		MaxDetails: map[string]domain.IntervalDetail{
			"Jerry Weintraub": {Interval: 18, PreviousWin: 1980, FollowingWin: 1998},
		},
	}

	out := Format(result)

	assert.Equal(t, []domain.ProducerInterval{
		{Producer: "Wyck Godfrey", Interval: 1, PreviousWin: 2011, FollowingWin: 2012},
		{Producer: "Yoram Globus", Interval: 1, PreviousWin: 1986, FollowingWin: 1987},
	}, out.Min)
	assert.Equal(t, []domain.ProducerInterval{
		{Producer: "Jerry Weintraub", Interval: 18, PreviousWin: 1980, FollowingWin: 1998},
	}, out.Max)
}

func TestFormat_EmptyEncodesAsArrays(t *testing.T) {
	out := Format(Calculate(NewProducerYears()))

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":[],"max":[]}`, string(encoded))
}

func TestCompute_Pipeline(t *testing.T) {
	movies := []domain.Movie{
		{Title: "Can't Stop the Music", Year: 1980, Producers: []string{"Allan Carr"}, Winner: true},
		{Title: "The Adventures of Ford Fairlane", Year: 1990, Producers: []string{"Steve Perry", "Joel Silver"}, Winner: true},
		{Title: "Hudson Hawk", Year: 1991, Producers: []string{"Joel Silver"}, Winner: true},
		{Title: "Swept Away", Year: 2002, Producers: []string{"Matthew Vaughn"}, Winner: true},
		{Title: "Fantastic Four", Year: 2015, Producers: []string{"Simon Kinberg", "Matthew Vaughn"}, Winner: true},
	}

	out := Compute(movies)

	assert.Equal(t, []domain.ProducerInterval{
		{Producer: "Joel Silver", Interval: 1, PreviousWin: 1990, FollowingWin: 1991},
	}, out.Min)
	assert.Equal(t, []domain.ProducerInterval{
		{Producer: "Matthew Vaughn", Interval: 13, PreviousWin: 2002, FollowingWin: 2015},
	}, out.Max)
}

func TestCompute_JSONShape(t *testing.T) {
	out := Compute([]domain.Movie{
		{Year: 1980, Producers: []string{"Jerry Weintraub"}},
		{Year: 1998, Producers: []string{"Jerry Weintraub"}},
	})

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"min": [{"producer": "Jerry Weintraub", "interval": 18, "previousWin": 1980, "followingWin": 1998}],
		"max": [{"producer": "Jerry Weintraub", "interval": 18, "previousWin": 1980, "followingWin": 1998}]
	}`, string(encoded))
}
