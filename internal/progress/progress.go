// Package progress aggregates scored turns into per-dimension averages and
// compares sessions.
package progress

import (
	"math"

	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/rubric"
)

// Summary is the per-dimension mean over Count scored turns.
type Summary struct {
	Count  int                          `json:"count"`
	Scores map[rubric.Dimension]float64 `json:"scores,omitempty"`
}

// Averages returns the mean score per dimension, rounded to one decimal.
// An empty input yields a zero Summary.
func Averages(results []feedback.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	sums := make(map[rubric.Dimension]int, len(rubric.Dimensions))
	for _, r := range results {
		for _, e := range r.Scores {
			sums[e.Dimension] += e.Score
		}
	}
	s := Summary{Count: len(results), Scores: make(map[rubric.Dimension]float64, len(rubric.Dimensions))}
	for _, d := range rubric.Dimensions {
		s.Scores[d] = round1(float64(sums[d]) / float64(len(results)))
	}
	return s
}

// Overall is the mean of the dimension averages.
func (s Summary) Overall() float64 {
	if s.Count == 0 {
		return 0
	}
	var total float64
	for _, d := range rubric.Dimensions {
		total += s.Scores[d]
	}
	return round1(total / float64(len(rubric.Dimensions)))
}

// Weakest is the dimension with the lowest average, ties broken in
// rubric.Dimensions order. Empty summaries have no weakest dimension.
func (s Summary) Weakest() rubric.Dimension {
	if s.Count == 0 {
		return ""
	}
	return pick(s.Scores, func(a, b float64) bool { return a < b })
}

// Change compares two sessions.
type Change struct {
	Deltas       map[rubric.Dimension]float64 `json:"deltas"`
	MostImproved rubric.Dimension             `json:"most_improved,omitempty"`
	Weakest      rubric.Dimension             `json:"weakest,omitempty"`
}

// Trend compares cur against prev. MostImproved is empty when no dimension
// went up.
func Trend(prev, cur Summary) Change {
	c := Change{
		Deltas:  make(map[rubric.Dimension]float64, len(rubric.Dimensions)),
		Weakest: cur.Weakest(),
	}
	if prev.Count == 0 || cur.Count == 0 {
		return c
	}
	for _, d := range rubric.Dimensions {
		c.Deltas[d] = round1(cur.Scores[d] - prev.Scores[d])
	}
	if best := pick(c.Deltas, func(a, b float64) bool { return a > b }); c.Deltas[best] > 0 {
		c.MostImproved = best
	}
	return c
}

// pick walks dimensions in priority order so earlier ones win ties.
func pick(m map[rubric.Dimension]float64, better func(a, b float64) bool) rubric.Dimension {
	best := rubric.Dimensions[0]
	for _, d := range rubric.Dimensions[1:] {
		if better(m[d], m[best]) {
			best = d
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
