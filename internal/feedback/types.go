package feedback

import "github.com/MikeSquared-Agency/neuropilot/internal/rubric"

// ScoreEntry is the evaluation of one dimension.
type ScoreEntry struct {
	Dimension rubric.Dimension `json:"dimension"`
	Score     int              `json:"score"`
	Feedback  string           `json:"feedback"`
}

// Result is a validated evaluation: one entry per dimension, in
// rubric.Dimensions order.
type Result struct {
	Scores            []ScoreEntry     `json:"scores"`
	OverallImpression string           `json:"overall_impression"`
	QuickTip          string           `json:"quick_tip"`
	TipDimension      rubric.Dimension `json:"quick_tip_dimension"`
}

// ScoreMap returns the scores keyed by dimension.
func (r *Result) ScoreMap() map[rubric.Dimension]int {
	m := make(map[rubric.Dimension]int, len(r.Scores))
	for _, e := range r.Scores {
		m[e.Dimension] = e.Score
	}
	return m
}

// Lowest is the dimension the quick tip has to address.
func (r *Result) Lowest() rubric.Dimension {
	return rubric.Lowest(r.ScoreMap())
}

// wireScore and wireResult mirror the JSON the evaluator is asked for.
// Pointers distinguish a missing field from a zero value.
type wireScore struct {
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
}

type wireResult struct {
	Tone              *wireScore `json:"tone"`
	Clarity           *wireScore `json:"clarity"`
	Empathy           *wireScore `json:"empathy"`
	Engagement        *wireScore `json:"engagement"`
	OverallImpression string     `json:"overall_impression"`
	QuickTip          string     `json:"quick_tip"`
	QuickTipDimension string     `json:"quick_tip_dimension"`
}

func (w *wireResult) entry(d rubric.Dimension) *wireScore {
	switch d {
	case rubric.Tone:
		return w.Tone
	case rubric.Clarity:
		return w.Clarity
	case rubric.Empathy:
		return w.Empathy
	case rubric.Engagement:
		return w.Engagement
	}
	return nil
}
