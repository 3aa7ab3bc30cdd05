package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/MikeSquared-Agency/neuropilot/internal/rubric"
)

// ErrMalformed marks an evaluator reply that does not satisfy the scoring
// contract. Such replies are rejected whole; no score is ever defaulted.
var ErrMalformed = errors.New("malformed evaluation")

// NoTip is what the inline evaluator answers when nothing needs changing.
const NoTip = "NONE"

// Parse decodes and validates an evaluator reply.
func Parse(raw string) (*Result, error) {
	var w wireResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &w); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformed, err)
	}

	res := &Result{
		OverallImpression: strings.TrimSpace(w.OverallImpression),
		QuickTip:          strings.TrimSpace(w.QuickTip),
	}
	for _, d := range rubric.Dimensions {
		e := w.entry(d)
		if e == nil || e.Score == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformed, d)
		}
		s := *e.Score
		if s != math.Trunc(s) {
			return nil, fmt.Errorf("%w: %s score %v is not an integer", ErrMalformed, d, s)
		}
		if s < rubric.MinScore || s > rubric.MaxScore {
			return nil, fmt.Errorf("%w: %s score %v outside [%d,%d]", ErrMalformed, d, s, rubric.MinScore, rubric.MaxScore)
		}
		res.Scores = append(res.Scores, ScoreEntry{
			Dimension: d,
			Score:     int(s),
			Feedback:  strings.TrimSpace(e.Feedback),
		})
	}

	if res.OverallImpression == "" {
		return nil, fmt.Errorf("%w: empty overall_impression", ErrMalformed)
	}
	if res.QuickTip == "" {
		return nil, fmt.Errorf("%w: empty quick_tip", ErrMalformed)
	}
	tipDim, err := rubric.ParseDimension(w.QuickTipDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: quick_tip_dimension: %v", ErrMalformed, err)
	}
	res.TipDimension = tipDim

	if err := Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate checks the invariants of a Result built outside Parse.
func Validate(r *Result) error {
	seen := make(map[rubric.Dimension]bool, len(rubric.Dimensions))
	for _, e := range r.Scores {
		if _, err := rubric.ParseDimension(string(e.Dimension)); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if seen[e.Dimension] {
			return fmt.Errorf("%w: duplicate %s", ErrMalformed, e.Dimension)
		}
		seen[e.Dimension] = true
		if _, err := rubric.BandFor(e.Score); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, e.Dimension, err)
		}
	}
	for _, d := range rubric.Dimensions {
		if !seen[d] {
			return fmt.Errorf("%w: missing %s", ErrMalformed, d)
		}
	}
	if lowest := r.Lowest(); r.TipDimension != lowest {
		return fmt.Errorf("%w: quick tip targets %s but lowest score is %s", ErrMalformed, r.TipDimension, lowest)
	}
	return nil
}

// ParseInline returns the micro tip, or ok=false when the evaluator said NONE.
func ParseInline(raw string) (tip string, ok bool) {
	tip = strings.Trim(strings.TrimSpace(raw), `"'`)
	if tip == "" || strings.EqualFold(strings.TrimRight(tip, "."), NoTip) {
		return "", false
	}
	return tip, true
}
