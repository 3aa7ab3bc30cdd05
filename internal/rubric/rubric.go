// Package rubric defines the four scoring dimensions, their score bands and
// the bias-correction policy every evaluator must honour.
package rubric

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension is one axis of the evaluation.
type Dimension string

const (
	Tone       Dimension = "tone"
	Clarity    Dimension = "clarity"
	Empathy    Dimension = "empathy"
	Engagement Dimension = "engagement"
)

// Dimensions lists every dimension in tie-break priority order.
var Dimensions = []Dimension{Tone, Clarity, Empathy, Engagement}

const (
	MinScore = 0
	MaxScore = 100
)

var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrScoreOutOfRange  = errors.New("score out of range")
)

// Title returns the display name, e.g. "Tone".
func (d Dimension) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// ParseDimension accepts a dimension name in any case.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Band is a contiguous, inclusive score range.
type Band struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
}

func (b Band) String() string { return fmt.Sprintf("%d-%d", b.Min, b.Max) }

// Bands from best to worst.
var (
	Excellent   = Band{Name: "excellent", Min: 90, Max: 100}
	Good        = Band{Name: "good", Min: 70, Max: 89}
	Developing  = Band{Name: "developing", Min: 50, Max: 69}
	Significant = Band{Name: "significant", Min: 0, Max: 49}

	Bands = []Band{Excellent, Good, Developing, Significant}
)

// BandFor returns the band containing score.
func BandFor(score int) (Band, error) {
	for _, b := range Bands {
		if score >= b.Min && score <= b.Max {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: %d", ErrScoreOutOfRange, score)
}

var criteria = map[Dimension]map[string]string{
	Tone: {
		Excellent.Name:   "Perfectly appropriate tone for context; natural and authentic",
		Good.Name:        "Generally appropriate with minor adjustments possible",
		Developing.Name:  "Noticeable tone mismatch (too formal/casual); needs adjustment",
		Significant.Name: "Significant tone issues; doesn't fit the social context",
	},
	Clarity: {
		Excellent.Name:   "Crystal clear; well-structured; easy to understand",
		Good.Name:        "Clear overall with minor areas that could be clearer",
		Developing.Name:  "Somewhat unclear; rambling or missing key information",
		Significant.Name: "Confusing or very hard to follow",
	},
	Empathy: {
		Excellent.Name:   "Excellent active listening; acknowledges others; thoughtful",
		Good.Name:        "Shows awareness of others; could be more engaged",
		Developing.Name:  "Limited acknowledgment of others; somewhat self-focused",
		Significant.Name: "Ignores others' input; no signs of active listening",
	},
	Engagement: {
		Excellent.Name:   "Great conversation flow; provides hooks; inviting",
		Good.Name:        "Keeps conversation going but could be more dynamic",
		Developing.Name:  "Limited engagement; few conversation hooks",
		Significant.Name: "Dead-end response; conversation stalls",
	},
}

// Criteria returns the band description for a dimension.
func Criteria(d Dimension, b Band) string {
	return criteria[d][b.Name]
}

// Lowest returns the dimension with the minimum score. Ties go to the
// dimension that comes first in Dimensions. Missing dimensions are ignored;
// an empty map returns "".
func Lowest(scores map[Dimension]int) Dimension {
	var lowest Dimension
	best := 0
	for _, d := range Dimensions {
		s, ok := scores[d]
		if !ok {
			continue
		}
		if lowest == "" || s < best {
			lowest, best = d, s
		}
	}
	return lowest
}
