package rubric

import (
	"fmt"
	"strings"
)

// Protection is a communication trait that must not lower a dimension's score.
type Protection struct {
	Dimension Dimension `json:"dimension"`
	Trait     string    `json:"trait"`
}

// BiasPolicy is part of the scoring contract, not a style hint.
var BiasPolicy = []Protection{
	{Clarity, "atypical spelling or grammar (focus on ideas, not mechanics)"},
	{Clarity, "rich tangential detail (detail is not rambling)"},
	{Clarity, "slower or hedged phrasing"},
	{Tone, "a naturally formal register when it does not clash with the context"},
	{Empathy, "direct or literal phrasing (honesty is not rudeness)"},
	{Empathy, "sharing information instead of asking questions"},
}

// Protections returns the traits protected on one dimension.
func Protections(d Dimension) []string {
	var out []string
	for _, p := range BiasPolicy {
		if p.Dimension == d {
			out = append(out, p.Trait)
		}
	}
	return out
}

// Render formats the bands, criteria and bias policy for an evaluator prompt.
func Render() string {
	var b strings.Builder
	b.WriteString("SCORING BANDS (inclusive):\n")
	for _, d := range Dimensions {
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(string(d)))
		for _, band := range Bands {
			fmt.Fprintf(&b, "  %s: %s\n", band, Criteria(d, band))
		}
	}
	b.WriteString("\nBIAS CORRECTION (never lower a score for these):\n")
	for _, d := range Dimensions {
		traits := Protections(d)
		if len(traits) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(string(d)))
		for _, t := range traits {
			fmt.Fprintf(&b, "  - %s\n", t)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
