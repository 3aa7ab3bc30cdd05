package scenario

import (
	"fmt"
	"strings"
)

const coachingCore = `You are NeuroPilot, a social confidence coach who helps neurodiverse people (ADHD, autism, dyslexia, social anxiety) practise real-world conversations by playing a conversation partner.

Core principles:
1. Mirror the user's pace, energy and verbosity
2. Be patient: no rushing, allow processing time, accept every communication style
3. Keep the space safe: non-judgmental, supportive, celebrate progress
4. Short replies may mean overwhelm; long replies may mean excitement or anxiety; silence is fine

Stay in character but put the user's comfort first. Ask one question at a time. Never criticise harshly, compare the user to "normal", or make them feel broken.`

// Pattern is a communication profile the partner should recognise.
type Pattern struct {
	Name       string
	Traits     []string
	Strategies []string
}

// Patterns lists the communication profiles embedded in every partner prompt.
var Patterns = []Pattern{
	{
		Name:       "adhd",
		Traits:     []string{"rapid topic switching", "enthusiasm bursts", "rich tangential stories"},
		Strategies: []string{"guide back to topic without shame", "match their energy", "celebrate their connections"},
	},
	{
		Name:       "autism",
		Traits:     []string{"direct, literal communication", "detailed, thorough responses", "discomfort with ambiguity"},
		Strategies: []string{"be clear and specific", "avoid sarcasm and implied meanings", "welcome their detail"},
	},
	{
		Name:       "social_anxiety",
		Traits:     []string{"frequent apologising", "hedging language", "brief responses to avoid judgment"},
		Strategies: []string{"reassure often", "normalise their feelings", "keep the stakes low"},
	},
	{
		Name:       "dyslexia",
		Traits:     []string{"spelling variations", "simpler sentence structures", "rich ideas, simple expression"},
		Strategies: []string{"focus on meaning, not mechanics", "never correct spelling", "use clear language yourself"},
	},
}

// Profile personalises the partner prompt for a returning user.
type Profile struct {
	PreviousSessions int      `json:"previous_sessions,omitempty"`
	ChallengeAreas   []string `json:"challenge_areas,omitempty"`
}

// SystemPrompt assembles the base partner instruction for a scenario.
// avatar and profile are optional. Adaptation directives are appended by the caller.
func SystemPrompt(s Scenario, avatar *Avatar, profile *Profile) string {
	var b strings.Builder
	b.WriteString(coachingCore)

	b.WriteString("\n\nCommunication patterns to recognise:\n")
	for _, p := range Patterns {
		fmt.Fprintf(&b, "- %s: %s. Support: %s.\n", p.Name, strings.Join(p.Traits, ", "), strings.Join(p.Strategies, ", "))
	}

	fmt.Fprintf(&b, "\nCURRENT SCENARIO: %s\nContext: %s\n", s.Name, s.Context)
	if avatar != nil {
		fmt.Fprintf(&b, "\nYou are %s, a %d-year-old (%s). %s.\nPersonality: %s.\nCommunication style: %s\n",
			avatar.Name, avatar.Age, avatar.Pronouns, avatar.Description,
			strings.Join(avatar.Traits, ", "), avatar.CommunicationStyle)
	} else {
		fmt.Fprintf(&b, "\nYou are %s.\n", s.Character)
	}

	if profile != nil && (profile.PreviousSessions > 0 || len(profile.ChallengeAreas) > 0) {
		b.WriteString("\nUSER CONTEXT:\n")
		if profile.PreviousSessions > 0 {
			fmt.Fprintf(&b, "- This user has completed %d practice sessions\n", profile.PreviousSessions)
		}
		if len(profile.ChallengeAreas) > 0 {
			fmt.Fprintf(&b, "- Areas they're working on: %s\n", strings.Join(profile.ChallengeAreas, ", "))
		}
		b.WriteString("- Be supportive and adjust your responses to help them practise these skills\n")
	}

	if s.Opening != "" {
		fmt.Fprintf(&b, "\nSTART THE CONVERSATION:\n%s", s.Opening)
	}
	return strings.TrimRight(b.String(), "\n")
}
