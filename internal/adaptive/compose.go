package adaptive

import "strings"

const composeHeader = "CURRENT ADAPTATIONS:"

// Compose renders directives as a block to append to a base instruction.
// No directives renders as the empty string.
func Compose(directives []Directive) string {
	if len(directives) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(composeHeader)
	for _, d := range directives {
		b.WriteString("\n- ")
		b.WriteString(string(d))
	}
	return b.String()
}

// Result is everything the engine produced for one user turn.
type Result struct {
	Signals     Signals     `json:"signals"`
	Rules       []string    `json:"rules"`
	Directives  []Directive `json:"directives"`
	Instruction string      `json:"instruction"`
	Count       int         `json:"message_count"`
}

// Adapt observes message on state and returns the directives for the reply to it.
func Adapt(state *SessionState, message string) Result {
	sig := state.Observe(message)
	count := state.MessageCount
	directives := Evaluate(sig, count)
	return Result{
		Signals:     sig,
		Rules:       Fired(sig, count),
		Directives:  directives,
		Instruction: Compose(directives),
		Count:       count,
	}
}
