package adaptive

import "fmt"

// Directive is a short instruction steering the style of the next reply.
type Directive string

// Rule names, in evaluation order.
const (
	RuleBrevity     = "brevity"
	RuleDepth       = "depth"
	RuleFatigue     = "fatigue"
	RuleReassurance = "reassurance"
	RuleEnergy      = "energy"
	RuleCheckpoint  = "checkpoint"
	RuleWindDown    = "wind_down"
	RuleClosure     = "closure"
)

const windDownFrom = 20

var checkpoints = map[int]bool{5: true, 10: true, 15: true}

type rule struct {
	name      string
	applies   func(sig Signals, count int) bool
	directive func(count int) Directive
}

func fixed(d Directive) func(int) Directive {
	return func(int) Directive { return d }
}

// rules are independent toggles; none suppresses another.
var rules = []rule{
	{
		name:    RuleBrevity,
		applies: func(sig Signals, _ int) bool { return sig.Bucket == BucketShort },
		directive: fixed("User is sending very brief messages. Respond with 1-2 short sentences. " +
			"Keep questions simple and direct."),
	},
	{
		name:    RuleDepth,
		applies: func(sig Signals, _ int) bool { return sig.Bucket == BucketLong },
		directive: fixed("User is sending detailed messages. Match their depth. Show you're reading " +
			"carefully by referencing specific details they mentioned."),
	},
	{
		name:    RuleFatigue,
		applies: func(sig Signals, _ int) bool { return sig.Declining },
		directive: fixed("User's message length is decreasing - they may be getting tired. " +
			"Consider offering a natural pause point soon."),
	},
	{
		name:      RuleReassurance,
		applies:   func(sig Signals, _ int) bool { return sig.AnxietyHit },
		directive: fixed("User shows signs of uncertainty. Provide extra reassurance and lower pressure."),
	},
	{
		name:      RuleEnergy,
		applies:   func(sig Signals, _ int) bool { return sig.EnthusiasmHit },
		directive: fixed("User is showing enthusiasm! Match their positive energy."),
	},
	{
		name:    RuleCheckpoint,
		applies: func(_ Signals, count int) bool { return checkpoints[count] },
		directive: func(count int) Directive {
			return Directive(fmt.Sprintf("Natural checkpoint (message #%d). Consider weaving in a subtle "+
				"check-in or offering option to continue/pause.", count))
		},
	},
	{
		name:    RuleWindDown,
		applies: func(_ Signals, count int) bool { return count >= windDownFrom },
		directive: fixed("Long conversation. Gently suggest wrapping up or taking a break unless " +
			"user is clearly still engaged."),
	},
	{
		name:      RuleClosure,
		applies:   func(sig Signals, _ int) bool { return sig.ExitHit },
		directive: fixed("User is signaling they want to end. Provide warm closure and celebrate their practice."),
	},
}

// Evaluate runs every rule in order and returns the directives that fired.
// messageCount is the number of user turns including the one being answered.
func Evaluate(sig Signals, messageCount int) []Directive {
	var out []Directive
	for _, r := range rules {
		if r.applies(sig, messageCount) {
			out = append(out, r.directive(messageCount))
		}
	}
	return out
}

// Fired returns the names of the rules that fire, in evaluation order.
func Fired(sig Signals, messageCount int) []string {
	var names []string
	for _, r := range rules {
		if r.applies(sig, messageCount) {
			names = append(names, r.name)
		}
	}
	return names
}
