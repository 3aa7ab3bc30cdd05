// Package feedback builds scoring requests for an external evaluator and
// validates what comes back.
package feedback

import (
	"fmt"

	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

// HistoryWindow is how many recent turns the evaluator sees.
const HistoryWindow = 4

// Request is the pair of instructions for one evaluator call.
type Request struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Build assembles the scoring request for target. Only the last
// HistoryWindow turns of history are embedded. target need not be the last
// turn in history.
func Build(context string, history []conversation.Turn, target string) Request {
	recent := conversation.Tail(history, HistoryWindow)
	return Request{
		System: systemPrompt,
		User:   fmt.Sprintf(userPromptTemplate, context, conversation.Render(recent), target),
	}
}

// BuildForScenario resolves the scenario context through the catalog before
// building. An unknown key is an error naming the key.
func BuildForScenario(cat *scenario.Catalog, key string, history []conversation.Turn, target string) (Request, error) {
	s, err := cat.Scenario(key)
	if err != nil {
		return Request{}, err
	}
	return Build(s.Context, history, target), nil
}

// BuildInline returns the single prompt for a real-time micro tip.
func BuildInline(context, message string) string {
	return fmt.Sprintf(inlinePromptTemplate, message, context)
}
