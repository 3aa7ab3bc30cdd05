package coach

import (
	"github.com/MikeSquared-Agency/neuropilot/internal/anthropic"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

// startCue stands in for the user when the partner speaks first.
const startCue = "(The user has just joined. Open the conversation.)"

// messagesFor converts history into Messages API turns. The API wants the
// first turn from the user and alternating roles, so a leading partner turn
// gets the start cue and consecutive turns of one role are merged.
func messagesFor(history []conversation.Turn) []anthropic.Message {
	out := make([]anthropic.Message, 0, len(history)+1)
	for _, t := range history {
		role := string(t.Role)
		if len(out) == 0 && t.Role == conversation.RoleAgent {
			out = append(out, anthropic.Message{Role: string(conversation.RoleUser), Content: startCue})
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content += "\n\n" + t.Content
			continue
		}
		out = append(out, anthropic.Message{Role: role, Content: t.Content})
	}
	if len(out) == 0 {
		out = append(out, anthropic.Message{Role: string(conversation.RoleUser), Content: startCue})
	}
	return out
}
