// Package conversation holds the turn type shared by the adaptation and
// feedback paths.
package conversation

import (
	"fmt"
	"strings"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleAgent Role = "assistant"
	RoleUser  Role = "user"
)

// Label is the speaker prefix used when a turn is embedded in a prompt.
func (r Role) Label() string {
	if r == RoleAgent {
		return "AI"
	}
	return "User"
}

// Turn is one message in a conversation. History slices are chronological.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Tail returns the last n turns, oldest first. The result shares no memory
// with history.
func Tail(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]Turn, len(history))
	copy(out, history)
	return out
}

// Render formats turns one per line as "AI: ..." / "User: ...".
func Render(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role.Label(), t.Content))
	}
	return strings.Join(lines, "\n")
}
