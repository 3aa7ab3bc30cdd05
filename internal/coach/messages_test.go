package coach

import (
	"testing"

	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

func TestMessagesFor(t *testing.T) {
	agent := func(s string) conversation.Turn { return conversation.Turn{Role: conversation.RoleAgent, Content: s} }
	user := func(s string) conversation.Turn { return conversation.Turn{Role: conversation.RoleUser, Content: s} }

	tests := []struct {
		name  string
		in    []conversation.Turn
		roles []string
		last  string
	}{
		{"empty", nil, []string{"user"}, startCue},
		{"agent first", []conversation.Turn{agent("hi"), user("hey")}, []string{"user", "assistant", "user"}, "hey"},
		{"user first", []conversation.Turn{user("hey"), agent("hi")}, []string{"user", "assistant"}, "hi"},
		{"merged", []conversation.Turn{agent("hi"), user("a"), user("b")}, []string{"user", "assistant", "user"}, "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messagesFor(tt.in)
			if len(got) != len(tt.roles) {
				t.Fatalf("got %d messages, want %d: %+v", len(got), len(tt.roles), got)
			}
			for i, r := range tt.roles {
				if got[i].Role != r {
					t.Errorf("message %d role = %s, want %s", i, got[i].Role, r)
				}
			}
			if got[len(got)-1].Content != tt.last {
				t.Errorf("last content = %q, want %q", got[len(got)-1].Content, tt.last)
			}
		})
	}
}
