// Package replay reads recorded practice transcripts and runs them back
// through the adaptation engine.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MikeSquared-Agency/neuropilot/internal/adaptive"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

// line is one JSONL record. "ai" and "agent" are accepted for the partner.
type line struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseFile parses a JSONL transcript file.
func ParseFile(path string) ([]conversation.Turn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads one {"role","content"} object per line. Blank lines,
// malformed lines and unknown roles are skipped.
func Parse(r io.Reader) ([]conversation.Turn, error) {
	var turns []conversation.Turn

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var l line
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			continue
		}
		role, ok := parseRole(l.Role)
		if !ok {
			continue
		}
		turns = append(turns, conversation.Turn{Role: role, Content: l.Content})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return turns, nil
}

func parseRole(s string) (conversation.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return conversation.RoleUser, true
	case "assistant", "ai", "agent":
		return conversation.RoleAgent, true
	}
	return "", false
}

// Step is the adaptation outcome for one user turn of a transcript.
type Step struct {
	Index   int             `json:"index"`
	Message string          `json:"message"`
	Result  adaptive.Result `json:"result"`
}

// Run replays the user turns of a transcript against a fresh session state.
func Run(turns []conversation.Turn) []Step {
	state := adaptive.NewSessionState()
	var steps []Step
	for i, t := range turns {
		if t.Role != conversation.RoleUser {
			continue
		}
		steps = append(steps, Step{
			Index:   i,
			Message: t.Content,
			Result:  adaptive.Adapt(state, t.Content),
		})
	}
	return steps
}

// Counts tallies how often each rule fired across steps.
func Counts(steps []Step) map[string]int {
	out := make(map[string]int)
	for _, s := range steps {
		for _, r := range s.Result.Rules {
			out[r]++
		}
	}
	return out
}
