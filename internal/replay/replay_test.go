package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/neuropilot/internal/adaptive"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

const transcript = `{"role":"assistant","content":"Hey! Grab a seat."}
{"role":"user","content":"` + "I went to the park with my dog and we walked around the whole lake for hours, it was lovely" + `"}

not json
{"role":"system","content":"ignored"}
{"role":"ai","content":"That sounds lovely."}
{"role":"user","content":"yeah it was nice and sunny out"}
{"role":"user","content":"ok"}
`

func TestParse(t *testing.T) {
	turns, err := Parse(strings.NewReader(transcript))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(turns) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(turns))
	}
	if turns[0].Role != conversation.RoleAgent || turns[2].Role != conversation.RoleAgent {
		t.Errorf("partner roles not normalised: %+v", turns)
	}
	if turns[4].Content != "ok" {
		t.Errorf("unexpected last turn %+v", turns[4])
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		t.Fatal(err)
	}
	turns, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(turns) != 5 {
		t.Errorf("expected 5 turns, got %d", len(turns))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRun(t *testing.T) {
	turns, _ := Parse(strings.NewReader(transcript))
	steps := Run(turns)

	if len(steps) != 3 {
		t.Fatalf("expected 3 user steps, got %d", len(steps))
	}
	for i, s := range steps {
		if s.Result.Count != i+1 {
			t.Errorf("step %d count = %d", i, s.Result.Count)
		}
		if turns[s.Index].Role != conversation.RoleUser {
			t.Errorf("step %d points at a partner turn", i)
		}
	}

	last := steps[2].Result
	if len(last.Rules) != 1 || last.Rules[0] != adaptive.RuleBrevity {
		t.Errorf("last step rules = %v, want [brevity]", last.Rules)
	}

	counts := Counts(steps)
	if counts[adaptive.RuleBrevity] != 1 {
		t.Errorf("brevity count = %d", counts[adaptive.RuleBrevity])
	}
}
