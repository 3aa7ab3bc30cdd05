package adaptive

import (
	"strings"
	"testing"
)

func TestCompose_Empty(t *testing.T) {
	if got := Compose(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := Compose([]Directive{}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCompose_PreservesOrder(t *testing.T) {
	got := Compose([]Directive{"first", "second", "third"})
	want := "\n\nCURRENT ADAPTATIONS:\n- first\n- second\n- third"
	if got != want {
		t.Errorf("Compose = %q, want %q", got, want)
	}
}

func TestCompose_OneBulletPerDirective(t *testing.T) {
	sig := Signals{Bucket: BucketLong, EnthusiasmHit: true}
	out := Compose(Evaluate(sig, 1))
	if n := strings.Count(out, "\n- "); n != 2 {
		t.Errorf("expected 2 bullets, got %d in %q", n, out)
	}
	if strings.Index(out, "Match their depth") > strings.Index(out, "Match their positive energy") {
		t.Error("directives rendered out of order")
	}
}
