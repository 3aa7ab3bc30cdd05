// Package adaptive turns rolling conversation signals into style directives
// for the practice partner's next reply.
package adaptive

import (
	"strings"
	"unicode/utf8"
)

// LengthBucket classifies a message by character count.
type LengthBucket string

const (
	BucketShort  LengthBucket = "short"
	BucketNormal LengthBucket = "normal"
	BucketLong   LengthBucket = "long"
)

const (
	// WindowSize is how many recent user message lengths a session tracks.
	WindowSize = 3

	shortBelow   = 20
	longAbove    = 200
	declineRatio = 0.5
)

// Marker sets are matched as substrings of the lower-cased message.
var (
	anxietyMarkers    = []string{"sorry", "um", "uh", "i think", "maybe", "not sure", "probably"}
	enthusiasmMarkers = []string{"!", "love", "excited", "amazing", "awesome", "great"}
	exitMarkers       = []string{"should go", "gotta run", "thanks for", "bye", "later", "take care"}
)

// SessionState is the per-session record the extractor reads and updates.
// It is not safe for concurrent use; the host serializes turns of one session.
type SessionState struct {
	MessageCount  int   `json:"message_count"`
	RecentLengths []int `json:"recent_lengths"`
}

// NewSessionState returns the state of a session that has seen no user turns.
func NewSessionState() *SessionState {
	return &SessionState{RecentLengths: make([]int, 0, WindowSize)}
}

// Signals are the features extracted from one user message.
type Signals struct {
	Length        int          `json:"length"`
	AvgRecent     float64      `json:"avg_recent,omitempty"`
	HasAverage    bool         `json:"has_average"`
	Bucket        LengthBucket `json:"bucket"`
	Declining     bool         `json:"declining"`
	AnxietyHit    bool         `json:"anxiety_hit"`
	EnthusiasmHit bool         `json:"enthusiasm_hit"`
	ExitHit       bool         `json:"exit_hit"`
}

// Extract computes the signals for message against the window as it is now.
// It does not modify state.
func Extract(state SessionState, message string) Signals {
	length := utf8.RuneCountInString(message)
	lower := strings.ToLower(message)

	sig := Signals{
		Length:        length,
		Bucket:        bucketFor(length),
		AnxietyHit:    containsAny(lower, anxietyMarkers),
		EnthusiasmHit: containsAny(lower, enthusiasmMarkers),
		ExitHit:       containsAny(lower, exitMarkers),
	}

	recent := state.RecentLengths
	if len(recent) > 0 {
		sum := 0
		for _, n := range recent {
			sum += n
		}
		sig.AvgRecent = float64(sum) / float64(len(recent))
		sig.HasAverage = true
	}

	// Newest against oldest only. A single short outlier is enough to trip this.
	if len(recent) >= WindowSize {
		sig.Declining = float64(recent[len(recent)-1]) < float64(recent[0])*declineRatio
	}

	return sig
}

// Observe extracts signals for a new user message and then records it:
// the length joins the window (evicting the oldest) and the count goes up by one.
func (s *SessionState) Observe(message string) Signals {
	sig := Extract(*s, message)
	s.record(sig.Length)
	return sig
}

func (s *SessionState) record(length int) {
	s.RecentLengths = append(s.RecentLengths, length)
	if over := len(s.RecentLengths) - WindowSize; over > 0 {
		s.RecentLengths = append(s.RecentLengths[:0], s.RecentLengths[over:]...)
	}
	s.MessageCount++
}

func bucketFor(length int) LengthBucket {
	switch {
	case length < shortBelow:
		return BucketShort
	case length > longAbove:
		return BucketLong
	default:
		return BucketNormal
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
