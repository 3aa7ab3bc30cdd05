package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/progress"
)

const (
	SubjectTurnAdapted         = "coach.turn.adapted"
	SubjectFeedbackScored      = "coach.feedback.scored"
	SubjectFeedbackUnavailable = "coach.feedback.unavailable"
	SubjectSessionEnded        = "coach.session.ended"

	// SubjectAll matches every coaching event.
	SubjectAll = "coach.>"
)

// TurnAdapted is emitted after the adaptation rules ran for a user turn.
type TurnAdapted struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	Rules        []string  `json:"rules"`
	Timestamp    time.Time `json:"timestamp"`
}

// FeedbackScored carries a validated evaluation of one user turn.
type FeedbackScored struct {
	SessionID    string          `json:"session_id"`
	MessageCount int             `json:"message_count"`
	Result       feedback.Result `json:"result"`
	Timestamp    time.Time       `json:"timestamp"`
}

// FeedbackUnavailable is emitted when the evaluator reply was rejected or the
// call failed. It never carries partial scores.
type FeedbackUnavailable struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}

// SessionEnded summarises a finished session.
type SessionEnded struct {
	SessionID   string           `json:"session_id"`
	ScenarioKey string           `json:"scenario_key"`
	UserTurns   int              `json:"user_turns"`
	Averages    progress.Summary `json:"averages"`
	Timestamp   time.Time        `json:"timestamp"`
}
