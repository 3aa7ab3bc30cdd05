// Package coach runs practice sessions: it adapts the partner to each user
// turn, voices the partner, scores the turn and records the outcome.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/neuropilot/internal/adaptive"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/hermes"
	"github.com/MikeSquared-Agency/neuropilot/internal/progress"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

var (
	// ErrGeneration wraps failures to produce a partner reply.
	ErrGeneration = errors.New("partner reply failed")
	// ErrFeedback wraps failures of an on-demand tip request.
	ErrFeedback = errors.New("feedback request failed")
)

const (
	replyMaxTokens      = 512
	defaultHistoryLimit = 20
)

// Feedback status of a turn.
const (
	FeedbackScored      = "scored"
	FeedbackUnavailable = "unavailable"
	FeedbackDisabled    = "disabled"
)

// Scorer evaluates user messages. *feedback.Evaluator satisfies it.
type Scorer interface {
	Evaluate(ctx context.Context, scenarioContext string, history []conversation.Turn, target string) (*feedback.Result, error)
	Inline(ctx context.Context, scenarioContext, message string) (string, bool, error)
}

// Recorder persists sessions. *store.Store satisfies it.
type Recorder interface {
	WriteSession(ctx context.Context, id uuid.UUID, scenarioKey, avatarID string) error
	WriteTurn(ctx context.Context, sessionID uuid.UUID, seq int, t conversation.Turn, rules []string) (uuid.UUID, error)
	WriteFeedback(ctx context.Context, sessionID, turnID uuid.UUID, res *feedback.Result) (uuid.UUID, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Publisher emits events. *hermes.Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Service owns the live sessions. scorer, rec and pub are optional.
type Service struct {
	catalog      *scenario.Catalog
	llm          feedback.Completer
	scorer       Scorer
	rec          Recorder
	pub          Publisher
	sessions     *Registry
	historyLimit int
	logger       *slog.Logger
}

func New(cat *scenario.Catalog, llm feedback.Completer, scorer Scorer, rec Recorder, pub Publisher, historyLimit int, logger *slog.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{
		catalog:      cat,
		llm:          llm,
		scorer:       scorer,
		rec:          rec,
		pub:          pub,
		sessions:     NewRegistry(),
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Catalog returns the scenario catalog sessions are started from.
func (s *Service) Catalog() *scenario.Catalog { return s.catalog }

// ActiveSessions reports the number of live sessions.
func (s *Service) ActiveSessions() int { return s.sessions.Len() }

// StartRequest selects the scenario and optional avatar and profile.
type StartRequest struct {
	Scenario string            `json:"scenario"`
	Avatar   string            `json:"avatar,omitempty"`
	Profile  *scenario.Profile `json:"profile,omitempty"`
}

type Started struct {
	SessionID uuid.UUID         `json:"session_id"`
	Scenario  scenario.Scenario `json:"scenario"`
	Avatar    *scenario.Avatar  `json:"avatar,omitempty"`
	Opening   string            `json:"opening"`
}

// StartSession resolves the scenario, has the partner open the conversation
// and registers the session.
func (s *Service) StartSession(ctx context.Context, req StartRequest) (*Started, error) {
	scn, err := s.catalog.Scenario(req.Scenario)
	if err != nil {
		return nil, err
	}
	var avatar *scenario.Avatar
	if req.Avatar != "" {
		a, err := s.catalog.Avatar(req.Avatar)
		if err != nil {
			return nil, err
		}
		avatar = &a
	}

	sess := &session{
		id:       uuid.New(),
		scenario: scn,
		avatarID: req.Avatar,
		system:   scenario.SystemPrompt(scn, avatar, req.Profile),
		state:    adaptive.NewSessionState(),
	}

	opening, err := s.llm.Complete(ctx, sess.system, messagesFor(nil), replyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	sess.history = append(sess.history, conversation.Turn{Role: conversation.RoleAgent, Content: opening})

	if s.rec != nil {
		if err := s.rec.WriteSession(ctx, sess.id, scn.Key, req.Avatar); err != nil {
			s.logger.Error("failed to persist session", "session_id", sess.id, "error", err)
		} else {
			s.recordTurn(ctx, sess.id, 0, sess.history[0], nil)
		}
	}

	s.sessions.add(sess)
	s.logger.Info("session started",
		"session_id", sess.id,
		"scenario", scn.Key,
		"avatar", req.Avatar,
	)
	return &Started{SessionID: sess.id, Scenario: scn, Avatar: avatar, Opening: opening}, nil
}

// TurnResult is the outcome of one user turn.
type TurnResult struct {
	SessionID      uuid.UUID            `json:"session_id"`
	MessageCount   int                  `json:"message_count"`
	Rules          []string             `json:"rules"`
	Directives     []adaptive.Directive `json:"directives"`
	Reply          string               `json:"reply"`
	FeedbackStatus string               `json:"feedback_status"`
	Feedback       *feedback.Result     `json:"feedback,omitempty"`
}

// HandleTurn processes one user message. Turns of the same session are
// serialized. If the partner reply fails the user turn still counts.
func (s *Service) HandleTurn(ctx context.Context, id uuid.UUID, message string) (*TurnResult, error) {
	sess, err := s.sessions.lock(id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	userTurn := conversation.Turn{Role: conversation.RoleUser, Content: message}
	userSeq := len(sess.history)
	sess.history = append(sess.history, userTurn)

	adapt := adaptive.Adapt(sess.state, message)
	s.logger.Debug("turn adapted",
		"session_id", id,
		"message_count", adapt.Count,
		"rules", adapt.Rules,
	)
	s.publish(hermes.SubjectTurnAdapted, hermes.TurnAdapted{
		SessionID:    id.String(),
		MessageCount: adapt.Count,
		Rules:        adapt.Rules,
		Timestamp:    time.Now().UTC(),
	})

	var userTurnID uuid.UUID
	if s.rec != nil {
		userTurnID = s.recordTurn(ctx, id, userSeq, userTurn, adapt.Rules)
	}

	recent := conversation.Tail(sess.history, s.historyLimit)
	reply, err := s.llm.Complete(ctx, sess.system+adapt.Instruction, messagesFor(recent), replyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	res := &TurnResult{
		SessionID:    id,
		MessageCount: adapt.Count,
		Rules:        adapt.Rules,
		Directives:   adapt.Directives,
		Reply:        reply,
	}

	res.FeedbackStatus, res.Feedback = s.score(ctx, sess, adapt.Count, message)
	if res.Feedback != nil && s.rec != nil && userTurnID != uuid.Nil {
		if _, err := s.rec.WriteFeedback(ctx, id, userTurnID, res.Feedback); err != nil {
			s.logger.Error("failed to persist feedback", "session_id", id, "error", err)
		}
	}

	agentTurn := conversation.Turn{Role: conversation.RoleAgent, Content: reply}
	if s.rec != nil {
		s.recordTurn(ctx, id, len(sess.history), agentTurn, nil)
	}
	sess.history = append(sess.history, agentTurn)

	return res, nil
}

// score runs the evaluator on the user message just appended to history. A
// rejected or failed evaluation yields FeedbackUnavailable and no scores.
func (s *Service) score(ctx context.Context, sess *session, count int, message string) (string, *feedback.Result) {
	if s.scorer == nil {
		return FeedbackDisabled, nil
	}

	result, err := s.scorer.Evaluate(ctx, sess.scenario.Context, sess.history, message)
	if err != nil {
		s.logger.Warn("feedback unavailable",
			"session_id", sess.id,
			"malformed", errors.Is(err, feedback.ErrMalformed),
			"error", err,
		)
		s.publish(hermes.SubjectFeedbackUnavailable, hermes.FeedbackUnavailable{
			SessionID:    sess.id.String(),
			MessageCount: count,
			Reason:       err.Error(),
			Timestamp:    time.Now().UTC(),
		})
		return FeedbackUnavailable, nil
	}

	sess.results = append(sess.results, *result)
	s.publish(hermes.SubjectFeedbackScored, hermes.FeedbackScored{
		SessionID:    sess.id.String(),
		MessageCount: count,
		Result:       *result,
		Timestamp:    time.Now().UTC(),
	})
	return FeedbackScored, result
}

// Tip asks for a real-time micro tip on a draft message. It does not touch
// session state. ok is false when no tip is needed or feedback is disabled.
func (s *Service) Tip(ctx context.Context, id uuid.UUID, draft string) (tip string, ok bool, err error) {
	sess, err := s.sessions.get(id)
	if err != nil {
		return "", false, err
	}
	if s.scorer == nil {
		return "", false, nil
	}
	tip, ok, err = s.scorer.Inline(ctx, sess.scenario.Context, draft)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrFeedback, err)
	}
	return tip, ok, nil
}

// Summary describes a session's scored turns.
type Summary struct {
	SessionID   uuid.UUID         `json:"session_id"`
	ScenarioKey string            `json:"scenario"`
	UserTurns   int               `json:"user_turns"`
	Averages    progress.Summary  `json:"averages"`
	Weakest     string            `json:"weakest,omitempty"`
	Results     []feedback.Result `json:"results"`
}

// Scores summarises a live session without ending it.
func (s *Service) Scores(id uuid.UUID) (*Summary, error) {
	sess, err := s.sessions.lock(id)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	return summarize(sess), nil
}

// EndSession closes the session, drops its in-memory state and returns its
// summary.
func (s *Service) EndSession(ctx context.Context, id uuid.UUID) (*Summary, error) {
	sess, err := s.sessions.lock(id)
	if err != nil {
		return nil, err
	}
	sess.ended = true
	sum := summarize(sess)
	sess.mu.Unlock()
	s.sessions.remove(id)

	if s.rec != nil {
		if err := s.rec.EndSession(ctx, id); err != nil {
			s.logger.Error("failed to persist session end", "session_id", id, "error", err)
		}
	}
	s.publish(hermes.SubjectSessionEnded, hermes.SessionEnded{
		SessionID:   id.String(),
		ScenarioKey: sum.ScenarioKey,
		UserTurns:   sum.UserTurns,
		Averages:    sum.Averages,
		Timestamp:   time.Now().UTC(),
	})

	s.logger.Info("session ended",
		"session_id", id,
		"user_turns", sum.UserTurns,
		"scored", len(sum.Results),
	)
	return sum, nil
}

func summarize(sess *session) *Summary {
	results := make([]feedback.Result, len(sess.results))
	copy(results, sess.results)
	avg := progress.Averages(results)
	return &Summary{
		SessionID:   sess.id,
		ScenarioKey: sess.scenario.Key,
		UserTurns:   sess.state.MessageCount,
		Averages:    avg,
		Weakest:     string(avg.Weakest()),
		Results:     results,
	}
}

func (s *Service) recordTurn(ctx context.Context, id uuid.UUID, seq int, t conversation.Turn, rules []string) uuid.UUID {
	turnID, err := s.rec.WriteTurn(ctx, id, seq, t, rules)
	if err != nil {
		s.logger.Error("failed to persist turn", "session_id", id, "seq", seq, "error", err)
		return uuid.Nil
	}
	return turnID
}

func (s *Service) publish(subject string, data any) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
