package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/neuropilot/internal/anthropic"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

const (
	evalMaxTokens   = 1024
	inlineMaxTokens = 64
)

// Completer is the text generator the evaluator calls.
type Completer interface {
	Complete(ctx context.Context, system string, messages []anthropic.Message, maxTokens int) (string, error)
}

// Evaluator scores user messages through an LLM.
type Evaluator struct {
	llm    Completer
	logger *slog.Logger
}

func NewEvaluator(llm Completer, logger *slog.Logger) *Evaluator {
	return &Evaluator{llm: llm, logger: logger}
}

// Evaluate scores target in the context of history. A reply that breaks the
// contract comes back as an error wrapping ErrMalformed; it is not retried.
func (e *Evaluator) Evaluate(ctx context.Context, scenarioContext string, history []conversation.Turn, target string) (*Result, error) {
	req := Build(scenarioContext, history, target)

	e.logger.Debug("evaluating message",
		"context", scenarioContext,
		"history_turns", len(history),
		"message_len", len(target),
	)

	raw, err := e.llm.Complete(ctx, req.System, []anthropic.Message{
		{Role: "user", Content: req.User},
	}, evalMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("llm evaluation: %w", err)
	}

	res, err := Parse(raw)
	if err != nil {
		e.logger.Warn("rejected evaluation",
			"error", err,
			"raw", raw,
		)
		return nil, err
	}

	e.logger.Info("evaluation complete",
		"lowest", res.Lowest(),
		"tip_dimension", res.TipDimension,
	)
	return res, nil
}

// Inline asks for a real-time micro tip. ok is false when no tip is needed.
func (e *Evaluator) Inline(ctx context.Context, scenarioContext, message string) (tip string, ok bool, err error) {
	raw, err := e.llm.Complete(ctx, "", []anthropic.Message{
		{Role: "user", Content: BuildInline(scenarioContext, message)},
	}, inlineMaxTokens)
	if err != nil {
		return "", false, fmt.Errorf("llm inline feedback: %w", err)
	}
	tip, ok = ParseInline(raw)
	return tip, ok, nil
}
