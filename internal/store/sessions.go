package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
)

type SessionRow struct {
	ID          uuid.UUID
	ScenarioKey string
	AvatarID    string
	StartedAt   time.Time
	EndedAt     *time.Time
}

// WriteSession records the start of a practice session.
func (s *Store) WriteSession(ctx context.Context, id uuid.UUID, scenarioKey, avatarID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO practice_sessions (id, scenario_key, avatar_id, started_at)
		VALUES ($1, $2, $3, now())`,
		id, scenarioKey, avatarID,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// EndSession stamps ended_at. Ending an already ended session is a no-op.
func (s *Store) EndSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE practice_sessions SET ended_at = now()
		WHERE id = $1 AND ended_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// GetSession fetches a session by ID.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*SessionRow, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, scenario_key, avatar_id, started_at, ended_at
		FROM practice_sessions WHERE id = $1`, id)

	var r SessionRow
	if err := row.Scan(&r.ID, &r.ScenarioKey, &r.AvatarID, &r.StartedAt, &r.EndedAt); err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// WriteTurn appends one turn. rules lists the adaptation rules that fired for
// a user turn and is empty for partner turns.
func (s *Store) WriteTurn(ctx context.Context, sessionID uuid.UUID, seq int, t conversation.Turn, rules []string) (uuid.UUID, error) {
	if rules == nil {
		rules = []string{}
	}
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO practice_turns (id, session_id, seq, role, content, rules)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, sessionID, seq, string(t.Role), t.Content, rules,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert turn: %w", err)
	}
	return id, nil
}

// Turns returns the session's turns in order.
func (s *Store) Turns(ctx context.Context, sessionID uuid.UUID) ([]conversation.Turn, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT role, content FROM practice_turns
		WHERE session_id = $1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []conversation.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		out = append(out, conversation.Turn{Role: conversation.Role(role), Content: content})
	}
	return out, rows.Err()
}
