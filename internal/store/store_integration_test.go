//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/rubric"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SessionLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New()
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM practice_sessions WHERE id = $1", id)
	})

	if err := s.WriteSession(ctx, id, "office_lunch", "jordan"); err != nil {
		t.Fatalf("WriteSession failed: %v", err)
	}

	row, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if row.ScenarioKey != "office_lunch" || row.AvatarID != "jordan" {
		t.Errorf("unexpected row %+v", row)
	}
	if row.EndedAt != nil {
		t.Error("expected open session")
	}

	if err := s.EndSession(ctx, id); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	row, err = s.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession after end failed: %v", err)
	}
	if row.EndedAt == nil {
		t.Error("expected ended_at to be set")
	}

	if _, err := s.GetSession(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIntegration_TurnsAndScores(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New()
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM practice_sessions WHERE id = $1", id)
	})

	if err := s.WriteSession(ctx, id, "job_interview", ""); err != nil {
		t.Fatalf("WriteSession failed: %v", err)
	}
	if _, err := s.WriteTurn(ctx, id, 0, conversation.Turn{Role: conversation.RoleAgent, Content: "Welcome!"}, nil); err != nil {
		t.Fatalf("WriteTurn (agent) failed: %v", err)
	}
	turnID, err := s.WriteTurn(ctx, id, 1, conversation.Turn{Role: conversation.RoleUser, Content: "Fine."}, []string{"brevity"})
	if err != nil {
		t.Fatalf("WriteTurn (user) failed: %v", err)
	}

	turns, err := s.Turns(ctx, id)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != 2 || turns[1].Content != "Fine." {
		t.Errorf("unexpected turns %+v", turns)
	}

	res := &feedback.Result{
		Scores: []feedback.ScoreEntry{
			{Dimension: rubric.Engagement, Score: 40, Feedback: "d"},
			{Dimension: rubric.Tone, Score: 70, Feedback: "a"},
			{Dimension: rubric.Clarity, Score: 80, Feedback: "b"},
			{Dimension: rubric.Empathy, Score: 60, Feedback: "c"},
		},
		OverallImpression: "Polite start.",
		QuickTip:          "Ask a follow-up question naturally",
		TipDimension:      rubric.Engagement,
	}
	if _, err := s.WriteFeedback(ctx, id, turnID, res); err != nil {
		t.Fatalf("WriteFeedback failed: %v", err)
	}

	got, err := s.SessionScores(ctx, id)
	if err != nil {
		t.Fatalf("SessionScores failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if len(got[0].Scores) != 4 || got[0].Scores[0].Dimension != rubric.Tone {
		t.Errorf("scores not in rubric order: %+v", got[0].Scores)
	}
	if got[0].Lowest() != rubric.Engagement {
		t.Errorf("lowest = %s", got[0].Lowest())
	}
}
