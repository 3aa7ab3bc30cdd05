package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/rubric"
)

// WriteFeedback stores a validated result and its four scores in one
// transaction.
func (s *Store) WriteFeedback(ctx context.Context, sessionID, turnID uuid.UUID, res *feedback.Result) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO feedback_results (id, session_id, turn_id, overall_impression, quick_tip, quick_tip_dimension, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		id, sessionID, turnID, res.OverallImpression, res.QuickTip, string(res.TipDimension),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert feedback: %w", err)
	}

	for _, e := range res.Scores {
		_, err = tx.Exec(ctx, `
			INSERT INTO feedback_scores (feedback_id, dimension, score, feedback)
			VALUES ($1, $2, $3, $4)`,
			id, string(e.Dimension), e.Score, e.Feedback,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert score %s: %w", e.Dimension, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// SessionScores returns every stored result for a session, oldest first,
// with scores in rubric order.
func (s *Store) SessionScores(ctx context.Context, sessionID uuid.UUID) ([]feedback.Result, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.overall_impression, r.quick_tip, r.quick_tip_dimension,
		       sc.dimension, sc.score, sc.feedback
		FROM feedback_results r
		JOIN feedback_scores sc ON sc.feedback_id = r.id
		WHERE r.session_id = $1
		ORDER BY r.created_at, r.id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var (
		out   []feedback.Result
		index = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var (
			id                uuid.UUID
			impression, tip   string
			tipDim, dimension string
			e                 feedback.ScoreEntry
		)
		if err := rows.Scan(&id, &impression, &tip, &tipDim, &dimension, &e.Score, &e.Feedback); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		e.Dimension = rubric.Dimension(dimension)

		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, feedback.Result{
				OverallImpression: impression,
				QuickTip:          tip,
				TipDimension:      rubric.Dimension(tipDim),
			})
		}
		out[i].Scores = append(out[i].Scores, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Scores = ordered(out[i].Scores)
	}
	return out, nil
}

func ordered(scores []feedback.ScoreEntry) []feedback.ScoreEntry {
	out := make([]feedback.ScoreEntry, 0, len(scores))
	for _, d := range rubric.Dimensions {
		for _, e := range scores {
			if e.Dimension == d {
				out = append(out, e)
			}
		}
	}
	return out
}
