package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/progress"
	"github.com/MikeSquared-Agency/neuropilot/internal/store"
)

// scoreSource is the slice of the store the progress report reads.
type scoreSource interface {
	GetSession(ctx context.Context, id uuid.UUID) (*store.SessionRow, error)
	SessionScores(ctx context.Context, sessionID uuid.UUID) ([]feedback.Result, error)
}

type turnSource interface {
	GetSession(ctx context.Context, id uuid.UUID) (*store.SessionRow, error)
	Turns(ctx context.Context, sessionID uuid.UUID) ([]conversation.Turn, error)
}

type sessionReport struct {
	ID       uuid.UUID        `json:"id"`
	Scenario string           `json:"scenario"`
	Avatar   string           `json:"avatar"`
	Overall  float64          `json:"overall"`
	Summary  progress.Summary `json:"summary"`
}

type progressReport struct {
	Previous sessionReport   `json:"previous"`
	Current  sessionReport   `json:"current"`
	Change   progress.Change `json:"change"`
}

func init() {
	var prevID, curID string
	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Compare stored scores of two sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := uuid.Parse(prevID)
			if err != nil {
				return fmt.Errorf("--prev: %w", err)
			}
			cur, err := uuid.Parse(curID)
			if err != nil {
				return fmt.Errorf("--cur: %w", err)
			}
			db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			rep, err := compareSessions(cmd.Context(), db, prev, cur)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(rep, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	progressCmd.Flags().StringVar(&prevID, "prev", "", "earlier session ID")
	progressCmd.Flags().StringVar(&curID, "cur", "", "later session ID")
	progressCmd.MarkFlagRequired("prev")
	progressCmd.MarkFlagRequired("cur")

	exportCmd := &cobra.Command{
		Use:   "export [session-id]",
		Short: "Write a stored session as a replayable JSONL transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("session id: %w", err)
			}
			db, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return exportTranscript(cmd.Context(), db, id, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(progressCmd, exportCmd)
}

func openStore(ctx context.Context) (*store.Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return store.New(ctx, cfg.DatabaseURL)
}

func compareSessions(ctx context.Context, src scoreSource, prev, cur uuid.UUID) (*progressReport, error) {
	p, err := loadReport(ctx, src, prev)
	if err != nil {
		return nil, err
	}
	c, err := loadReport(ctx, src, cur)
	if err != nil {
		return nil, err
	}
	return &progressReport{
		Previous: p,
		Current:  c,
		Change:   progress.Trend(p.Summary, c.Summary),
	}, nil
}

func loadReport(ctx context.Context, src scoreSource, id uuid.UUID) (sessionReport, error) {
	row, err := src.GetSession(ctx, id)
	if err != nil {
		return sessionReport{}, fmt.Errorf("session %s: %w", id, err)
	}
	results, err := src.SessionScores(ctx, id)
	if err != nil {
		return sessionReport{}, fmt.Errorf("scores for %s: %w", id, err)
	}
	sum := progress.Averages(results)
	return sessionReport{
		ID:       row.ID,
		Scenario: row.ScenarioKey,
		Avatar:   row.AvatarID,
		Overall:  sum.Overall(),
		Summary:  sum,
	}, nil
}

// exportTranscript writes one {"role","content"} line per turn, the format
// the replay command reads.
func exportTranscript(ctx context.Context, src turnSource, id uuid.UUID, w io.Writer) error {
	if _, err := src.GetSession(ctx, id); err != nil {
		return fmt.Errorf("session %s: %w", id, err)
	}
	turns, err := src.Turns(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, t := range turns {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("write turn: %w", err)
		}
	}
	return nil
}
