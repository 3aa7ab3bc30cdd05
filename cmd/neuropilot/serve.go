package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/anthropic"
	"github.com/MikeSquared-Agency/neuropilot/internal/api"
	"github.com/MikeSquared-Agency/neuropilot/internal/coach"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/hermes"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
	"github.com/MikeSquared-Agency/neuropilot/internal/store"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the coaching API",
		RunE:  runServe,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.Info("neuropilot starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.AnthropicAPIKey == "" {
		return errors.New("ANTHROPIC_API_KEY is required")
	}
	llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	slog.Info("anthropic client ready", "model", llm.Model())

	cat, err := scenario.Default()
	if err != nil {
		return err
	}

	// Optional collaborators stay nil interfaces when unconfigured.
	var (
		scorer coach.Scorer
		rec    coach.Recorder
		pub    coach.Publisher
	)
	if cfg.Feedback {
		scorer = feedback.NewEvaluator(llm, slog.Default())
	} else {
		slog.Warn("feedback scoring disabled")
	}

	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		rec = db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, sessions will not be persisted")
	}

	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			return err
		}
		defer hermesClient.Close()
		pub = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, events disabled")
	}

	svc := coach.New(cat, llm, scorer, rec, pub, cfg.HistoryLimit, slog.Default())

	srv := api.NewServer(cfg.Port, cfg.APIToken, cfg.AnthropicModel, svc, slog.Default())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("neuropilot ready", "port", cfg.Port, "feedback", cfg.Feedback)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	slog.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	slog.Info("neuropilot stopped")
	return nil
}
