package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/hermes"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print coaching events from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.NatsURL == "" {
				return errors.New("NATS_URL is required")
			}
			client, err := hermes.NewClient(cmd.Context(), cfg.NatsURL, cfg.NatsToken, slog.Default())
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			if err := client.Subscribe(hermes.SubjectAll, func(subject string, data []byte) {
				fmt.Fprintf(out, "%s %s\n", subject, data)
			}); err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	})
}
