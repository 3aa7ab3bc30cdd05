package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/anthropic"
	"github.com/MikeSquared-Agency/neuropilot/internal/conversation"
	"github.com/MikeSquared-Agency/neuropilot/internal/feedback"
	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

func init() {
	var (
		scenarioKey string
		history     []string
	)

	promptCmd := &cobra.Command{
		Use:   "feedback-prompt [message]",
		Short: "Print the evaluator instructions for a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(scenarioKey, history, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "=== SYSTEM ===\n%s\n\n=== USER ===\n%s\n", req.System, req.User)
			return nil
		},
	}

	scoreCmd := &cobra.Command{
		Use:   "score [message]",
		Short: "Score a message with the evaluator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.AnthropicAPIKey == "" {
				return errors.New("ANTHROPIC_API_KEY is required")
			}
			cat, err := scenario.Default()
			if err != nil {
				return err
			}
			scn, err := cat.Scenario(scenarioKey)
			if err != nil {
				return err
			}
			turns, err := parseHistory(history)
			if err != nil {
				return err
			}

			llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
			res, err := feedback.NewEvaluator(llm, slog.Default()).Evaluate(cmd.Context(), scn.Context, turns, args[0])
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	for _, c := range []*cobra.Command{promptCmd, scoreCmd} {
		c.Flags().StringVarP(&scenarioKey, "scenario", "s", "office_lunch", "scenario key")
		c.Flags().StringArrayVar(&history, "turn", nil, `prior turn as "AI: ..." or "User: ..." (repeatable, oldest first)`)
		rootCmd.AddCommand(c)
	}
}

func buildRequest(key string, history []string, message string) (feedback.Request, error) {
	cat, err := scenario.Default()
	if err != nil {
		return feedback.Request{}, err
	}
	turns, err := parseHistory(history)
	if err != nil {
		return feedback.Request{}, err
	}
	return feedback.BuildForScenario(cat, key, turns, message)
}

func parseHistory(lines []string) ([]conversation.Turn, error) {
	turns := make([]conversation.Turn, 0, len(lines))
	for _, line := range lines {
		label, content, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("turn %q: want \"AI: ...\" or \"User: ...\"", line)
		}
		var role conversation.Role
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "ai", "assistant":
			role = conversation.RoleAgent
		case "user":
			role = conversation.RoleUser
		default:
			return nil, fmt.Errorf("turn %q: unknown speaker %q", line, label)
		}
		turns = append(turns, conversation.Turn{Role: role, Content: strings.TrimSpace(content)})
	}
	return turns, nil
}
