package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/adaptive"
)

func init() {
	var (
		count   int
		lengths string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "adapt [message]",
		Short: "Show the adaptation directives for a message",
		Long: "Runs the adaptation rules for one user message against a session state " +
			"given by --count (user messages so far) and --lengths (recent message lengths, oldest first).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseLengths(lengths)
			if err != nil {
				return err
			}
			state := &adaptive.SessionState{MessageCount: count, RecentLengths: window}
			res := adaptive.Adapt(state, args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				b, _ := json.MarshalIndent(res, "", "  ")
				fmt.Fprintln(out, string(b))
				return nil
			}
			fmt.Fprintf(out, "message #%d  length=%d  bucket=%s  rules=%s\n",
				res.Count, res.Signals.Length, res.Signals.Bucket, strings.Join(res.Rules, ","))
			if res.Instruction == "" {
				fmt.Fprintln(out, "(no adaptations)")
				return nil
			}
			fmt.Fprintln(out, strings.TrimLeft(res.Instruction, "\n"))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "user messages already in the session")
	cmd.Flags().StringVar(&lengths, "lengths", "", "comma-separated recent message lengths, oldest first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(cmd)
}

// parseLengths keeps only the last adaptive.WindowSize values.
func parseLengths(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid length %q", part)
		}
		out = append(out, n)
	}
	if len(out) > adaptive.WindowSize {
		out = out[len(out)-adaptive.WindowSize:]
	}
	return out, nil
}
