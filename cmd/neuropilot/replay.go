package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/replay"
)

func init() {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "replay [transcript.jsonl]",
		Short: "Replay a recorded transcript through the adaptation rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := replay.ParseFile(args[0])
			if err != nil {
				return err
			}
			steps := replay.Run(turns)

			out := cmd.OutOrStdout()
			if asJSON {
				b, _ := json.MarshalIndent(steps, "", "  ")
				fmt.Fprintln(out, string(b))
				return nil
			}
			for _, s := range steps {
				rules := strings.Join(s.Result.Rules, ",")
				if rules == "" {
					rules = "-"
				}
				fmt.Fprintf(out, "#%-3d len=%-4d %-24s %s\n", s.Result.Count, s.Result.Signals.Length, rules, preview(s.Message, 50))
			}

			counts := replay.Counts(steps)
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "\n%d user turns\n", len(steps))
			for _, name := range names {
				fmt.Fprintf(out, "  %-12s %d\n", name, counts[name])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print every step as JSON")
	rootCmd.AddCommand(cmd)
}

func preview(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-3]) + "..."
}
