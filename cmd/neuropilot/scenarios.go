package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/neuropilot/internal/scenario"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "scenarios",
		Short: "List practice scenarios and avatars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := scenario.Default()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tDIFFICULTY\tCONTEXT")
			for _, s := range cat.Scenarios {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Key, s.Difficulty, s.Context)
			}
			fmt.Fprintln(w, "\nAVATAR\tBEST FOR\tTRAITS")
			for _, a := range cat.Avatars {
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.BestFor, strings.Join(a.Traits[:min(2, len(a.Traits))], ", "))
			}
			return w.Flush()
		},
	})
}
