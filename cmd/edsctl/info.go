package main

import (
	"github.com/spf13/cobra"
)

func newInfoCmd(g *globalFlags) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the sorts, fields, modes, expanders and limiters a profile supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			info, err := c.Info(cmd.Context(), profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.asJSON {
				return writeJSON(out, info)
			}

			var rows [][]string
			crit := info.AvailableSearchCriteria
			for _, s := range crit.AvailableSorts {
				rows = append(rows, []string{"sort", s.ID, s.Label})
			}
			for _, f := range crit.AvailableSearchFields {
				rows = append(rows, []string{"field", f.FieldCode, f.Label})
			}
			for _, m := range crit.AvailableSearchModes {
				rows = append(rows, []string{"mode", m.Mode, m.Label})
			}
			for _, e := range crit.AvailableExpanders {
				rows = append(rows, []string{"expander", e.ID, e.Label})
			}
			for _, l := range crit.AvailableLimiters {
				rows = append(rows, []string{"limiter", l.ID, l.Label})
			}
			return writeTable(out, "KIND\tID\tLABEL", rows)
		},
	}
	cmd.Flags().StringVar(&profile, "for-profile", "", "profile to describe (default the session profile)")
	return cmd
}
