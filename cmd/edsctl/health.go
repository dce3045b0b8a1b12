package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newHealthCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the token store and the remote search service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g.discover = false
			c, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			h := c.Health(cmd.Context())
			out := cmd.OutOrStdout()
			if g.asJSON {
				if err := writeJSON(out, h); err != nil {
					return err
				}
			} else {
				names := make([]string, 0, len(h.Checks))
				for name := range h.Checks {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, h.Checks[name]})
				}
				if err := writeTable(out, "CHECK\tSTATUS", rows); err != nil {
					return err
				}
			}
			if h.Status != "ok" {
				return fmt.Errorf("status %s", h.Status)
			}
			return nil
		},
	}
}
