package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage cached authentication and session tokens",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop cached tokens so the next call authenticates again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g.discover = false
			c, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.ClearTokens(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "tokens cleared")
			return err
		},
	})
	return cmd
}
