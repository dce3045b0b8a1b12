package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/edsapi"
)

func newRetrieveCmd(g *globalFlags) *cobra.Command {
	var (
		highlight string
		raw       bool
	)
	cmd := &cobra.Command{
		Use:   "retrieve <database-id,accession-number>",
		Short: "Fetch one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			r, err := c.Retrieve(cmd.Context(), args[0], edsapi.RetrieveParams{HighlightTerms: highlight})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.asJSON || raw {
				return writeJSON(out, viewOf(r, raw))
			}
			_, err = fmt.Fprintf(out, "%s\t%s\n", r.ID(), r.Title())
			return err
		},
	}
	cmd.Flags().StringVar(&highlight, "highlight", "", "terms to highlight in the record")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the full record document as JSON")
	return cmd
}
