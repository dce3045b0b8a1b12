package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/edsapi"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var (
		field     string
		offset    int
		limit     int
		sort      string
		mode      string
		filters   []string
		limiters  []string
		expanders []string
		facets    []string
		facetOr   bool
	)
	cmd := &cobra.Command{
		Use:   "search <terms>...",
		Short: "Search the profile and list matching records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := buildQuery(field, args)
			fs, err := parseFilters(filters)
			if err != nil {
				return err
			}

			c, err := g.newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			if limit <= 0 {
				limit = c.Options().DefaultLimit()
			}
			sp := edsapi.SearchParams{
				Sort:      sort,
				Mode:      mode,
				Filters:   fs,
				Limiters:  limiters,
				Expanders: expanders,
			}
			for _, f := range facets {
				sp.Facets = append(sp.Facets, edsapi.Facet{Spec: f, Or: facetOr})
			}

			res, err := c.Search(cmd.Context(), q, offset, limit, sp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.asJSON {
				view := searchView{Total: res.TotalHits(), Offset: offset, Limit: limit, Items: []recordView{}}
				for _, r := range res.Records() {
					view.Items = append(view.Items, viewOf(r, false))
				}
				return writeJSON(out, view)
			}

			rows := make([][]string, 0, res.Len())
			for _, r := range res.Records() {
				rows = append(rows, []string{r.ID(), r.Title()})
			}
			if err := writeTable(out, "ID\tTITLE", rows); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d of %d hits\n", res.Len(), res.TotalHits())
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&field, "field", "", "field code to search (default all fields)")
	f.IntVar(&offset, "offset", 0, "index of the first result")
	f.IntVar(&limit, "limit", 0, "results per page (default from the profile)")
	f.StringVar(&sort, "sort", "", "sort id, e.g. date")
	f.StringVar(&mode, "mode", "", "how words combine: all, any, bool, smart")
	f.StringArrayVar(&filters, "filter", nil, "facet filter field:value (repeatable)")
	f.StringArrayVar(&limiters, "limiter", nil, "limiter id:value (repeatable)")
	f.StringArrayVar(&expanders, "expander", nil, "expander id (repeatable)")
	f.StringArrayVar(&facets, "facet", nil, "facet to count (repeatable)")
	f.BoolVar(&facetOr, "facet-or", false, "combine facet filters with OR")
	return cmd
}

// buildQuery joins the arguments into one term. Use --mode to choose how
// the service combines the words.
func buildQuery(field string, args []string) edsapi.Query {
	return edsapi.Term(field, strings.Join(args, " "))
}

func parseFilters(raw []string) ([]edsapi.Filter, error) {
	out := make([]edsapi.Filter, 0, len(raw))
	for _, f := range raw {
		field, value, ok := strings.Cut(f, ":")
		if !ok || field == "" || value == "" {
			return nil, fmt.Errorf("--filter must be field:value, got %q", f)
		}
		out = append(out, edsapi.Filter{Field: field, Value: value})
	}
	return out, nil
}
