package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kailas-cloud/edsapi"
)

type recordView struct {
	ID               string         `json:"id"`
	Title            string         `json:"title,omitempty"`
	SourceIdentifier string         `json:"source_identifier"`
	Raw              map[string]any `json:"raw,omitempty"`
}

type searchView struct {
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
	Items  []recordView `json:"items"`
}

func viewOf(r edsapi.Record, withRaw bool) recordView {
	v := recordView{ID: r.ID(), Title: r.Title(), SourceIdentifier: r.SourceIdentifier()}
	if withRaw {
		v.Raw = r.Raw()
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, header string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, row := range rows {
		for i, cell := range row {
			sep := "\t"
			if i == len(row)-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprint(tw, cell, sep); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
