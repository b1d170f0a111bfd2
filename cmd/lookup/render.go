package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JonMunkholm/settlements/internal/core"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// writeTable prints the page as a bordered table followed by the page
// indicator.
func writeTable(w io.Writer, res core.Result) error {
	if res.Total == 0 {
		_, err := fmt.Fprintln(w, "No settlements match.")
		return err
	}

	headers := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		headers[i] = f.Label()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, rec := range res.Records {
		t.Row(rec.Values()...)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, pageLine(res))
	return err
}

// pageLine describes the position within the result, e.g.
// "page 2/3 · rows 51-100 of 120".
func pageLine(res core.Result) string {
	if res.Total == 0 {
		return "page 1/1 · 0 rows"
	}
	first := res.Offset() + 1
	last := res.Offset() + len(res.Records)
	return fmt.Sprintf("page %d/%d · rows %d-%d of %d", res.Page, res.TotalPages, first, last, res.Total)
}

type jsonResult struct {
	Records    []core.Record       `json:"records"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Facets     map[string][]string `json:"facets"`
	Dataset    core.DatasetInfo    `json:"dataset"`
}

func writeJSON(w io.Writer, res core.Result, ds *core.Dataset) error {
	facets := make(map[string][]string, len(core.FacetFields))
	for _, f := range core.FacetFields {
		facets[f.Key()] = res.Facets[f]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		Records:    res.Records,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Facets:     facets,
		Dataset:    ds.Info(),
	})
}

// writeCSV uses field keys as the header so the output is a loadable dataset.
func writeCSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		header[i] = f.Key()
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
