package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"vinylvault/internal/ingest"
)

func renderSummary(rep ingest.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Catalog ID", "Title", "Artist", "Year", "Status"})

	for _, r := range rep.Outcomes {
		year := ""
		if r.Year > 0 {
			year = strconv.Itoa(r.Year)
		}
		tw.AppendRow(table.Row{r.CatalogID, r.Title, r.Artist, year, r.Status})
	}

	run := rep.Run
	var parts []string
	for _, c := range []struct {
		n     int
		label string
	}{
		{run.Added, ingest.OutcomeAdded},
		{run.Warned, ingest.OutcomeWarning},
		{run.Skipped, ingest.OutcomeExisting},
		{run.Failed, ingest.OutcomeFailed},
	} {
		if c.n > 0 {
			parts = append(parts, strconv.Itoa(c.n)+" "+c.label)
		}
	}
	tw.AppendFooter(table.Row{"", "", "", "", strings.Join(parts, ", ")})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

// parseIDs reads a comma-separated list of catalog release ids. Blank and
// duplicate entries are skipped.
func parseIDs(raw string) ([]int64, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid release id " + strconv.Quote(part))
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
