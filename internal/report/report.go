// Package report renders human-readable summary tables for the CLI commands.
// Tables go to stdout; structured logs go to stderr.
package report

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gchen/shorttrack-results/models"
)

// DownloadRow is one competition's outcome in a download run.
type DownloadRow struct {
	Competition string
	Season      string
	Status      string
	SizeBytes   int64
}

// ParseRow is one competition's outcome in a parse run.
type ParseRow struct {
	Competition string
	Season      string
	Pages       int
	Results     int
	Unmatched   int
	Failed      bool
	ErrorType   string
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	return t
}

// CatalogSummary prints one row per season of the scraped catalog.
func CatalogSummary(cat *models.Catalog) {
	t := newTable()
	t.AppendHeader(table.Row{"Season", "Competitions"})
	for _, season := range cat.Seasons {
		t.AppendRow(table.Row{season.Season, len(season.Competitions)})
	}
	t.AppendFooter(table.Row{"Total", cat.TotalPDFs})
	t.Render()
}

// DownloadSummary prints the outcome of a download run.
func DownloadSummary(rows []DownloadRow) {
	t := newTable()
	t.AppendHeader(table.Row{"Competition", "Season", "Status", "Size"})
	downloaded, reused, failed := 0, 0, 0
	for _, r := range rows {
		switch r.Status {
		case "downloaded":
			downloaded++
		case "reused":
			reused++
		default:
			failed++
		}
		t.AppendRow(table.Row{r.Competition, r.Season, r.Status, r.SizeBytes})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d new / %d reused / %d failed", downloaded, reused, failed), ""})
	t.Render()
}

// ParseSummary prints per-competition extraction counts of a parse run.
func ParseSummary(rows []ParseRow, totalResults int) {
	t := newTable()
	t.AppendHeader(table.Row{"Competition", "Season", "Pages", "Results", "Unmatched"})
	for _, r := range rows {
		if r.Failed {
			t.AppendRow(table.Row{r.Competition, r.Season, "-", "failed: " + r.ErrorType, "-"})
			continue
		}
		t.AppendRow(table.Row{r.Competition, r.Season, r.Pages, r.Results, r.Unmatched})
	}
	t.AppendFooter(table.Row{"Total", "", "", totalResults, ""})
	t.Render()
}

// TrendsSummary prints the merge outcome.
func TrendsSummary(records []models.SkaterRecord, matched, roster int) {
	t := newTable()
	t.AppendHeader(table.Row{"Skater", "Distances", "Records"})
	for _, rec := range records {
		total := 0
		for _, timeline := range rec.Timelines {
			total += len(timeline)
		}
		t.AppendRow(table.Row{rec.Name, len(rec.Timelines), total})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d roster athletes matched", matched, roster), "", len(records)})
	t.Render()
}

// ValidationSummary prints per-athlete validation statuses.
func ValidationSummary(rep *models.ValidationReport) {
	t := newTable()
	t.AppendHeader(table.Row{"Athlete", "Results", "Matches", "Discrepancies", "Status"})
	for _, s := range rep.Summary {
		t.AppendRow(table.Row{s.Name, s.SecondaryResults, s.Matches, s.Discrepancies, s.Status})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d athletes", rep.AthletesValidated), "",
		rep.TotalMatches, rep.TotalDiscrepancies, "",
	})
	t.Render()
}
