package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/catalog"
	"github.com/gchen/shorttrack-results/pkg/classifier"
	"github.com/gchen/shorttrack-results/pkg/db"
	"github.com/gchen/shorttrack-results/pkg/extract"
	"github.com/gchen/shorttrack-results/pkg/fetcher"
	"github.com/gchen/shorttrack-results/pkg/merge"
	"github.com/gchen/shorttrack-results/pkg/pdftext"
	"github.com/gchen/shorttrack-results/pkg/storage"
)

// Job is one catalog entry handed to a worker. Index preserves catalog order
// so results can be reassembled deterministically.
type Job struct {
	Index int
	Entry models.CatalogEntry
}

// Result is the outcome of one job.
type Result struct {
	Index      int
	Entry      models.CatalogEntry
	Path       string
	Downloaded bool
	SizeBytes  int64
	Results    []models.RawResult
	Stats      extract.PageStats
	Pages      int
	Skipped    int // pages with an unrecognized layout
	Error      error
	ErrorType  string
}

// run fans the catalog entries out over a fixed worker pool and returns the
// results in catalog order.
func run(logger *slog.Logger, cfg *models.Config, f *fetcher.Fetcher, database *db.DB, runID int64, entries []models.CatalogEntry, parse, force bool) ([]Result, error) {
	logger.Info("Starting concurrent phase", "competitions", len(entries), "workers", cfg.Workers, "parse", parse, "force", force)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(entries))
	results := make(chan Result, len(entries))

	for w := 1; w <= cfg.Workers; w++ {
		wg.Add(1)
		go worker(w, logger, cfg, f, database, runID, &wg, jobs, results, parse, force)
	}

	for i, entry := range entries {
		jobs <- Job{Index: i, Entry: entry}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All workers finished")

	allResults := make([]Result, 0, len(entries))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more competitions failed")
		}
	}
	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, runErr
}

func worker(id int, logger *slog.Logger, cfg *models.Config, f *fetcher.Fetcher, database *db.DB, runID int64, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result, parse, force bool) {
	defer wg.Done()
	st := &storage.Storage{}

	for job := range jobs {
		comp := job.Entry.Competition
		logger.Info("Worker started job", "worker_id", id, "competition", comp.Name, "season", job.Entry.Season)

		result := Result{Index: job.Index, Entry: job.Entry}
		result.Path = catalog.PDFPath(cfg.PDFDir, job.Entry)

		if force || !st.HasFile(result.Path) || st.FileSize(result.Path) < cfg.MinPDFBytes {
			url := fetcher.RepairURL(comp.PDFURL)
			size, err := f.DownloadPDF(url, result.Path)
			if err != nil {
				logger.Error("Error downloading PDF", "worker_id", id, "competition", comp.Name, "url", url, "error", err)
				result.Error = err
				result.ErrorType = fetchErrorType(err)
				recordFetch(logger, database, runID, url, comp.Name, 0, 0, result.ErrorType, false)
				results <- result
				continue
			}
			result.Downloaded = true
			result.SizeBytes = size
			recordFetch(logger, database, runID, url, comp.Name, 200, size, "", true)
		} else {
			logger.Info("PDF found on disk, reusing it", "worker_id", id, "competition", comp.Name)
			result.SizeBytes = st.FileSize(result.Path)
		}

		if parse {
			parsePDF(id, logger, cfg, database, runID, &result)
		}

		results <- result
		logger.Info("Worker finished job", "worker_id", id, "competition", comp.Name, "results", len(result.Results))
	}
}

// parsePDF extracts, classifies, and dedupes one competition document into
// result.Results.
func parsePDF(id int, logger *slog.Logger, cfg *models.Config, database *db.DB, runID int64, result *Result) {
	comp := result.Entry.Competition

	pages, err := pdftext.Pages(result.Path)
	if err != nil {
		logger.Error("Error reading PDF text", "worker_id", id, "competition", comp.Name, "error", err)
		result.Error = err
		result.ErrorType = "pdf_error"
		return
	}
	result.Pages = len(pages)

	var raw []models.RawResult
	for n, text := range pages {
		layout := classifier.Classify(text)
		if layout == classifier.Unknown {
			result.Skipped++
			continue
		}

		pageResults, stats := extract.Page(text, layout)
		result.Stats.Add(stats)
		if stats.Unmatched > 0 {
			logger.Warn("Unmatched lines on page", "worker_id", id, "competition", comp.Name, "page", n+1, "layout", layout.String(), "unmatched", stats.Unmatched)
			recordRejection(logger, database, runID, "extract", "unmatched_line", models.SourceOfficialPDF, comp.Name,
				fmt.Sprintf("page %d: %d unmatched lines", n+1, stats.Unmatched))
		}
		raw = append(raw, pageResults...)
	}

	for i := range raw {
		raw[i].Competition = comp.Name
		raw[i].Date = comp.Date
		raw[i].Season = result.Entry.Season
		raw[i].Source = models.SourceOfficialPDF
	}

	raw = merge.BestPerGroup(raw)

	kept := raw[:0]
	for _, r := range raw {
		if isArtifactDistance(r.Distance, cfg.Validate.ArtifactDistances) {
			kept = append(kept, r)
		}
	}
	result.Results = kept
}

func isArtifactDistance(distance string, wanted []string) bool {
	d := strings.ToLower(strings.TrimSpace(distance))
	for _, w := range wanted {
		if d == w {
			return true
		}
	}
	return false
}

// fetchErrorType buckets a download error for the diagnostics DB.
func fetchErrorType(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "too small"):
		return "too_small"
	case strings.Contains(msg, "not a PDF"):
		return "not_pdf"
	case strings.Contains(msg, "status code"):
		return "http"
	default:
		return "network"
	}
}

func recordFetch(logger *slog.Logger, database *db.DB, runID int64, url, competition string, statusCode int, sizeBytes int64, errorType string, success bool) {
	if database == nil {
		return
	}
	if err := database.RecordFetch(runID, url, competition, statusCode, sizeBytes, errorType, success); err != nil {
		logger.Warn("Failed to record fetch to DB", "url", url, "error", err)
	}
}

func recordRejection(logger *slog.Logger, database *db.DB, runID int64, stage, reason, source, competition, detail string) {
	if database == nil {
		return
	}
	if err := database.RecordRejection(runID, stage, reason, source, competition, detail); err != nil {
		logger.Warn("Failed to record rejection to DB", "stage", stage, "reason", reason, "error", err)
	}
}
