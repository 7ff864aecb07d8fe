// Package pipeline orchestrates the CLI commands: catalog scraping, PDF
// download, parsing, timeline merging, and cross-validation.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/gchen/shorttrack-results/internal/report"
	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/catalog"
	"github.com/gchen/shorttrack-results/pkg/db"
	"github.com/gchen/shorttrack-results/pkg/fetcher"
	"github.com/gchen/shorttrack-results/pkg/merge"
	"github.com/gchen/shorttrack-results/pkg/normalize"
	"github.com/gchen/shorttrack-results/pkg/storage"
	"github.com/gchen/shorttrack-results/pkg/validate"
)

// Artifact filenames under the output directory.
const (
	ResultsArtifactName    = "uss_all_results.json"
	TrendsArtifactName     = "skater_time_trends.json"
	ValidationArtifactName = "cross_validation_results.json"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func loadConfig(c *cli.Context, logger *slog.Logger) *models.Config {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("seasons") {
		cfg.Seasons = c.StringSlice("seasons")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if err := normalize.ValidateBuckets(cfg.Normalize); err != nil {
		logger.Error("invalid distance bucket configuration", "error", err)
		os.Exit(2)
	}
	return cfg
}

func newFetcher(cfg *models.Config) *fetcher.Fetcher {
	return fetcher.New(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, cfg.MinPDFBytes)
}

func openDB(cfg *models.Config, logger *slog.Logger) *db.DB {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	return database
}

func beginRun(database *db.DB, logger *slog.Logger, command string) int64 {
	runID, err := database.BeginRun(command)
	if err != nil {
		logger.Warn("failed to begin run", "command", command, "error", err)
	}
	return runID
}

func finishRun(database *db.DB, logger *slog.Logger, runID int64, failed bool, total, failures int) {
	status := "ok"
	if failed {
		status = "failed"
	}
	if err := database.FinishRun(runID, status, total, failures); err != nil {
		logger.Warn("failed to finish run", "run_id", runID, "error", err)
	}
}

// CatalogAction scrapes the results listing page and writes the competition
// catalog JSON.
func CatalogAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)

	url := cfg.ResultsURL
	if c.IsSet("url") {
		url = c.String("url")
	}

	f := newFetcher(cfg)
	logger.Info("Scraping results page", "url", url)
	html, err := f.GetPage(url)
	if err != nil {
		logger.Error("failed to fetch results page", "url", url, "error", err)
		os.Exit(1)
	}

	comps, err := catalog.ScrapePage(html)
	if err != nil {
		logger.Error("failed to scrape results page", "error", err)
		os.Exit(1)
	}
	logger.Info("Found PDF links", "count", len(comps))

	// Repair the malformed concatenated asset URLs at catalog time so every
	// downstream consumer sees clean links.
	for i := range comps {
		comps[i].PDFURL = fetcher.RepairURL(comps[i].PDFURL)
	}

	cat := catalog.BuildCatalog(comps)
	cat.ScrapedAt = time.Now().UTC().Format(time.RFC3339)
	cat.TotalPDFs = len(comps)

	outPath := cfg.CatalogPath
	if c.IsSet("output") {
		outPath = c.String("output")
	}
	if err := catalog.Save(outPath, cat); err != nil {
		logger.Error("failed to save catalog", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Catalog written", "path", outPath, "seasons", len(cat.Seasons), "pdfs", cat.TotalPDFs)

	report.CatalogSummary(cat)
	return nil
}

// DownloadAction downloads every short_track PDF in the catalog.
func DownloadAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	entries := cat.ShortTrackEntries(cfg.Seasons)
	if len(entries) == 0 {
		logger.Error("no short track competitions in catalog for requested seasons", "seasons", cfg.Seasons)
		os.Exit(1)
	}

	database := openDB(cfg, logger)
	defer database.Close()
	runID := beginRun(database, logger, "download")

	f := newFetcher(cfg)
	results, runErr := run(logger, cfg, f, database, runID, entries, false, c.Bool("force"))

	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
		}
	}
	finishRun(database, logger, runID, runErr != nil, len(results), failures)

	rows := make([]report.DownloadRow, 0, len(results))
	for _, r := range results {
		status := "reused"
		if r.Error != nil {
			status = "failed: " + r.ErrorType
		} else if r.Downloaded {
			status = "downloaded"
		}
		rows = append(rows, report.DownloadRow{
			Competition: r.Entry.Competition.Name,
			Season:      r.Entry.Season,
			Status:      status,
			SizeBytes:   r.SizeBytes,
		})
	}
	report.DownloadSummary(rows)
	if runErr != nil {
		logger.Warn("some downloads failed", "failed", failures, "total", len(results))
	}
	return nil
}

// ParseAction parses every short_track PDF and writes the results artifact.
func ParseAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	entries := cat.ShortTrackEntries(cfg.Seasons)
	if len(entries) == 0 {
		logger.Error("no short track competitions in catalog for requested seasons", "seasons", cfg.Seasons)
		os.Exit(1)
	}

	database := openDB(cfg, logger)
	defer database.Close()
	runID := beginRun(database, logger, "parse")

	f := newFetcher(cfg)
	results, runErr := run(logger, cfg, f, database, runID, entries, true, c.Bool("force"))

	artifact := buildResultsArtifact(cfg, results)

	st := &storage.Storage{}
	outPath := filepath.Join(cfg.OutputDir, ResultsArtifactName)
	if c.IsSet("output") {
		outPath = c.String("output")
	}
	if err := st.SaveJSON(outPath, artifact); err != nil {
		logger.Error("failed to save results artifact", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Results artifact written", "path", outPath,
		"results", artifact.TotalResults, "competitions", artifact.TotalCompetitions, "failed", len(artifact.Failed))

	finishRun(database, logger, runID, runErr != nil, len(results), len(artifact.Failed))

	if counts, err := database.RejectionCounts(runID); err == nil && len(counts) > 0 {
		logger.Info("Rejections recorded", "counts", counts)
	}

	rows := make([]report.ParseRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, report.ParseRow{
			Competition: r.Entry.Competition.Name,
			Season:      r.Entry.Season,
			Pages:       r.Pages,
			Results:     len(r.Results),
			Unmatched:   r.Stats.Unmatched,
			Failed:      r.Error != nil,
			ErrorType:   r.ErrorType,
		})
	}
	report.ParseSummary(rows, artifact.TotalResults)
	return nil
}

func buildResultsArtifact(cfg *models.Config, results []Result) *models.ResultsArtifact {
	artifact := &models.ResultsArtifact{
		Source:    "usspeedskating.org",
		ScrapedAt: time.Now().UTC().Format("2006-01-02"),
		Seasons:   cfg.Seasons,
	}

	for _, r := range results {
		if r.Error != nil {
			artifact.Failed = append(artifact.Failed, models.Failure{
				Name:  r.Entry.Competition.Name,
				Error: r.Error.Error(),
			})
			continue
		}
		if len(r.Results) == 0 {
			artifact.Failed = append(artifact.Failed, models.Failure{
				Name:  r.Entry.Competition.Name,
				Error: "no results extracted",
			})
			continue
		}
		artifact.Competitions = append(artifact.Competitions, models.CompetitionSummary{
			Name:        r.Entry.Competition.Name,
			Date:        r.Entry.Competition.Date,
			Season:      r.Entry.Season,
			ResultCount: len(r.Results),
		})
		artifact.Results = append(artifact.Results, r.Results...)
	}

	artifact.TotalResults = len(artifact.Results)
	artifact.TotalCompetitions = len(artifact.Competitions)
	return artifact
}

// TrendsAction merges the official, historical, and web-scraped datasets into
// per-skater per-distance timelines.
func TrendsAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)
	st := &storage.Storage{}

	database := openDB(cfg, logger)
	defer database.Close()
	runID := beginRun(database, logger, "trends")

	var skaters []models.Skater
	if err := st.LoadJSON(c.String("skaters"), &skaters); err != nil {
		logger.Error("failed to load skater roster", "path", c.String("skaters"), "error", err)
		os.Exit(1)
	}

	var obs []models.NormalizedResult
	sources := []string{}

	officialPath := filepath.Join(cfg.OutputDir, ResultsArtifactName)
	if c.IsSet("official") {
		officialPath = c.String("official")
	}
	var official models.ResultsArtifact
	if err := st.LoadJSON(officialPath, &official); err != nil {
		logger.Error("failed to load official results artifact", "path", officialPath, "error", err)
		os.Exit(1)
	}
	obs = append(obs, normalizeRaw(logger, database, runID, cfg, official.Results, models.SourceOfficialPDF)...)
	sources = append(sources, models.SourceOfficialPDF)
	logger.Info("Loaded official results", "path", officialPath, "results", len(official.Results))

	if c.IsSet("historical") {
		var hist models.ResultsArtifact
		if err := st.LoadJSON(c.String("historical"), &hist); err != nil {
			logger.Error("failed to load historical results artifact", "path", c.String("historical"), "error", err)
			os.Exit(1)
		}
		obs = append(obs, normalizeRaw(logger, database, runID, cfg, hist.Results, models.SourceHistorical)...)
		sources = append(sources, models.SourceHistorical)
		logger.Info("Loaded historical results", "path", c.String("historical"), "results", len(hist.Results))
	}

	for _, path := range c.StringSlice("scraped") {
		var season models.ScrapedSeason
		if err := st.LoadJSON(path, &season); err != nil {
			logger.Error("failed to load scraped season file", "path", path, "error", err)
			os.Exit(1)
		}
		scraped := normalizeScraped(logger, database, runID, cfg, season)
		obs = append(obs, scraped...)
		logger.Info("Loaded scraped season", "path", path, "observations", len(scraped))
	}
	if len(c.StringSlice("scraped")) > 0 {
		sources = append(sources, models.SourceWebScraped)
	}

	records, matched := merge.BuildRecords(skaters, merge.BySkater(obs), cfg.Normalize)
	logger.Info("Built skater records", "skaters", len(skaters), "matched", matched, "with_data", len(records))

	artifact := buildTrendsArtifact(records, sources)

	outPath := filepath.Join(cfg.OutputDir, TrendsArtifactName)
	if c.IsSet("output") {
		outPath = c.String("output")
	}
	if err := st.SaveJSON(outPath, artifact); err != nil {
		logger.Error("failed to save trends artifact", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Trends artifact written", "path", outPath, "skaters", artifact.TotalSkaters)

	finishRun(database, logger, runID, false, len(obs), 0)
	if counts, err := database.RejectionCounts(runID); err == nil && len(counts) > 0 {
		logger.Info("Rejections recorded", "counts", counts)
	}

	report.TrendsSummary(records, matched, len(skaters))
	return nil
}

// buildTrendsArtifact keys the timelines by roster skater ID, so two
// athletes sharing a printed name keep separate entries.
func buildTrendsArtifact(records []models.SkaterRecord, sources []string) *models.TrendsArtifact {
	artifact := &models.TrendsArtifact{
		Generated:    time.Now().UTC().Format(time.RFC3339),
		TotalSkaters: len(records),
		Sources:      sources,
		Trends:       map[string]map[int][]models.NormalizedResult{},
	}
	for _, rec := range records {
		artifact.Trends[rec.ID] = rec.Timelines
	}
	return artifact
}

// normalizeRaw converts raw results into canonical observations, recording
// every rejection.
func normalizeRaw(logger *slog.Logger, database *db.DB, runID int64, cfg *models.Config, raw []models.RawResult, source string) []models.NormalizedResult {
	var out []models.NormalizedResult
	for _, r := range raw {
		src := r.Source
		if src == "" {
			src = source
		}

		secs, err := normalize.Time(r.Time)
		if err != nil {
			recordRejection(logger, database, runID, "normalize", "bad_time", src, r.Competition,
				fmt.Sprintf("%s: %q", r.Skater, r.Time))
			continue
		}

		rawDist, ok := normalize.ParseDistance(r.Distance)
		if !ok {
			recordRejection(logger, database, runID, "normalize", "bad_distance", src, r.Competition,
				fmt.Sprintf("%s: %q", r.Skater, r.Distance))
			continue
		}
		dist, ok := normalize.Distance(rawDist, cfg.Normalize)
		if !ok {
			recordRejection(logger, database, runID, "normalize", "bad_distance", src, r.Competition,
				fmt.Sprintf("%s: %dm", r.Skater, rawDist))
			continue
		}

		if !normalize.PlausibleTime(dist, secs, cfg.Normalize) {
			recordRejection(logger, database, runID, "normalize", "implausible_time", src, r.Competition,
				fmt.Sprintf("%s: %.3fs over %dm", r.Skater, secs, dist))
			continue
		}

		// Dates must be ISO or empty before merging; an unparseable date
		// would neither sort nor cluster, so it is dropped and the record
		// falls back to the competition-prefix identity.
		date := ""
		if d, ok := normalize.Date(r.Date); ok {
			date = d.Format("2006-01-02")
		}

		out = append(out, models.NormalizedResult{
			SkaterKey:   normalize.Name(r.Skater),
			Distance:    dist,
			Time:        secs,
			TimeStr:     r.Time,
			Competition: r.Competition,
			Date:        date,
			Place:       r.Rank,
			Source:      src,
		})
	}
	return out
}

// normalizeScraped flattens one scraped season file into observations.
func normalizeScraped(logger *slog.Logger, database *db.DB, runID int64, cfg *models.Config, season models.ScrapedSeason) []models.NormalizedResult {
	var out []models.NormalizedResult
	for _, comp := range season.Competitions {
		for _, event := range comp.Events {
			dist, ok := normalize.Distance(event.Distance, cfg.Normalize)
			if !ok {
				recordRejection(logger, database, runID, "normalize", "bad_distance", models.SourceWebScraped, comp.Name,
					fmt.Sprintf("%dm", event.Distance))
				continue
			}
			date := ""
			if d, ok := normalize.Date(event.Date); ok {
				date = d.Format("2006-01-02")
			}

			for _, r := range event.Results {
				if r.Time == "" {
					continue
				}
				secs, err := normalize.Time(r.Time)
				if err != nil {
					recordRejection(logger, database, runID, "normalize", "bad_time", models.SourceWebScraped, comp.Name,
						fmt.Sprintf("%s: %q", r.Name, r.Time))
					continue
				}
				if !normalize.PlausibleTime(dist, secs, cfg.Normalize) {
					recordRejection(logger, database, runID, "normalize", "implausible_time", models.SourceWebScraped, comp.Name,
						fmt.Sprintf("%s: %.3fs over %dm", r.Name, secs, dist))
					continue
				}

				out = append(out, models.NormalizedResult{
					SkaterKey:   normalize.Name(r.Name),
					Distance:    dist,
					Time:        secs,
					TimeStr:     r.Time,
					Competition: comp.Name,
					Date:        date,
					Place:       r.Place,
					Source:      models.SourceWebScraped,
				})
			}
		}
	}
	return out
}

// ValidateAction cross-validates the scraped skater dataset against the
// official results artifact.
func ValidateAction(c *cli.Context) error {
	logger := newLogger(c)
	cfg := loadConfig(c, logger)
	st := &storage.Storage{}

	officialPath := filepath.Join(cfg.OutputDir, ResultsArtifactName)
	if c.IsSet("official") {
		officialPath = c.String("official")
	}
	var official models.ResultsArtifact
	if err := st.LoadJSON(officialPath, &official); err != nil {
		logger.Error("failed to load official results artifact", "path", officialPath, "error", err)
		os.Exit(1)
	}

	var skaters []models.Skater
	if err := st.LoadJSON(c.String("skaters"), &skaters); err != nil {
		logger.Error("failed to load skater roster", "path", c.String("skaters"), "error", err)
		os.Exit(1)
	}
	logger.Info("Cross-validating", "athletes", len(skaters), "official_results", len(official.Results))

	idx := validate.NewIndex(official.Results, cfg.Validate)
	rep := idx.Validate(skaters)

	outPath := filepath.Join(cfg.OutputDir, ValidationArtifactName)
	if c.IsSet("output") {
		outPath = c.String("output")
	}
	if err := st.SaveJSON(outPath, rep); err != nil {
		logger.Error("failed to save validation report", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Validation report written", "path", outPath,
		"matches", rep.TotalMatches, "discrepancies", rep.TotalDiscrepancies)

	report.ValidationSummary(rep)
	return nil
}
