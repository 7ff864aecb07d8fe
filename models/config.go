// Package models defines the value types shared across the pipeline stages
// plus the runtime configuration.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration. Every tuned heuristic (distance
// buckets, plausibility bounds, the date-cluster window) lives here so that
// nothing is hardcoded against one particular season's data.
type Config struct {
	// CatalogPath is the competition manifest produced by the catalog command.
	CatalogPath string `yaml:"catalog_path"`
	// ResultsURL is the page scraped for PDF links by the catalog command.
	ResultsURL string `yaml:"results_url"`
	// PDFDir is where downloaded PDFs are stored, one subdirectory per season.
	PDFDir string `yaml:"pdf_dir"`
	// OutputDir is where JSON artifacts are written.
	OutputDir string `yaml:"output_dir"`
	// DBPath is the sqlite diagnostics database.
	DBPath string `yaml:"db_path"`

	// Seasons limits processing to these seasons. Empty means all.
	Seasons []string `yaml:"seasons"`

	Workers             int   `yaml:"workers"`
	FetchTimeoutSeconds int   `yaml:"fetch_timeout_seconds"`
	MinPDFBytes         int64 `yaml:"min_pdf_bytes"`

	Normalize NormalizeConfig `yaml:"normalize"`
	Validate  ValidateConfig  `yaml:"validate"`
}

// DistanceBucket maps an inclusive raw-distance range to a standard event
// distance. Different rinks report lap-derived distances (107m, 111m tracks),
// so raw values cluster around but rarely equal the standard events.
type DistanceBucket struct {
	Min      int `yaml:"min"`
	Max      int `yaml:"max"`
	Standard int `yaml:"standard"`
}

// TimeBound is the closed plausibility interval, in seconds, for one distance.
type TimeBound struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// NormalizeConfig carries the tunable normalization and merge thresholds.
type NormalizeConfig struct {
	// DateClusterDays is the maximum day gap for two dated records to count
	// as the same competition occurrence.
	DateClusterDays int `yaml:"date_cluster_days"`
	// CompetitionKeyLength is the identity prefix used for undated records.
	CompetitionKeyLength int `yaml:"competition_key_length"`

	StandardDistances []int            `yaml:"standard_distances"`
	DistanceBuckets   []DistanceBucket `yaml:"distance_buckets"`
	// MinRawDistance/MaxRawDistance bound what is worth bucketing at all.
	MinRawDistance int `yaml:"min_raw_distance"`
	MaxRawDistance int `yaml:"max_raw_distance"`

	TimeBounds       map[int]TimeBound `yaml:"time_bounds"`
	DefaultTimeBound TimeBound         `yaml:"default_time_bound"`
}

// ValidateConfig tunes the cross-validator.
type ValidateConfig struct {
	// NearMissThreshold is the minimum Jaro-Winkler similarity for a missing
	// skater key to be reported as a near miss against an official key.
	NearMissThreshold float64 `yaml:"near_miss_threshold"`
	// LocationSuffixes are trailing tokens stripped from competition names.
	LocationSuffixes []string `yaml:"location_suffixes"`
	// ArtifactDistances are the event distances checked per competition.
	ArtifactDistances []string `yaml:"artifact_distances"`
}

// DefaultConfig returns the configuration tuned against the 2022-2026 USS
// archives. Callers override it with a YAML file and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:         "data/us_pdf_catalog.json",
		ResultsURL:          "https://www.usspeedskating.org/results",
		PDFDir:              "data/pdfs",
		OutputDir:           "data",
		DBPath:              "data/shorttrack-results.db",
		Seasons:             []string{"2022-2023", "2023-2024", "2024-2025", "2025-2026"},
		Workers:             8,
		FetchTimeoutSeconds: 60,
		MinPDFBytes:         1000,
		Normalize:           DefaultNormalizeConfig(),
		Validate: ValidateConfig{
			NearMissThreshold: 0.93,
			LocationSuffixes: []string{
				"usa", "ut", "il", "ny", "wi", "ma", "nj", "ct", "nh",
				"salt lake city", "milwaukee",
			},
			ArtifactDistances: []string{"500m", "1000m", "1500m", "3000m"},
		},
	}
}

// DefaultNormalizeConfig returns the bucket and bound tables tuned against
// 100m/107m/111m tracks. The 580-620 range maps to 500m even though 600m
// heats exist; the plausibility filter catches the worst of the resulting
// misfits.
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		DateClusterDays:      2,
		CompetitionKeyLength: 30,
		StandardDistances:    []int{222, 333, 500, 777, 1000, 1500, 3000},
		DistanceBuckets: []DistanceBucket{
			{Min: 200, Max: 240, Standard: 222},
			{Min: 300, Max: 360, Standard: 333},
			{Min: 390, Max: 430, Standard: 500},
			{Min: 450, Max: 550, Standard: 500},
			{Min: 580, Max: 620, Standard: 500},
			{Min: 640, Max: 700, Standard: 777},
			{Min: 740, Max: 820, Standard: 777},
			{Min: 900, Max: 1100, Standard: 1000},
			{Min: 1400, Max: 1600, Standard: 1500},
			{Min: 1900, Max: 2100, Standard: 1500},
			{Min: 2800, Max: 3200, Standard: 3000},
		},
		MinRawDistance: 200,
		MaxRawDistance: 4000,
		TimeBounds: map[int]TimeBound{
			222:  {Min: 18, Max: 90},
			333:  {Min: 25, Max: 120},
			500:  {Min: 38, Max: 150},
			777:  {Min: 60, Max: 210},
			1000: {Min: 80, Max: 300},
			1500: {Min: 130, Max: 420},
			3000: {Min: 280, Max: 720},
		},
		DefaultTimeBound: TimeBound{Min: 25, Max: 600},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults simply apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
