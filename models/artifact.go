package models

// CompetitionSummary is the per-competition rollup in the results artifact.
type CompetitionSummary struct {
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	Season      string `json:"season,omitempty"`
	ResultCount int    `json:"result_count"`
}

// Failure records a competition that could not be processed, and why.
type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ResultsArtifact is the primary output of the parse command.
type ResultsArtifact struct {
	Source            string               `json:"source"`
	ScrapedAt         string               `json:"scraped_at"`
	Seasons           []string             `json:"seasons"`
	TotalResults      int                  `json:"total_results"`
	TotalCompetitions int                  `json:"total_competitions"`
	Competitions      []CompetitionSummary `json:"competitions"`
	Results           []RawResult          `json:"results"`
	Failed            []Failure            `json:"failed"`
}

// TrendsArtifact is the output of the trends command: per-skater, per-distance
// merged timelines.
type TrendsArtifact struct {
	Generated    string                                `json:"generated"`
	TotalSkaters int                                   `json:"total_skaters"`
	Sources      []string                              `json:"sources"`
	Trends       map[string]map[int][]NormalizedResult `json:"trends"`
}

// ScrapedResult is one web-scraped race result (secondary dataset).
type ScrapedResult struct {
	Name  string `json:"name"`
	Time  string `json:"time,omitempty"`
	Place int    `json:"place,omitempty"`
}

// ScrapedEvent is one race within a scraped competition.
type ScrapedEvent struct {
	Distance int             `json:"distance"`
	Date     string          `json:"date,omitempty"`
	Results  []ScrapedResult `json:"results"`
}

// ScrapedCompetition is one competition from a scraped season file.
type ScrapedCompetition struct {
	Name   string         `json:"name"`
	Events []ScrapedEvent `json:"events"`
}

// ScrapedSeason is the top-level shape of a scraped_us_results_s*.json file.
type ScrapedSeason struct {
	Competitions []ScrapedCompetition `json:"competitions"`
}

// ValidationMatch is one (skater, competition, distance) triple found in both
// datasets.
type ValidationMatch struct {
	Skater         string `json:"skater"`
	SecondaryEvent string `json:"stl_event"`
	OfficialComp   string `json:"uss_comp"`
	Distance       string `json:"distance"`
	SecondaryRank  int    `json:"stl_best_rank,omitempty"`
	OfficialPlace  int    `json:"uss_place,omitempty"`
	OfficialTime   string `json:"uss_time,omitempty"`
}

// RankDiscrepancy flags a matched triple where both sources report a rank and
// the values differ.
type RankDiscrepancy struct {
	Skater        string `json:"skater"`
	Competition   string `json:"competition"`
	Distance      string `json:"distance"`
	SecondaryRank int    `json:"stl_best_rank"`
	OfficialPlace int    `json:"uss_place"`
}

// ValidationMiss records a secondary record with no official counterpart.
type ValidationMiss struct {
	Skater string `json:"skater"`
	Event  string `json:"stl_event"`
	Note   string `json:"note"`
}

// NearMiss is an advisory: a missing skater key whose closest official key in
// the same competition and distance is suspiciously similar.
type NearMiss struct {
	Skater      string  `json:"skater"`
	Candidate   string  `json:"candidate"`
	Similarity  float64 `json:"similarity"`
	Competition string  `json:"competition"`
	Distance    string  `json:"distance"`
}

// Per-athlete validation statuses.
const (
	StatusMatched          = "MATCHED"           // matches, no discrepancies
	StatusPartial          = "PARTIAL"           // matches with discrepancies
	StatusVerifiedPresence = "VERIFIED_PRESENCE" // athlete present, nothing comparable
	StatusNotInPDF         = "NOT_IN_PDF"        // secondary data only
	StatusNone             = "N/A"               // nothing to validate
)

// AthleteSummary is the per-athlete rollup in the validation report.
type AthleteSummary struct {
	Name             string `json:"name"`
	SecondaryResults int    `json:"stl_results_count"`
	Matches          int    `json:"matches"`
	Discrepancies    int    `json:"discrepancies_count"`
	Status           string `json:"status"`
}

// ValidationReport is the output artifact of the validate command. It is
// advisory only; neither input dataset is ever modified.
type ValidationReport struct {
	ValidationDate     string            `json:"validation_date"`
	SourceSecondary    string            `json:"source_secondary"`
	SourceOfficial     string            `json:"source_official"`
	AthletesValidated  int               `json:"athletes_validated"`
	TotalMatches       int               `json:"total_matches"`
	TotalDiscrepancies int               `json:"total_discrepancies"`
	Summary            []AthleteSummary  `json:"summary"`
	Matches            []ValidationMatch `json:"matches"`
	Discrepancies      []RankDiscrepancy `json:"rank_discrepancies"`
	NotFound           []ValidationMiss  `json:"not_found"`
	NearMisses         []NearMiss        `json:"near_misses,omitempty"`
}
