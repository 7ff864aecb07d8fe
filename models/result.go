package models

// Source identifiers, in descending trust order. Tier 0 wins ties.
const (
	SourceOfficialPDF = "uss_pdf"  // parsed from official USS result PDFs
	SourceHistorical  = "uss_hist" // historical USS archive (2017-2023)
	SourceWebScraped  = "stl"      // shorttracklive.info scrape, fallback only
)

// SourceTier maps a source identifier to its priority tier. Unknown sources
// rank below everything known.
func SourceTier(source string) int {
	switch source {
	case SourceOfficialPDF:
		return 0
	case SourceHistorical:
		return 1
	case SourceWebScraped:
		return 2
	default:
		return 3
	}
}

// RawResult is one observed race result as printed in its source document,
// before normalization. Immutable once extracted.
type RawResult struct {
	Rank        int    `json:"rank"`
	Skater      string `json:"skater"`
	Time        string `json:"time"`
	Distance    string `json:"distance"` // as printed, e.g. "500m"
	Category    string `json:"category,omitempty"`
	Competition string `json:"competition,omitempty"`
	Date        string `json:"date,omitempty"` // YYYY-MM-DD or empty
	Season      string `json:"season,omitempty"`
	Source      string `json:"source,omitempty"`
}

// NormalizedResult is the canonical form of a RawResult: skater key, bucketed
// distance in meters, time in seconds. Only results whose time passed the
// per-distance plausibility filter exist in this form.
type NormalizedResult struct {
	SkaterKey   string  `json:"-"`
	Distance    int     `json:"distance"`
	Time        float64 `json:"time"`
	TimeStr     string  `json:"time_str"`
	Competition string  `json:"competition"`
	Date        string  `json:"date,omitempty"` // YYYY-MM-DD or empty
	Place       int     `json:"place,omitempty"`
	Source      string  `json:"source"`
}

// Tier returns the source priority tier of the result.
func (r NormalizedResult) Tier() int { return SourceTier(r.Source) }

// Skater is one athlete from the roster file, with the web-scraped profile
// data used as fallback and for cross-validation.
type Skater struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Nationality string         `json:"nationality,omitempty"`
	Profile     *SkaterProfile `json:"profile,omitempty"`
	Events      []SkaterEvent  `json:"events,omitempty"`
}

// SkaterProfile carries the scraped personal-best detail rows.
type SkaterProfile struct {
	PersonalBests []PersonalBest `json:"personal_bests_detail,omitempty"`
}

// PersonalBest is one scraped PB row: used as a last-resort timeline source.
type PersonalBest struct {
	Distance    int    `json:"distance"`
	Time        string `json:"time"`
	Date        string `json:"date,omitempty"`
	Competition string `json:"competition,omitempty"`
}

// SkaterEvent is one competition participation from the scraped dataset.
type SkaterEvent struct {
	Name     string `json:"name"`
	BestRank int    `json:"best_rank,omitempty"`
}

// SkaterRecord is an athlete identity with one merged timeline per distance.
// Built once by the merge stage and never mutated afterwards.
type SkaterRecord struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Key       string                     `json:"-"`
	Timelines map[int][]NormalizedResult `json:"timelines"`
}
