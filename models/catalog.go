package models

// Competition is one entry in the catalog manifest.
type Competition struct {
	Name   string `json:"name"`
	Date   string `json:"date,omitempty"`
	Type   string `json:"type"`
	PDFURL string `json:"pdf_url"`
}

// Season groups the competitions of one skating season (Aug-Jul).
type Season struct {
	Season       string        `json:"season"`
	Competitions []Competition `json:"competitions"`
}

// Catalog is the competition manifest consumed by download and parse.
type Catalog struct {
	ScrapedAt string   `json:"scraped_at,omitempty"`
	TotalPDFs int      `json:"total_pdfs,omitempty"`
	Seasons   []Season `json:"seasons"`
}

// CompetitionTypeShortTrack is the only catalog type the pipeline processes.
const CompetitionTypeShortTrack = "short_track"

// CatalogEntry is a competition paired with its season, the unit of work for
// the download and parse worker pools.
type CatalogEntry struct {
	Season      string
	Competition Competition
}

// ShortTrackEntries flattens the catalog into the short_track competitions of
// the wanted seasons, in catalog order. An empty seasons filter means all.
func (c *Catalog) ShortTrackEntries(seasons []string) []CatalogEntry {
	want := make(map[string]bool, len(seasons))
	for _, s := range seasons {
		want[s] = true
	}

	var entries []CatalogEntry
	for _, season := range c.Seasons {
		if len(want) > 0 && !want[season.Season] {
			continue
		}
		for _, comp := range season.Competitions {
			if comp.Type != CompetitionTypeShortTrack {
				continue
			}
			entries = append(entries, CatalogEntry{Season: season.Season, Competition: comp})
		}
	}
	return entries
}
