package catalog

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gchen/shorttrack-results/models"
)

const samplePage = `<html><body>
<div class="results">
  <a href="https://assets.contentstack.io/v3/silver_skates.pdf">2023-11-11 - Silver Skates</a>
  <a href="https://assets.contentstack.io/v3/desert_classic.pdf">2024-03-02 – Desert Classic</a>
  <a href="https://assets.contentstack.io/v3/silver_skates.pdf">2023-11-11 - Silver Skates</a>
  <a href="https://assets.contentstack.io/v3/agenda.html">2023-11-11 - Agenda</a>
  <a href="https://assets.contentstack.io/v3/unlabeled.pdf">Download</a>
</div>
</body></html>`

func TestScrapePage(t *testing.T) {
	comps, err := ScrapePage(samplePage)
	require.NoError(t, err)

	// Duplicate hrefs, non-PDF links, and undated link texts are skipped.
	require.Len(t, comps, 2)

	assert.Equal(t, "Silver Skates", comps[0].Name)
	assert.Equal(t, "2023-11-11", comps[0].Date)
	assert.Equal(t, models.CompetitionTypeShortTrack, comps[0].Type)
	assert.Equal(t, "https://assets.contentstack.io/v3/silver_skates.pdf", comps[0].PDFURL)

	// The en dash separator variant also parses.
	assert.Equal(t, "Desert Classic", comps[1].Name)
	assert.Equal(t, "2024-03-02", comps[1].Date)
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2023-08-01", "2023-2024"},
		{"2023-07-31", "2022-2023"},
		{"2023-11-11", "2023-2024"},
		{"2024-03-02", "2023-2024"},
		{"2024-12-31", "2024-2025"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeasonFor(tt.date), "SeasonFor(%q)", tt.date)
	}
}

func TestBuildCatalog(t *testing.T) {
	comps := []models.Competition{
		{Name: "Silver Skates", Date: "2023-11-11", Type: models.CompetitionTypeShortTrack},
		{Name: "Desert Classic", Date: "2024-03-02", Type: models.CompetitionTypeShortTrack},
		{Name: "Fall Classic", Date: "2024-10-05", Type: models.CompetitionTypeShortTrack},
	}

	cat := BuildCatalog(comps)

	require.Len(t, cat.Seasons, 2)
	// Newest season first, newest competition first within a season.
	assert.Equal(t, "2024-2025", cat.Seasons[0].Season)
	assert.Equal(t, "2023-2024", cat.Seasons[1].Season)
	require.Len(t, cat.Seasons[1].Competitions, 2)
	assert.Equal(t, "Desert Classic", cat.Seasons[1].Competitions[0].Name)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Desert_Classic", SanitizeFilename("Desert Classic"))
	assert.Equal(t, "US_Champs_#2", SanitizeFilename(`US Champs: #2?`))
	assert.Equal(t, "a_b", SanitizeFilename("a   /   b"))
	assert.Len(t, SanitizeFilename(strings.Repeat("x", 150)), 100)
}

func TestPDFPath(t *testing.T) {
	entry := models.CatalogEntry{
		Season: "2023-2024",
		Competition: models.Competition{
			Name: "Silver Skates",
			Date: "2023-11-11",
		},
	}
	want := filepath.Join("data", "pdfs", "2023-2024", "2023-11-11_Silver_Skates.pdf")
	assert.Equal(t, want, PDFPath(filepath.Join("data", "pdfs"), entry))
}

func TestShortTrackEntries(t *testing.T) {
	cat := &models.Catalog{Seasons: []models.Season{
		{Season: "2023-2024", Competitions: []models.Competition{
			{Name: "Silver Skates", Type: models.CompetitionTypeShortTrack},
			{Name: "Long Track Open", Type: "long_track"},
		}},
		{Season: "2022-2023", Competitions: []models.Competition{
			{Name: "Desert Classic", Type: models.CompetitionTypeShortTrack},
		}},
	}}

	all := cat.ShortTrackEntries(nil)
	require.Len(t, all, 2)
	assert.Equal(t, "Silver Skates", all[0].Competition.Name)

	filtered := cat.ShortTrackEntries([]string{"2022-2023"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "Desert Classic", filtered[0].Competition.Name)
}
