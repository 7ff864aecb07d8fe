// Package catalog builds and loads the competition catalog that drives the
// download and parse stages. The catalog maps seasons to competitions and
// their published PDF URLs.
package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/storage"
)

var (
	linkTextRe    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*[-–]\s*(.+)$`)
	unsafeCharsRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	underscoresRe = regexp.MustCompile(`_+`)
)

// Load reads a catalog JSON file from disk.
func Load(path string) (*models.Catalog, error) {
	st := &storage.Storage{}
	var cat models.Catalog
	if err := st.LoadJSON(path, &cat); err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	return &cat, nil
}

// ScrapePage extracts competition links from a results listing page. Links
// are anchors whose href ends in .pdf and whose text carries an ISO date
// prefix followed by the competition name.
func ScrapePage(html string) ([]models.Competition, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("error parsing results page: %w", err)
	}

	comps := []models.Competition{}
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return
		}
		text := strings.TrimSpace(sel.Text())
		m := linkTextRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true
		comps = append(comps, models.Competition{
			Name:   strings.TrimSpace(m[2]),
			Date:   m[1],
			Type:   models.CompetitionTypeShortTrack,
			PDFURL: href,
		})
	})
	return comps, nil
}

// SeasonFor returns the season label for an ISO date. Competitions from
// August onward belong to the season starting that year.
func SeasonFor(date string) string {
	if len(date) < 7 {
		return ""
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return ""
	}
	if date[5:7] >= "08" {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// BuildCatalog groups competitions into seasons, newest season first.
func BuildCatalog(comps []models.Competition) *models.Catalog {
	bySeason := map[string][]models.Competition{}
	for _, c := range comps {
		season := SeasonFor(c.Date)
		if season == "" {
			continue
		}
		bySeason[season] = append(bySeason[season], c)
	}

	names := make([]string, 0, len(bySeason))
	for name := range bySeason {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	cat := &models.Catalog{}
	for _, name := range names {
		comps := bySeason[name]
		sort.SliceStable(comps, func(i, j int) bool {
			return comps[i].Date > comps[j].Date
		})
		cat.Seasons = append(cat.Seasons, models.Season{
			Season:       name,
			Competitions: comps,
		})
	}
	return cat
}

// SanitizeFilename makes a competition name safe for use as a filename.
func SanitizeFilename(name string) string {
	s := unsafeCharsRe.ReplaceAllString(name, "_")
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = underscoresRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// PDFPath returns the local path a competition PDF is stored at.
func PDFPath(baseDir string, entry models.CatalogEntry) string {
	name := fmt.Sprintf("%s_%s.pdf", entry.Competition.Date, SanitizeFilename(entry.Competition.Name))
	return filepath.Join(baseDir, entry.Season, name)
}

// Save writes the catalog to path as indented JSON.
func Save(path string, cat *models.Catalog) error {
	st := &storage.Storage{}
	if err := st.SaveJSON(path, cat); err != nil {
		return fmt.Errorf("error saving catalog: %w", err)
	}
	return nil
}
