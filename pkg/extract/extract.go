// Package extract recovers structured race results from classified page text
// via layout-specific pattern rules. Extraction is best effort: lines that
// match no rule are counted and skipped, never fatal.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/classifier"
	"github.com/gchen/shorttrack-results/pkg/normalize"
)

// LineKind tags what a single line of page text turned out to be. Making the
// "skipped" case an explicit variant keeps dropped input observable.
type LineKind int

const (
	LineUnmatched LineKind = iota
	LineNoise
	LineDistanceHeader
	LineCategoryHeader
	LineResult
)

// ParsedLine is the tagged outcome of classifying one line.
type ParsedLine struct {
	Kind     LineKind
	Distance string
	Category string
	Result   *models.RawResult
}

// PageStats counts what happened to every line on a page.
type PageStats struct {
	Lines     int
	Results   int
	Headers   int
	Noise     int
	Unmatched int
}

// Add accumulates another page's counts into s.
func (s *PageStats) Add(other PageStats) {
	s.Lines += other.Lines
	s.Results += other.Results
	s.Headers += other.Headers
	s.Noise += other.Noise
	s.Unmatched += other.Unmatched
}

var (
	tcDistanceRe = regexp.MustCompile(`(?i)^(\d+)\s*Meters?$`)
	// "1 493 Marcus Howard 2:12.734" is rank, bib, name, time.
	tcResultRe  = regexp.MustCompile(`^(\d+)\s+(\d+)\s+(.+?)\s+(\d+:\d+\.\d+)$`)
	etrHeaderRe = regexp.MustCompile(`(?i)^(\d+)M\s*(.*)$`)
	// "432 HURLEY, STELLA 34.330" is bib, shouting name, time.
	etrResultRe = regexp.MustCompile(`^(\d+)\s+([A-Z][A-Z\s,'\-\.]+?)\s+(\d+:\d+\.\d+|\d+\.\d+)\s*$`)
)

// Boilerplate the timing software prints on Time Classification pages.
var tcNoiseMarkers = []string{"Skater #", "Time Classification", "Tempus", "Printed", "Page"}

var etrNoiseMarkers = []string{"Event Time Results", "Skater #", "Tempus", "Printed", "Page"}

// Page extracts the RawResults from one classified page of text. Unknown
// pages yield nothing.
func Page(text string, layout classifier.Layout) ([]models.RawResult, PageStats) {
	switch layout {
	case classifier.TimeClassification:
		return timeClassificationPage(text)
	case classifier.EventTimeResults:
		return eventTimeResultsPage(text)
	}
	return nil, PageStats{}
}

// ClassifyTimeClassificationLine applies the Time Classification layout rules
// to a single trimmed line.
func ClassifyTimeClassificationLine(line string) ParsedLine {
	if line == "" || containsAny(line, tcNoiseMarkers) {
		return ParsedLine{Kind: LineNoise}
	}

	if m := tcDistanceRe.FindStringSubmatch(line); m != nil {
		return ParsedLine{Kind: LineDistanceHeader, Distance: m[1] + "m"}
	}

	// A short standalone line naming a category establishes the current
	// category until the next header.
	if !startsWithDigit(line) && len(line) < 50 {
		if cat := normalize.Category(line); cat != line {
			return ParsedLine{Kind: LineCategoryHeader, Category: cat}
		}
		if line == "Men" || line == "Women" || line == "Ladies" ||
			containsAny(line, []string{"Junior", "Master", "NEST", "Novice", "Group"}) {
			return ParsedLine{Kind: LineCategoryHeader, Category: normalize.Category(line)}
		}
	}

	if m := tcResultRe.FindStringSubmatch(line); m != nil {
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			return ParsedLine{Kind: LineUnmatched}
		}
		name := strings.TrimRight(strings.TrimSpace(m[3]), "*")
		if name == "" {
			return ParsedLine{Kind: LineUnmatched}
		}
		return ParsedLine{Kind: LineResult, Result: &models.RawResult{
			Rank:   rank,
			Skater: name,
			Time:   m[4],
		}}
	}

	return ParsedLine{Kind: LineUnmatched}
}

func timeClassificationPage(text string) ([]models.RawResult, PageStats) {
	var results []models.RawResult
	var stats PageStats

	currentDistance := ""
	currentCategory := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		stats.Lines++

		parsed := ClassifyTimeClassificationLine(line)
		switch parsed.Kind {
		case LineNoise:
			stats.Noise++
		case LineDistanceHeader:
			stats.Headers++
			currentDistance = parsed.Distance
		case LineCategoryHeader:
			stats.Headers++
			currentCategory = parsed.Category
		case LineResult:
			// A result row before any distance header is an orphan; the
			// page gave us nothing to attribute it to.
			if currentDistance == "" {
				stats.Unmatched++
				continue
			}
			stats.Results++
			r := *parsed.Result
			r.Distance = currentDistance
			r.Category = currentCategory
			if r.Category == "" {
				r.Category = "Unknown"
			}
			results = append(results, r)
		default:
			stats.Unmatched++
		}
	}

	return results, stats
}

// ClassifyEventTimeResultsLine applies the Event Time Results layout rules to
// a single trimmed line.
func ClassifyEventTimeResultsLine(line string) ParsedLine {
	if line == "" || containsAny(line, etrNoiseMarkers) {
		return ParsedLine{Kind: LineNoise}
	}

	if m := etrHeaderRe.FindStringSubmatch(line); m != nil {
		category := "Mixed"
		if cat := strings.TrimSpace(m[2]); cat != "" {
			category = normalize.Category(cat)
		}
		return ParsedLine{Kind: LineDistanceHeader, Distance: m[1] + "m", Category: category}
	}

	if m := etrResultRe.FindStringSubmatch(line); m != nil {
		t := m[3]
		if !strings.Contains(t, ":") {
			t = "0:" + t
		}
		return ParsedLine{Kind: LineResult, Result: &models.RawResult{
			Skater: titleCase(strings.TrimSpace(m[2])),
			Time:   t,
		}}
	}

	return ParsedLine{Kind: LineUnmatched}
}

func eventTimeResultsPage(text string) ([]models.RawResult, PageStats) {
	var results []models.RawResult
	var stats PageStats

	currentDistance := ""
	currentCategory := "Mixed"

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		stats.Lines++

		parsed := ClassifyEventTimeResultsLine(line)
		switch parsed.Kind {
		case LineNoise:
			stats.Noise++
		case LineDistanceHeader:
			stats.Headers++
			currentDistance = parsed.Distance
			currentCategory = parsed.Category
		case LineResult:
			if currentDistance == "" {
				stats.Unmatched++
				continue
			}
			stats.Results++
			r := *parsed.Result
			r.Distance = currentDistance
			r.Category = currentCategory
			results = append(results, r)
		default:
			stats.Unmatched++
		}
	}

	assignRanks(results)
	return results, stats
}

// assignRanks derives ranks per (distance, category) group by ascending time.
// This layout never prints a rank, so rank here is computed, not observed.
func assignRanks(results []models.RawResult) {
	groups := make(map[string][]int)
	for i, r := range results {
		key := r.Distance + "|" + r.Category
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		sort.SliceStable(idxs, func(a, b int) bool {
			ta, errA := normalize.Time(results[idxs[a]].Time)
			tb, errB := normalize.Time(results[idxs[b]].Time)
			if errA != nil || errB != nil {
				return errB != nil && errA == nil
			}
			return ta < tb
		})
		for rank, i := range idxs {
			results[i].Rank = rank + 1
		}
	}
}

// titleCase folds a shouting name to title case the way mixed-case sources
// print it: "HURLEY, STELLA" -> "Hurley, Stella", "O'BRIEN" -> "O'Brien".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			if !prevLetter {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
