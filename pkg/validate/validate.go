// Package validate cross-checks the web-scraped dataset against the official
// PDF-derived dataset. Everything it produces is advisory: neither input is
// ever modified, and a discrepancy is a report entry, not a conflict to
// resolve.
package validate

import (
	"time"

	"github.com/antzucaro/matchr"
	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/normalize"
)

type tripleKey struct {
	skater   string
	comp     string
	distance string
}

type compDistKey struct {
	comp     string
	distance string
}

// Index is the lookup over the official dataset, keyed by (skater key,
// competition key, distance).
type Index struct {
	records map[tripleKey][]models.RawResult
	// distances seen per competition key, to distinguish "skater missing"
	// from "competition missing".
	compDistances map[string]map[string]bool
	// skater keys per (competition, distance), scanned for near misses.
	skatersAt map[compDistKey][]string
	// every skater key in the official set.
	skaters map[string]bool

	cfg models.ValidateConfig
}

// NewIndex builds the official-side lookup.
func NewIndex(official []models.RawResult, cfg models.ValidateConfig) *Index {
	idx := &Index{
		records:       make(map[tripleKey][]models.RawResult),
		compDistances: make(map[string]map[string]bool),
		skatersAt:     make(map[compDistKey][]string),
		skaters:       make(map[string]bool),
		cfg:           cfg,
	}

	for _, r := range official {
		sk := normalize.Name(r.Skater)
		ck := normalize.Competition(r.Competition, cfg.LocationSuffixes)
		dist := normalize.LowerDistance(r.Distance)

		key := tripleKey{skater: sk, comp: ck, distance: dist}
		idx.records[key] = append(idx.records[key], r)

		if idx.compDistances[ck] == nil {
			idx.compDistances[ck] = make(map[string]bool)
		}
		idx.compDistances[ck][dist] = true

		cd := compDistKey{comp: ck, distance: dist}
		if !containsString(idx.skatersAt[cd], sk) {
			idx.skatersAt[cd] = append(idx.skatersAt[cd], sk)
		}
		idx.skaters[sk] = true
	}

	return idx
}

// Validate checks every athlete's scraped events against the official index
// and assembles the full report. For a matched triple where both sources
// carry a rank and they disagree, exactly one discrepancy entry is emitted.
func (idx *Index) Validate(skaters []models.Skater) *models.ValidationReport {
	report := &models.ValidationReport{
		ValidationDate:  time.Now().Format("2006-01-02"),
		SourceSecondary: "shorttracklive.info",
		SourceOfficial:  "usspeedskating.org PDF archives",
	}

	for _, sk := range skaters {
		skKey := normalize.Name(sk.Name)
		summary := models.AthleteSummary{
			Name:             sk.Name,
			SecondaryResults: len(sk.Events),
		}

		for _, event := range sk.Events {
			compKey := normalize.Competition(event.Name, idx.cfg.LocationSuffixes)

			foundAny := false
			for _, dist := range idx.cfg.ArtifactDistances {
				recs, ok := idx.records[tripleKey{skater: skKey, comp: compKey, distance: dist}]
				if !ok {
					continue
				}
				foundAny = true
				official := recs[0]

				report.Matches = append(report.Matches, models.ValidationMatch{
					Skater:         sk.Name,
					SecondaryEvent: truncate(event.Name, 60),
					OfficialComp:   official.Competition,
					Distance:       dist,
					SecondaryRank:  event.BestRank,
					OfficialPlace:  official.Rank,
					OfficialTime:   official.Time,
				})
				summary.Matches++

				if event.BestRank > 0 && official.Rank > 0 && event.BestRank != official.Rank {
					report.Discrepancies = append(report.Discrepancies, models.RankDiscrepancy{
						Skater:        sk.Name,
						Competition:   official.Competition,
						Distance:      dist,
						SecondaryRank: event.BestRank,
						OfficialPlace: official.Rank,
					})
					summary.Discrepancies++
				}
			}

			if !foundAny {
				if dists, exists := idx.compDistances[compKey]; exists {
					report.NotFound = append(report.NotFound, models.ValidationMiss{
						Skater: sk.Name,
						Event:  truncate(event.Name, 60),
						Note:   "Competition exists but skater not found in official results",
					})
					report.NearMisses = append(report.NearMisses,
						idx.nearMisses(sk.Name, skKey, compKey, dists)...)
				} else {
					report.NotFound = append(report.NotFound, models.ValidationMiss{
						Skater: sk.Name,
						Event:  truncate(event.Name, 60),
						Note:   "Competition not found in official results",
					})
				}
			}
		}

		summary.Status = idx.status(summary, skKey)
		report.Summary = append(report.Summary, summary)
		report.TotalMatches += summary.Matches
		report.TotalDiscrepancies += summary.Discrepancies
	}

	report.AthletesValidated = len(skaters)
	return report
}

// nearMisses scans the official skater keys present at the same competition
// and distance for names suspiciously close to the missing key. Purely
// observability; near misses are never merged.
func (idx *Index) nearMisses(name, skKey, compKey string, dists map[string]bool) []models.NearMiss {
	var out []models.NearMiss
	// Walk the configured distance list rather than the map, so the
	// near-miss order is stable across runs.
	for _, dist := range idx.cfg.ArtifactDistances {
		if !dists[dist] {
			continue
		}
		var best string
		var bestSim float64
		for _, cand := range idx.skatersAt[compDistKey{comp: compKey, distance: dist}] {
			sim := matchr.JaroWinkler(skKey, cand, false)
			if sim > bestSim {
				best, bestSim = cand, sim
			}
		}
		if best != "" && bestSim >= idx.cfg.NearMissThreshold {
			out = append(out, models.NearMiss{
				Skater:      name,
				Candidate:   best,
				Similarity:  bestSim,
				Competition: compKey,
				Distance:    dist,
			})
		}
	}
	return out
}

func (idx *Index) status(s models.AthleteSummary, skKey string) string {
	switch {
	case s.Matches > 0 && s.Discrepancies == 0:
		return models.StatusMatched
	case s.Matches > 0:
		return models.StatusPartial
	case s.SecondaryResults == 0:
		return models.StatusNone
	case idx.skaters[skKey]:
		return models.StatusVerifiedPresence
	default:
		return models.StatusNotInPDF
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
