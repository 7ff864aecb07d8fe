// Package merge collapses duplicate observations of the same performance and
// assembles per-skater timelines across ranked sources. All functions produce
// new collections; inputs are never mutated.
package merge

import (
	"sort"
	"strings"

	"github.com/gchen/shorttrack-results/models"
	"github.com/gchen/shorttrack-results/pkg/normalize"
)

// BestPerGroup collapses multiple observations of the same (skater, distance,
// category) within one competition, keeping only the fastest time. Duplicates
// come from overlapping table and text passes over the same page. Group order
// follows first appearance.
func BestPerGroup(results []models.RawResult) []models.RawResult {
	type groupKey struct {
		skater, distance, category string
	}

	best := make(map[groupKey]models.RawResult)
	var order []groupKey
	for _, r := range results {
		k := groupKey{strings.ToLower(r.Skater), r.Distance, r.Category}
		cur, seen := best[k]
		if !seen {
			best[k] = r
			order = append(order, k)
			continue
		}
		if fasterRaw(r, cur) {
			best[k] = r
		}
	}

	out := make([]models.RawResult, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

func fasterRaw(a, b models.RawResult) bool {
	ta, errA := normalize.Time(a.Time)
	tb, errB := normalize.Time(b.Time)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return ta < tb
}

// Timeline collapses one skater's observations for a single distance into one
// record per competition occurrence. Two dated records within the configured
// window are the same occurrence and the faster time wins in place; on equal
// times the higher-priority source wins. Undated records cluster on a
// competition-name prefix instead.
func Timeline(obs []models.NormalizedResult, cfg models.NormalizeConfig) []models.NormalizedResult {
	sorted := make([]models.NormalizedResult, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := dateSentinel(sorted[i].Date), dateSentinel(sorted[j].Date)
		if di != dj {
			return di < dj
		}
		if sorted[i].Time != sorted[j].Time {
			return sorted[i].Time < sorted[j].Time
		}
		return sorted[i].Tier() < sorted[j].Tier()
	})

	var kept []models.NormalizedResult
	for _, r := range sorted {
		if r.Date == "" {
			if i := findByCompPrefix(kept, r.Competition, cfg.CompetitionKeyLength); i >= 0 {
				if replaces(r, kept[i]) {
					kept[i] = r
				}
				continue
			}
			kept = append(kept, r)
			continue
		}

		clustered := false
		for i, e := range kept {
			if e.Date == "" {
				continue
			}
			if withinDays(r.Date, e.Date, cfg.DateClusterDays) {
				if replaces(r, kept[i]) {
					kept[i] = r
				}
				clustered = true
				break
			}
		}
		if !clustered {
			kept = append(kept, r)
		}
	}
	return kept
}

func replaces(candidate, existing models.NormalizedResult) bool {
	if candidate.Time != existing.Time {
		return candidate.Time < existing.Time
	}
	return candidate.Tier() < existing.Tier()
}

// dateSentinel orders undated records after every dated one.
func dateSentinel(date string) string {
	if date == "" {
		return "9999"
	}
	return date
}

func findByCompPrefix(kept []models.NormalizedResult, comp string, n int) int {
	want := prefix(comp, n)
	for i, e := range kept {
		if prefix(e.Competition, n) == want {
			return i
		}
	}
	return -1
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func withinDays(a, b string, days int) bool {
	da, okA := normalize.Date(a)
	db, okB := normalize.Date(b)
	if !okA || !okB {
		return false
	}
	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) <= days
}

// ByDistance splits one skater's observations per distance.
func ByDistance(obs []models.NormalizedResult) map[int][]models.NormalizedResult {
	out := make(map[int][]models.NormalizedResult)
	for _, r := range obs {
		out[r.Distance] = append(out[r.Distance], r)
	}
	return out
}

// BySkater groups observations by skater key.
func BySkater(obs []models.NormalizedResult) map[string][]models.NormalizedResult {
	out := make(map[string][]models.NormalizedResult)
	for _, r := range obs {
		out[r.SkaterKey] = append(out[r.SkaterKey], r)
	}
	return out
}

// BuildRecords assembles one SkaterRecord per roster athlete from the pooled
// observations of all sources, trying the reversed-name key as a fallback and
// filling remaining gaps from scraped personal bests. Returns the records and
// the count of athletes matched to at least one pooled observation.
func BuildRecords(skaters []models.Skater, bySkater map[string][]models.NormalizedResult, cfg models.NormalizeConfig) ([]models.SkaterRecord, int) {
	var records []models.SkaterRecord
	matched := 0

	for _, sk := range skaters {
		key := normalize.Name(sk.Name)

		var obs []models.NormalizedResult
		obs = append(obs, bySkater[key]...)
		if len(obs) > 0 {
			matched++
		}
		if rk := normalize.ReversedKey(key); rk != key {
			obs = append(obs, bySkater[rk]...)
		}
		obs = append(obs, personalBestFallback(sk, key, obs, cfg)...)
		if len(obs) == 0 {
			continue
		}

		timelines := make(map[int][]models.NormalizedResult)
		for dist, group := range ByDistance(obs) {
			timelines[dist] = Timeline(group, cfg)
		}

		records = append(records, models.SkaterRecord{
			ID:        sk.ID,
			Name:      sk.Name,
			Key:       key,
			Timelines: timelines,
		})
	}

	return records, matched
}

// personalBestFallback converts scraped personal-best rows into observations,
// skipping any competition already covered by a higher-priority source.
func personalBestFallback(sk models.Skater, key string, kept []models.NormalizedResult, cfg models.NormalizeConfig) []models.NormalizedResult {
	if sk.Profile == nil {
		return nil
	}

	var out []models.NormalizedResult
	for _, pb := range sk.Profile.PersonalBests {
		if competitionCovered(kept, pb.Competition) {
			continue
		}

		secs, err := normalize.Time(pb.Time)
		if err != nil {
			continue
		}
		dist, ok := normalize.Distance(pb.Distance, cfg)
		if !ok {
			continue
		}
		if !normalize.PlausibleTime(dist, secs, cfg) {
			continue
		}

		date := ""
		if d, ok := normalize.Date(pb.Date); ok {
			date = d.Format("2006-01-02")
		}

		out = append(out, models.NormalizedResult{
			SkaterKey:   key,
			Distance:    dist,
			Time:        secs,
			TimeStr:     pb.Time,
			Competition: pb.Competition,
			Date:        date,
			Source:      models.SourceWebScraped,
		})
	}
	return out
}

// competitionCovered mirrors the loose substring containment used to decide
// whether a PB's competition is already represented.
func competitionCovered(kept []models.NormalizedResult, comp string) bool {
	for _, r := range kept {
		if strings.Contains(r.Competition, comp) || strings.Contains(comp, r.Competition) {
			return true
		}
	}
	return false
}
