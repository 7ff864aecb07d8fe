package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gchen/shorttrack-results/models"
)

var distanceDigitsRe = regexp.MustCompile(`\d+`)

// LowerDistance folds a printed distance label to its lookup form ("500M" ->
// "500m").
func LowerDistance(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseDistance extracts the integer meters from a printed distance ("500m").
func ParseDistance(raw string) (int, bool) {
	m := distanceDigitsRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	d, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Distance buckets a raw lap-derived distance into a standard event distance.
// The first matching bucket wins; buckets are expected to be disjoint (see
// ValidateBuckets). Values outside every bucket are discarded, never kept as
// odd distances.
func Distance(raw int, cfg models.NormalizeConfig) (int, bool) {
	if raw <= 0 {
		return 0, false
	}
	if cfg.MinRawDistance > 0 && raw < cfg.MinRawDistance {
		return 0, false
	}
	if cfg.MaxRawDistance > 0 && raw > cfg.MaxRawDistance {
		return 0, false
	}
	for _, b := range cfg.DistanceBuckets {
		if raw >= b.Min && raw <= b.Max {
			return b.Standard, true
		}
	}
	for _, std := range cfg.StandardDistances {
		if raw == std {
			return raw, true
		}
	}
	return 0, false
}

// PlausibleTime reports whether a (distance, seconds) pair falls inside the
// configured closed interval for that distance. Out-of-range values are
// data-entry errors, not slow skaters.
func PlausibleTime(distance int, secs float64, cfg models.NormalizeConfig) bool {
	if secs <= 0 || distance <= 0 {
		return false
	}
	if b, ok := cfg.TimeBounds[distance]; ok {
		return secs >= b.Min && secs <= b.Max
	}
	return secs >= cfg.DefaultTimeBound.Min && secs <= cfg.DefaultTimeBound.Max
}

// ValidateBuckets rejects bucket tables whose ranges overlap, which would
// make Distance depend on table order.
func ValidateBuckets(cfg models.NormalizeConfig) error {
	for i, a := range cfg.DistanceBuckets {
		if a.Min > a.Max {
			return fmt.Errorf("bucket %d-%d is inverted", a.Min, a.Max)
		}
		for _, b := range cfg.DistanceBuckets[i+1:] {
			if a.Min <= b.Max && b.Min <= a.Max {
				return fmt.Errorf("buckets %d-%d and %d-%d overlap", a.Min, a.Max, b.Min, b.Max)
			}
		}
	}
	return nil
}
