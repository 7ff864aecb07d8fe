package normalize

import (
	"regexp"
	"strings"
)

var (
	compDateRangeRe = regexp.MustCompile(`\d{2}\.\d{2}\.\s*-\s*\d{2}\.\d{2}\.\d{4},?\s*`)
	compYearRe      = regexp.MustCompile(`\d{4}`)
	compOrdinalRe   = regexp.MustCompile(`(?i)\d+(st|nd|rd|th)`)
	compNumberRe    = regexp.MustCompile(`#\d+`)
	compPunctRe     = regexp.MustCompile(`[,\-]`)
)

// Competition reduces a competition name to its matching key. The same
// physical event appears under different surface forms across sources
// ("11.11. - 13.11.2022, 36th Silver Skates, Chicago IL" vs "Silver Skates
// Chicago"), so embedded dates, years, ordinals, numbering, punctuation and
// trailing location tokens are all stripped. The key is an approximate
// match key, not an exact identity.
func Competition(name string, locationSuffixes []string) string {
	s := compDateRangeRe.ReplaceAllString(name, "")
	s = compYearRe.ReplaceAllString(s, "")
	s = compOrdinalRe.ReplaceAllString(s, "")
	s = compNumberRe.ReplaceAllString(s, "")
	s = compPunctRe.ReplaceAllString(s, " ")
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))

	for changed := true; changed; {
		changed = false
		for _, loc := range locationSuffixes {
			if strings.HasSuffix(s, " "+loc) {
				s = strings.TrimSpace(strings.TrimSuffix(s, " "+loc))
				changed = true
			}
		}
	}
	return s
}
