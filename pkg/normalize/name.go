// Package normalize canonicalizes the surface forms found in race results:
// skater names, competition names, distances, times and dates. Everything in
// here is a pure function over its inputs; thresholds come from the config.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Club/country affiliation suffixes like "USA-PSSP" or "CAN-OVAL".
	clubSuffixRe = regexp.MustCompile(`(?i)\s+[a-z]{2,3}-[a-z0-9]+$`)
	// Bare trailing country codes.
	countrySuffixRe = regexp.MustCompile(`(?i)\s+(usa|can|chn|kor|jpn|ned|ita|rus|gbr|ger|fra|aus)$`)
	leadingDigitsRe = regexp.MustCompile(`^\d+`)
	trailingStarsRe = regexp.MustCompile(`\*+$`)
)

// Name reduces a printed skater name to its canonical matching key:
// lowercase, affiliation stripped, "LAST First" reordered to "First Last".
// Two spellings that reduce to the same key are treated as the same athlete;
// this is the sole identity mechanism. Idempotent.
func Name(raw string) string {
	name := strings.ReplaceAll(raw, " ", " ")
	name = strings.TrimSpace(name)
	name = clubSuffixRe.ReplaceAllString(name, "")
	name = countrySuffixRe.ReplaceAllString(name, "")
	name = leadingDigitsRe.ReplaceAllString(name, "")
	name = trailingStarsRe.ReplaceAllString(name, "")

	// Results sheets print the family name first in caps ("SEARS Liam").
	// Reorder to the spoken form before lowercasing.
	parts := strings.Fields(name)
	if len(parts) >= 2 && isAllUpper(parts[0]) && !isAllUpper(parts[1]) {
		name = strings.Join(parts[1:], " ") + " " + parts[0]
	}

	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), " ")
}

// ReversedKey returns the key with the last token moved to the front, used as
// a fallback lookup when a source prints "First Last" instead of "Last First".
func ReversedKey(key string) string {
	parts := strings.Fields(key)
	if len(parts) < 2 {
		return key
	}
	return parts[len(parts)-1] + " " + strings.Join(parts[:len(parts)-1], " ")
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
		}
	}
	return hasLetter
}
