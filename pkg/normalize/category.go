package normalize

import "strings"

// Category normalizes a category/class label to a standard form, e.g.
// "JUNIOR C LADIES" -> "Junior C Women". Labels that match no known pattern
// pass through unchanged.
func Category(raw string) string {
	cat := strings.TrimSpace(raw)
	lower := strings.ToLower(cat)

	isWomen := containsAny(lower, "women", "ladies", "girls", "female")
	isMen := !isWomen && containsAny(lower, "men", "boys", "male")

	gender := func(women, men string) string {
		if isWomen {
			return women
		}
		return men
	}

	for _, group := range []string{"a", "b", "c", "d", "e", "f"} {
		if strings.Contains(lower, "junior "+group) {
			g := strings.ToUpper(group)
			return gender("Junior "+g+" Women", "Junior "+g+" Men")
		}
	}

	switch {
	case strings.Contains(lower, "master"):
		return gender("Masters Women", "Masters Men")
	case strings.Contains(lower, "novice"):
		return gender("Novice Women", "Novice Men")
	case strings.Contains(lower, "nest"):
		return gender("NEST Women", "NEST Men")
	case strings.Contains(lower, "group"):
		// Age-group labels keep their printed form, gender appended.
		if strings.HasSuffix(lower, "women") || strings.HasSuffix(lower, "men") {
			return cat
		}
		return gender(cat+" Women", cat+" Men")
	case cat == "Ladies":
		return "Women"
	case isWomen:
		return "Women"
	case isMen:
		return "Men"
	}

	return cat
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
