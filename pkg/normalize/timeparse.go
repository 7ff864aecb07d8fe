package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Time parses a printed race time into total seconds. Supported shapes are
// "MM:SS.fff", "H:MM:SS.fff" and bare "SS.fff".
func Time(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			mins, err1 := strconv.ParseFloat(parts[0], 64)
			secs, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return 0, fmt.Errorf("unparseable time %q", raw)
			}
			return mins*60 + secs, nil
		case 3:
			hours, err1 := strconv.ParseFloat(parts[0], 64)
			mins, err2 := strconv.ParseFloat(parts[1], 64)
			secs, err3 := strconv.ParseFloat(parts[2], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return 0, fmt.Errorf("unparseable time %q", raw)
			}
			return hours*3600 + mins*60 + secs, nil
		default:
			return 0, fmt.Errorf("unparseable time %q", raw)
		}
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable time %q", raw)
	}
	return secs, nil
}

var (
	// "11.11. - 13.11.2022" style date ranges; the range start is the date.
	dateRangeRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.\s*-\s*\d{1,2}\.\d{1,2}\.(\d{4})`)
	dottedDateRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
)

// Date parses the calendar date embedded in a string. ISO "YYYY-MM-DD" is
// tried first, then European "DD.MM. - DD.MM.YYYY" ranges and "DD.MM.YYYY".
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}

	if m := dateRangeRe.FindStringSubmatch(s); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}

	if m := dottedDateRe.FindStringSubmatch(s); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1]); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func makeDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}
