// Package classifier tags result-PDF pages with their printed layout.
package classifier

import "strings"

// Layout identifies the printed layout of one results-PDF page.
type Layout int

const (
	// Unknown pages produce no results; they are not an error.
	Unknown Layout = iota
	// TimeClassification is the championship layout: distance headers,
	// category headers, then "<rank> <bib> <name> <time>" rows.
	TimeClassification
	// EventTimeResults is the local-meet layout: "<distance>M <category>"
	// headers, then unranked "<bib> <NAME> <time>" rows.
	EventTimeResults
)

func (l Layout) String() string {
	switch l {
	case TimeClassification:
		return "time_classification"
	case EventTimeResults:
		return "event_time_results"
	}
	return "unknown"
}

// Classify decides the layout by the literal marker phrases the timing
// software prints on each page.
func Classify(pageText string) Layout {
	switch {
	case strings.Contains(pageText, "Time Classification"):
		return TimeClassification
	case strings.Contains(pageText, "Event Time Results"):
		return EventTimeResults
	}
	return Unknown
}
