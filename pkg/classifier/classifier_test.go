package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, TimeClassification, Classify("Results\nTime Classification\n500 Meters"))
	assert.Equal(t, EventTimeResults, Classify("Event Time Results\n500M Women"))
	assert.Equal(t, Unknown, Classify("Relay Standings"))
	assert.Equal(t, Unknown, Classify(""))

	// A page carrying both markers is the championship layout.
	assert.Equal(t, TimeClassification, Classify("Time Classification\nEvent Time Results"))
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "time_classification", TimeClassification.String())
	assert.Equal(t, "event_time_results", EventTimeResults.String())
	assert.Equal(t, "unknown", Unknown.String())
}
