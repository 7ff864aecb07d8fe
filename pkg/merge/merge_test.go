package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gchen/shorttrack-results/models"
)

func TestBestPerGroup(t *testing.T) {
	in := []models.RawResult{
		{Rank: 2, Skater: "Marcus Howard", Time: "1:03.120", Distance: "500m", Category: "Junior C Men"},
		{Rank: 1, Skater: "MARCUS HOWARD", Time: "1:02.734", Distance: "500m", Category: "Junior C Men"},
		{Rank: 1, Skater: "Marcus Howard", Time: "2:12.734", Distance: "1000m", Category: "Junior C Men"},
		{Rank: 3, Skater: "Stella Hurley", Time: "1:04.500", Distance: "500m", Category: "Junior C Women"},
	}

	out := BestPerGroup(in)

	require.Len(t, out, 3)
	// Case-insensitive skater key; the faster duplicate wins, first
	// appearance keeps the slot.
	assert.Equal(t, "1:02.734", out[0].Time)
	assert.Equal(t, "2:12.734", out[1].Time)
	assert.Equal(t, "Stella Hurley", out[2].Skater)
}

func TestBestPerGroupKeepsOnlyFastest(t *testing.T) {
	in := []models.RawResult{
		{Skater: "A", Time: "45.100", Distance: "500m"},
		{Skater: "A", Time: "44.900", Distance: "500m"},
		{Skater: "A", Time: "46.000", Distance: "500m"},
	}
	out := BestPerGroup(in)
	require.Len(t, out, 1)
	assert.Equal(t, "44.900", out[0].Time)
}

func TestBestPerGroupUnparseableTimeNeverWins(t *testing.T) {
	in := []models.RawResult{
		{Skater: "A", Time: "45.100", Distance: "500m"},
		{Skater: "A", Time: "DNF", Distance: "500m"},
	}
	out := BestPerGroup(in)
	require.Len(t, out, 1)
	assert.Equal(t, "45.100", out[0].Time)
}

func TestTimelineClustersNearbyDates(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{Distance: 500, Time: 44.1, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceOfficialPDF},
		{Distance: 500, Time: 43.8, Date: "2023-11-12", Competition: "Silver Skates Day 2", Source: models.SourceOfficialPDF},
		{Distance: 500, Time: 44.5, Date: "2023-12-02", Competition: "Desert Classic", Source: models.SourceOfficialPDF},
	}

	kept := Timeline(obs, cfg)

	require.Len(t, kept, 2)
	// The two November days are one occurrence; the faster time survives.
	assert.Equal(t, 43.8, kept[0].Time)
	assert.Equal(t, 44.5, kept[1].Time)
}

func TestTimelineRespectsClusterWindow(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{Distance: 500, Time: 44.1, Date: "2023-11-11", Competition: "A", Source: models.SourceOfficialPDF},
		{Distance: 500, Time: 43.8, Date: "2023-11-14", Competition: "B", Source: models.SourceOfficialPDF},
	}

	kept := Timeline(obs, cfg)
	assert.Len(t, kept, 2, "three days apart must stay separate occurrences")
}

func TestTimelineEqualTimesPreferHigherTierSource(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{Distance: 500, Time: 44.1, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceWebScraped},
		{Distance: 500, Time: 44.1, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceOfficialPDF},
	}

	kept := Timeline(obs, cfg)
	require.Len(t, kept, 1)
	assert.Equal(t, models.SourceOfficialPDF, kept[0].Source)
}

func TestTimelineUndatedClustersOnCompetitionPrefix(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{Distance: 500, Time: 44.5, Competition: "US Short Track Championships #1 Salt Lake City", Source: models.SourceWebScraped},
		{Distance: 500, Time: 44.2, Competition: "US Short Track Championships #1 Day 2", Source: models.SourceWebScraped},
		{Distance: 500, Time: 45.0, Competition: "Desert Classic", Source: models.SourceWebScraped},
	}

	kept := Timeline(obs, cfg)

	require.Len(t, kept, 2)
	times := []float64{kept[0].Time, kept[1].Time}
	assert.Contains(t, times, 44.2)
	assert.Contains(t, times, 45.0)
	assert.NotContains(t, times, 44.5)
}

func TestTimelineNeverInventsTimes(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{Distance: 500, Time: 44.1, Date: "2023-11-11", Competition: "A", Source: models.SourceOfficialPDF},
		{Distance: 500, Time: 43.8, Date: "2023-11-12", Competition: "A", Source: models.SourceHistorical},
		{Distance: 500, Time: 44.9, Competition: "B", Source: models.SourceWebScraped},
	}

	inputTimes := map[float64]bool{}
	for _, o := range obs {
		inputTimes[o.Time] = true
	}

	for _, r := range Timeline(obs, cfg) {
		assert.True(t, inputTimes[r.Time], "time %v not present in input", r.Time)
	}
}

func TestBuildRecords(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{SkaterKey: "daniel chen", Distance: 500, Time: 41.2, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceOfficialPDF},
		{SkaterKey: "daniel chen", Distance: 1000, Time: 85.6, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceOfficialPDF},
	}
	skaters := []models.Skater{
		{ID: "sk1", Name: "CHEN Daniel USA-PSSP"},
		{ID: "sk2", Name: "Nobody Here"},
	}

	records, matched := BuildRecords(skaters, BySkater(obs), cfg)

	assert.Equal(t, 1, matched)
	require.Len(t, records, 1)
	assert.Equal(t, "sk1", records[0].ID)
	assert.Len(t, records[0].Timelines[500], 1)
	assert.Len(t, records[0].Timelines[1000], 1)
}

func TestBuildRecordsReversedKeyFallback(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	// The source printed "Chen Daniel" with no caps hint, so its key comes
	// out reversed relative to the roster's.
	obs := []models.NormalizedResult{
		{SkaterKey: "chen daniel", Distance: 500, Time: 41.2, Date: "2023-11-11", Competition: "Silver Skates", Source: models.SourceOfficialPDF},
	}
	skaters := []models.Skater{{ID: "sk1", Name: "Daniel Chen"}}

	records, _ := BuildRecords(skaters, BySkater(obs), cfg)

	require.Len(t, records, 1)
	assert.Len(t, records[0].Timelines[500], 1)
}

func TestPersonalBestFallback(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	skaters := []models.Skater{{
		ID:   "sk1",
		Name: "Daniel Chen",
		Profile: &models.SkaterProfile{
			PersonalBests: []models.PersonalBest{
				{Distance: 500, Time: "41.002", Date: "2022-03-05", Competition: "Desert Classic"},
				{Distance: 1000, Time: "nonsense"},
				{Distance: 500, Time: "12.000", Competition: "Glitch Cup"}, // implausible for 500m
			},
		},
	}}

	records, matched := BuildRecords(skaters, map[string][]models.NormalizedResult{}, cfg)

	assert.Zero(t, matched, "PB fallback alone does not count as matched")
	require.Len(t, records, 1)
	require.Len(t, records[0].Timelines[500], 1)
	pb := records[0].Timelines[500][0]
	assert.Equal(t, models.SourceWebScraped, pb.Source)
	assert.Equal(t, "2022-03-05", pb.Date)
	assert.InDelta(t, 41.002, pb.Time, 0.0001)
}

func TestPersonalBestSkippedWhenCompetitionCovered(t *testing.T) {
	cfg := models.DefaultNormalizeConfig()

	obs := []models.NormalizedResult{
		{SkaterKey: "daniel chen", Distance: 500, Time: 41.2, Date: "2023-11-11", Competition: "Desert Classic Phoenix", Source: models.SourceOfficialPDF},
	}
	skaters := []models.Skater{{
		ID:   "sk1",
		Name: "Daniel Chen",
		Profile: &models.SkaterProfile{
			PersonalBests: []models.PersonalBest{
				{Distance: 500, Time: "41.002", Competition: "Desert Classic"},
			},
		},
	}}

	records, _ := BuildRecords(skaters, BySkater(obs), cfg)

	require.Len(t, records, 1)
	require.Len(t, records[0].Timelines[500], 1)
	assert.Equal(t, models.SourceOfficialPDF, records[0].Timelines[500][0].Source)
}
