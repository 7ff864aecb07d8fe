package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gchen/shorttrack-results/models"
)

func testConfig() models.ValidateConfig {
	return models.DefaultConfig().Validate
}

func TestValidateRankDiscrepancy(t *testing.T) {
	official := []models.RawResult{
		{Skater: "SHUAI Sean", Rank: 5, Time: "41.267", Distance: "500m", Competition: "2024 Desert Classic"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 4}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "41.267", rep.Matches[0].OfficialTime)

	// Both sources carry a rank and they disagree: exactly one discrepancy.
	require.Len(t, rep.Discrepancies, 1)
	assert.Equal(t, 4, rep.Discrepancies[0].SecondaryRank)
	assert.Equal(t, 5, rep.Discrepancies[0].OfficialPlace)

	require.Len(t, rep.Summary, 1)
	assert.Equal(t, models.StatusPartial, rep.Summary[0].Status)
}

func TestValidateAgreedRanks(t *testing.T) {
	official := []models.RawResult{
		{Skater: "SHUAI Sean", Rank: 4, Time: "41.267", Distance: "500m", Competition: "2024 Desert Classic"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 4}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	assert.Len(t, rep.Matches, 1)
	assert.Empty(t, rep.Discrepancies)
	assert.Equal(t, models.StatusMatched, rep.Summary[0].Status)
}

func TestValidateMissingRankIsNotADiscrepancy(t *testing.T) {
	official := []models.RawResult{
		{Skater: "SHUAI Sean", Rank: 5, Time: "41.267", Distance: "500m", Competition: "Desert Classic"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic"}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	assert.Len(t, rep.Matches, 1)
	assert.Empty(t, rep.Discrepancies)
}

func TestValidateCompetitionExistsButSkaterMissing(t *testing.T) {
	official := []models.RawResult{
		{Skater: "HOWARD Marcus", Rank: 1, Time: "40.900", Distance: "500m", Competition: "Desert Classic"},
		{Skater: "SHUAI Sean", Rank: 2, Time: "41.100", Distance: "500m", Competition: "Silver Skates"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 3}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	assert.Empty(t, rep.Matches)
	require.Len(t, rep.NotFound, 1)
	assert.Contains(t, rep.NotFound[0].Note, "skater not found")
	// Present in the official data elsewhere, so presence is verified.
	assert.Equal(t, models.StatusVerifiedPresence, rep.Summary[0].Status)
}

func TestValidateCompetitionAbsent(t *testing.T) {
	official := []models.RawResult{
		{Skater: "HOWARD Marcus", Rank: 1, Time: "40.900", Distance: "500m", Competition: "Silver Skates"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 3}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	require.Len(t, rep.NotFound, 1)
	assert.Contains(t, rep.NotFound[0].Note, "Competition not found")
	assert.Equal(t, models.StatusNotInPDF, rep.Summary[0].Status)
}

func TestValidateNoEvents(t *testing.T) {
	rep := NewIndex(nil, testConfig()).Validate([]models.Skater{{Name: "Sean Shuai"}})

	require.Len(t, rep.Summary, 1)
	assert.Equal(t, models.StatusNone, rep.Summary[0].Status)
}

func TestValidateNearMiss(t *testing.T) {
	official := []models.RawResult{
		{Skater: "SHUAY Sean", Rank: 2, Time: "41.100", Distance: "500m", Competition: "Desert Classic"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 2}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)

	assert.Empty(t, rep.Matches)
	require.Len(t, rep.NearMisses, 1)
	assert.Equal(t, "sean shuay", rep.NearMisses[0].Candidate)
	assert.GreaterOrEqual(t, rep.NearMisses[0].Similarity, testConfig().NearMissThreshold)
}

func TestValidateNearMissOrderIsStable(t *testing.T) {
	official := []models.RawResult{
		{Skater: "SHUAY Sean", Rank: 2, Time: "41.100", Distance: "500m", Competition: "Desert Classic"},
		{Skater: "SHUAY Sean", Rank: 3, Time: "85.300", Distance: "1000m", Competition: "Desert Classic"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Desert Classic", BestRank: 2}}},
	}

	idx := NewIndex(official, testConfig())
	for i := 0; i < 10; i++ {
		rep := idx.Validate(skaters)
		require.Len(t, rep.NearMisses, 2)
		assert.Equal(t, "500m", rep.NearMisses[0].Distance)
		assert.Equal(t, "1000m", rep.NearMisses[1].Distance)
	}
}

func TestValidateNormalizesSurfaceForms(t *testing.T) {
	// Date-range prefix, ordinal, and location suffix on the official side;
	// a bare name on the scraped side.
	official := []models.RawResult{
		{Skater: "SHUAI Sean", Rank: 1, Time: "41.267", Distance: "500M", Competition: "11.11. - 13.11.2023, 36th Silver Skates, Chicago IL"},
	}
	skaters := []models.Skater{
		{Name: "Sean Shuai", Events: []models.SkaterEvent{{Name: "Silver Skates Chicago", BestRank: 1}}},
	}

	rep := NewIndex(official, testConfig()).Validate(skaters)
	assert.Len(t, rep.Matches, 1)
}
