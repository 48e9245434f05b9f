package schema_test

import (
	"testing"

	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		stars    int
		expected string
	}{
		{"Five Stars", 5, "High"},
		{"Four Stars", 4, "High"},
		{"Three Stars", 3, "Moderate"},
		{"Two Stars", 2, "Low"},
		{"One Star", 1, "Low"},
		{"Zero Stars", 0, "Low"}, // Edge case
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.stars))
		})
	}
}

func TestEnrichResult(t *testing.T) {
	aries := schema.ZodiacSign{ID: 0, Name: "Aries", Icon: "♈"}
	leo := schema.ZodiacSign{ID: 4, Name: "Leo", Icon: "♌"}
	result := schema.PredictionResult{TotalScore: 33, MaxScore: 35, Percentage: 94, Stars: 5, ScoreLabel: "Destined Soulmates"}

	enriched := schema.EnrichResult(aries, leo, result)

	assert.Equal(t, "Aries", enriched.SignA.Name)
	assert.Equal(t, "Leo", enriched.SignB.Name)
	assert.Equal(t, "High", enriched.Label)
	assert.True(t, enriched.IsHighScore)
	assert.False(t, enriched.IsLowScore)
	assert.Equal(t, 33, enriched.TotalScore)
}

func TestEnrichTiers(t *testing.T) {
	tiers := []schema.ScoreRange{
		{Min: 0, Max: 10, Stars: 1, Label: "Rough"},
		{Min: 11, Max: 24, Stars: 3, Label: "Fair"},
		{Min: 25, Max: 35, Stars: 5, Label: "Great"},
	}

	enriched := schema.EnrichTiers(tiers)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, "Low", enriched[0].Label)
	assert.Equal(t, "Moderate", enriched[1].Label)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, "High", enriched[2].Label)
	assert.Equal(t, "Great", enriched[2].ScoreRange.Label)
}
