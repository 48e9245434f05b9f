//go:build basic

package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchOutput struct {
	SignA struct {
		Name string `json:"name"`
	} `json:"sign_a"`
	SignB struct {
		Name string `json:"name"`
	} `json:"sign_b"`
	TotalScore int    `json:"total_score"`
	Percentage int    `json:"percentage"`
	Stars      int    `json:"stars"`
	ScoreLabel string `json:"score_label"`
}

// TestMatchScores verifies the built-in table end to end through the CLI.
func TestMatchScores(t *testing.T) {
	home := t.TempDir()

	tests := []struct {
		a, b       string
		total      int
		percentage int
		stars      int
	}{
		{"aries", "leo", 29, 83, 4},
		{"1", "11", 33, 94, 5},
		{"aries", "cancer", 3, 9, 1},
		{"cancer", "aries", 9, 26, 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			out, err := runDestiny(t, home, nil, "match", tt.a, tt.b, "--output", "json", "--session-backend", "none")
			require.NoError(t, err)

			var got matchOutput
			require.NoError(t, json.Unmarshal(out, &got))
			assert.Equal(t, tt.total, got.TotalScore)
			assert.Equal(t, tt.percentage, got.Percentage)
			assert.Equal(t, tt.stars, got.Stars)
		})
	}
}

// TestSessionFlow selects signs one at a time and evaluates the stored session.
func TestSessionFlow(t *testing.T) {
	home := t.TempDir()

	_, err := runDestiny(t, home, nil, "select", "a", "taurus", "--output", "json")
	require.NoError(t, err)

	// One selection is not enough
	_, err = runDestiny(t, home, nil, "match", "--output", "json")
	require.Error(t, err)

	_, err = runDestiny(t, home, nil, "select", "b", "♓", "--output", "json")
	require.NoError(t, err)

	out, err := runDestiny(t, home, nil, "match", "--output", "json", "--seed", "7")
	require.NoError(t, err)
	var got matchOutput
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "Taurus", got.SignA.Name)
	assert.Equal(t, "Pisces", got.SignB.Name)
	assert.Equal(t, "Destined Soulmates", got.ScoreLabel)

	out, err = runDestiny(t, home, nil, "share", "--share-mode", "manual")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Taurus ❤️ Pisces")
	assert.Contains(t, string(out), "(33/35 points)")

	_, err = runDestiny(t, home, nil, "reset", "--output", "json")
	require.NoError(t, err)
	_, err = runDestiny(t, home, nil, "share", "--share-mode", "manual")
	require.Error(t, err)
}

// TestCatalogs checks the signs and tiers listings.
func TestCatalogs(t *testing.T) {
	home := t.TempDir()

	out, err := runDestiny(t, home, nil, "signs", "--output", "csv", "--session-backend", "none")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Len(t, lines, 13)

	out, err = runDestiny(t, home, nil, "tiers", "--output", "json", "--session-backend", "none")
	require.NoError(t, err)
	var tiers []map[string]any
	require.NoError(t, json.Unmarshal(out, &tiers))
	assert.Len(t, tiers, 5)
}

// TestHistoryExport records predictions in SQLite and exports them to Parquet.
func TestHistoryExport(t *testing.T) {
	home := t.TempDir()
	env := []string{"DESTINY_HISTORY_BACKEND=sqlite"}

	for _, pair := range [][2]string{{"aries", "leo"}, {"libra", "gemini"}} {
		_, err := runDestiny(t, home, env, "match", pair[0], pair[1], "--output", "json")
		require.NoError(t, err)
	}

	out, err := runDestiny(t, home, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "destiny_predictions: 2 rows")

	out, err = runDestiny(t, home, env, "history", "export", "--output-file", home+"/export")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Exported 2 predictions")
	assert.FileExists(t, home+"/export.predictions.parquet")
	assert.FileExists(t, home+"/export.share_events.parquet")
}
