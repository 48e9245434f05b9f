package core

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huangsam/destiny/internal/datatable"
	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures observer calls for assertions.
type recordingObserver struct {
	mu          sync.Mutex
	evaluations []observedEvaluation
	shares      []observedShare
}

type observedEvaluation struct {
	stars, skipped int
}

type observedShare struct {
	sink   string
	status schema.ShareStatus
}

func (o *recordingObserver) ObserveEvaluation(stars, skipped int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evaluations = append(o.evaluations, observedEvaluation{stars: stars, skipped: skipped})
}

func (o *recordingObserver) ObserveShare(sink string, status schema.ShareStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shares = append(o.shares, observedShare{sink: sink, status: status})
}

// defaultTable returns the embedded data table.
func defaultTable(t *testing.T) *schema.DataTable {
	t.Helper()
	table, err := datatable.Default()
	require.NoError(t, err)
	return table
}

var sevenCategories = []string{"Love", "Communication", "Trust", "Passion", "Lifestyle", "Finance", "Family"}

var testTiers = []schema.ScoreRange{
	{Min: 0, Max: 10, Stars: 1, Label: "Challenging Match", Predictions: []string{"low"}},
	{Min: 11, Max: 17, Stars: 2, Label: "Needs Effort", Predictions: []string{"effort"}},
	{Min: 18, Max: 24, Stars: 3, Label: "Good Potential", Predictions: []string{"good"}},
	{Min: 25, Max: 30, Stars: 4, Label: "Great Match", Predictions: []string{"great"}},
	{Min: 31, Max: 35, Stars: 5, Label: "Destined Soulmates", Predictions: []string{"destined"}},
}

// uniformTable builds a two-sign table where every category scores value for (0, 1).
// Categories listed in missing have no entry for the pair.
func uniformTable(value int, missing ...int) *schema.DataTable {
	signs := []schema.ZodiacSign{{ID: 0, Name: "Aries"}, {ID: 1, Name: "Taurus"}}
	skip := make(map[int]bool, len(missing))
	for _, i := range missing {
		skip[i] = true
	}
	matrices := make([]schema.CompatibilityMatrix, len(sevenCategories))
	for i := range sevenCategories {
		matrices[i] = schema.CompatibilityMatrix{}
		if !skip[i] {
			matrices[i][0] = map[int]int{1: value}
		}
	}
	return schema.NewDataTable(signs, sevenCategories, matrices, testTiers)
}

func TestEvaluateDefaultTable(t *testing.T) {
	ev := NewEvaluator(defaultTable(t), WithSeed(7))

	tests := []struct {
		name       string
		a, b       int
		total      int
		percentage int
		stars      int
		label      string
	}{
		{"aries leo", 0, 4, 29, 83, 4, "Great Match"},
		{"taurus pisces", 1, 11, 33, 94, 5, "Destined Soulmates"},
		{"aries cancer", 0, 3, 3, 9, 1, "Challenging Match"},
		{"cancer aries", 3, 0, 9, 26, 1, "Challenging Match"},
		{"taurus taurus", 1, 1, 30, 86, 4, "Great Match"},
		{"libra gemini", 6, 2, 27, 77, 4, "Great Match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ev.Evaluate(tt.a, tt.b)
			assert.Equal(t, tt.total, r.TotalScore)
			assert.Equal(t, 35, r.MaxScore)
			assert.Equal(t, tt.percentage, r.Percentage)
			assert.Equal(t, tt.stars, r.Stars)
			assert.Equal(t, tt.label, r.ScoreLabel)
			require.Len(t, r.CategoryScores, 7)

			sum := 0
			for i, cs := range r.CategoryScores {
				assert.Equal(t, sevenCategories[i], cs.Category)
				assert.Equal(t, schema.MaxCategoryScore, cs.Max)
				sum += cs.Score
			}
			assert.Equal(t, r.TotalScore, sum)
		})
	}
}

func TestEvaluateBreakdown(t *testing.T) {
	r := NewEvaluator(defaultTable(t), WithSeed(1)).Evaluate(0, 4)

	want := []schema.CategoryScore{
		{Category: "Love", Score: 4, Max: 5},
		{Category: "Communication", Score: 4, Max: 5},
		{Category: "Trust", Score: 4, Max: 5},
		{Category: "Passion", Score: 5, Max: 5},
		{Category: "Lifestyle", Score: 5, Max: 5},
		{Category: "Finance", Score: 3, Max: 5},
		{Category: "Family", Score: 4, Max: 5},
	}
	if diff := cmp.Diff(want, r.CategoryScores); diff != "" {
		t.Errorf("category scores mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateIsNotSymmetric(t *testing.T) {
	ev := NewEvaluator(defaultTable(t))
	ab := ev.Evaluate(0, 3)
	ba := ev.Evaluate(3, 0)

	assert.Equal(t, 0, ab.CategoryScores[0].Score)
	assert.Equal(t, 1, ba.CategoryScores[0].Score)
	assert.NotEqual(t, ab.TotalScore, ba.TotalScore)
}

func TestEvaluateAllFives(t *testing.T) {
	r := NewEvaluator(uniformTable(5)).Evaluate(0, 1)

	assert.Equal(t, 35, r.TotalScore)
	assert.Equal(t, 100, r.Percentage)
	assert.Equal(t, 5, r.Stars)
	assert.Equal(t, "Destined Soulmates", r.ScoreLabel)
	assert.Equal(t, "destined", r.PredictionText)
	assert.True(t, r.IsHighScore())
	assert.False(t, r.IsLowScore())
}

func TestEvaluateMissingCategory(t *testing.T) {
	obs := &recordingObserver{}
	r := NewEvaluator(uniformTable(5, 2), WithObserver(obs)).Evaluate(0, 1)

	require.Len(t, r.CategoryScores, 6)
	assert.Equal(t, 30, r.TotalScore)
	assert.Equal(t, 35, r.MaxScore)
	assert.Equal(t, 86, r.Percentage) // round(30/35*100), denominator stays fixed
	assert.Equal(t, 4, r.Stars)
	for _, cs := range r.CategoryScores {
		assert.NotEqual(t, "Trust", cs.Category)
	}
	assert.Equal(t, []observedEvaluation{{stars: 4, skipped: 1}}, obs.evaluations)
}

func TestEvaluateZeroTotal(t *testing.T) {
	r := NewEvaluator(uniformTable(0)).Evaluate(0, 1)

	assert.Equal(t, 0, r.TotalScore)
	assert.Equal(t, 0, r.Percentage)
	assert.Equal(t, 1, r.Stars)
	assert.Equal(t, "low", r.PredictionText)
	assert.True(t, r.IsLowScore())
}

func TestEvaluateUnknownPair(t *testing.T) {
	r := NewEvaluator(uniformTable(5)).Evaluate(1, 0)

	assert.NotNil(t, r.CategoryScores)
	assert.Empty(t, r.CategoryScores)
	assert.Equal(t, 0, r.TotalScore)
	assert.Equal(t, "Challenging Match", r.ScoreLabel)
}

func TestEvaluateTierFallback(t *testing.T) {
	tiers := []schema.ScoreRange{
		{Min: 10, Max: 20, Stars: 2, Label: "first", Predictions: []string{"first"}},
		{Min: 21, Max: 35, Stars: 4, Label: "second", Predictions: []string{"second"}},
	}
	signs := []schema.ZodiacSign{{ID: 0, Name: "Aries"}, {ID: 1, Name: "Taurus"}}
	matrices := []schema.CompatibilityMatrix{{0: {1: 3}}}
	table := schema.NewDataTable(signs, []string{"Love"}, matrices, tiers)

	r := NewEvaluator(table).Evaluate(0, 1)
	assert.Equal(t, 3, r.TotalScore)
	assert.Equal(t, "first", r.ScoreLabel)
	assert.Equal(t, 60, r.Percentage)
}

func TestEvaluateOverlappingTiersFirstWins(t *testing.T) {
	tiers := []schema.ScoreRange{
		{Min: 0, Max: 5, Stars: 1, Label: "first", Predictions: []string{"a"}},
		{Min: 3, Max: 5, Stars: 3, Label: "second", Predictions: []string{"b"}},
	}
	signs := []schema.ZodiacSign{{ID: 0, Name: "Aries"}}
	table := schema.NewDataTable(signs, []string{"Love"}, []schema.CompatibilityMatrix{{0: {0: 4}}}, tiers)

	assert.Equal(t, "first", NewEvaluator(table).Evaluate(0, 0).ScoreLabel)
}

func TestEvaluatePredictionFromTier(t *testing.T) {
	table := defaultTable(t)
	ev := NewEvaluator(table)
	great := table.Tiers()[3]

	for range 50 {
		r := ev.Evaluate(0, 4)
		assert.Contains(t, great.Predictions, r.PredictionText)
	}
}

func TestEvaluateSeededIsReproducible(t *testing.T) {
	first := NewEvaluator(defaultTable(t), WithSeed(42))
	second := NewEvaluator(defaultTable(t), WithSeed(42))

	for range 20 {
		assert.Equal(t, first.Evaluate(1, 11), second.Evaluate(1, 11))
	}
}

func TestEvaluateIdempotentExceptPrediction(t *testing.T) {
	ev := NewEvaluator(defaultTable(t))
	a := ev.Evaluate(6, 2)
	b := ev.Evaluate(6, 2)

	a.PredictionText, b.PredictionText = "", ""
	assert.Equal(t, a, b)
}

func TestEvaluateConcurrent(t *testing.T) {
	ev := NewEvaluator(defaultTable(t), WithSeed(3))

	var wg sync.WaitGroup
	for i := range 12 {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			for b := range 12 {
				r := ev.Evaluate(a, b)
				assert.Len(t, r.CategoryScores, 7)
				assert.NotEmpty(t, r.PredictionText)
			}
		}(i)
	}
	wg.Wait()
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 83, percentage(29, 35))
	assert.Equal(t, 100, percentage(35, 35))
	assert.Equal(t, 0, percentage(0, 35))
	assert.Equal(t, 0, percentage(10, 0))
	assert.Equal(t, 50, percentage(1, 2))
}

func TestResolveTierEmpty(t *testing.T) {
	assert.Equal(t, schema.ScoreRange{}, resolveTier(nil, 12))
}

func TestEvaluatorTable(t *testing.T) {
	table := uniformTable(1)
	assert.Same(t, table, NewEvaluator(table).Table())
}
