package core

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/huangsam/destiny/schema"
)

// Observer receives a summary of every evaluation and share attempt.
type Observer interface {
	ObserveEvaluation(stars, skipped int, elapsed time.Duration)
	ObserveShare(sink string, status schema.ShareStatus)
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithRand sets the random source used to pick predictions.
func WithRand(r *rand.Rand) EvaluatorOption {
	return func(e *Evaluator) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed makes prediction choice reproducible.
func WithSeed(seed uint64) EvaluatorOption {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// WithObserver attaches an evaluation observer.
func WithObserver(o Observer) EvaluatorOption {
	return func(e *Evaluator) {
		e.observer = o
	}
}

// Evaluator scores sign pairs against a data table.
// The random source is its only mutable state.
type Evaluator struct {
	table      *schema.DataTable
	categories []string
	matrices   []schema.CompatibilityMatrix
	tiers      []schema.ScoreRange
	maxScore   int

	mu       sync.Mutex // guards rng
	rng      *rand.Rand
	observer Observer
}

// NewEvaluator creates an evaluator over table. Without WithRand or WithSeed
// the source is seeded randomly.
func NewEvaluator(table *schema.DataTable, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		table:      table,
		categories: table.Categories(),
		matrices:   table.Matrices(),
		tiers:      table.Tiers(),
		maxScore:   table.MaxScore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Table returns the data table behind the evaluator.
func (e *Evaluator) Table() *schema.DataTable {
	return e.table
}

// Evaluate scores the ordered pair (a, b). It never fails: categories without
// an entry for the pair are skipped and an unmatched total falls back to the first tier.
func (e *Evaluator) Evaluate(a, b int) schema.PredictionResult {
	start := time.Now()

	total := 0
	scores := make([]schema.CategoryScore, 0, len(e.categories))
	for i, category := range e.categories {
		score, ok := e.matrices[i].Lookup(a, b)
		if !ok {
			continue
		}
		total += score
		scores = append(scores, schema.CategoryScore{
			Category: category,
			Score:    score,
			Max:      schema.MaxCategoryScore,
		})
	}

	tier := resolveTier(e.tiers, total)
	result := schema.PredictionResult{
		TotalScore:     total,
		MaxScore:       e.maxScore,
		Percentage:     percentage(total, e.maxScore),
		Stars:          tier.Stars,
		ScoreLabel:     tier.Label,
		PredictionText: e.pick(tier.Predictions),
		CategoryScores: scores,
	}

	if e.observer != nil {
		e.observer.ObserveEvaluation(result.Stars, len(e.categories)-len(scores), time.Since(start))
	}
	return result
}

// pick returns one candidate uniformly at random.
func (e *Evaluator) pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return candidates[e.rng.IntN(len(candidates))]
}

// resolveTier returns the first tier containing total, or the first tier.
func resolveTier(tiers []schema.ScoreRange, total int) schema.ScoreRange {
	for _, t := range tiers {
		if t.Contains(total) {
			return t
		}
	}
	if len(tiers) == 0 {
		return schema.ScoreRange{}
	}
	return tiers[0]
}

// percentage rounds total/maxScore to a whole percent. The denominator is the
// declared maximum, not the maximum of the categories that resolved.
func percentage(total, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(maxScore) * 100))
}
