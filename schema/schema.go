// Package schema has models, constants and helpers for all parts of destiny.
package schema

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ZodiacSign is one selectable identity. ID indexes into every matrix.
type ZodiacSign struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CompatibilityMatrix maps [signA.ID][signB.ID] to a score in [0, MaxCategoryScore].
// A pair without an entry means the category does not apply to that pair.
type CompatibilityMatrix map[int]map[int]int

// Lookup returns the score for the ordered pair and whether it is defined.
func (m CompatibilityMatrix) Lookup(a, b int) (int, bool) {
	row, ok := m[a]
	if !ok {
		return 0, false
	}
	score, ok := row[b]
	return score, ok
}

// Clone returns a deep copy of the matrix.
func (m CompatibilityMatrix) Clone() CompatibilityMatrix {
	if m == nil {
		return nil
	}
	out := make(CompatibilityMatrix, len(m))
	for a, row := range m {
		out[a] = maps.Clone(row)
	}
	return out
}

// ScoreRange is a tier: an inclusive score band with its rating and predictions.
type ScoreRange struct {
	Min         int      `json:"min"`
	Max         int      `json:"max"`
	Label       string   `json:"label"`
	Stars       int      `json:"stars"`
	Predictions []string `json:"predictions"`
}

// Contains reports whether total falls inside the band.
func (r ScoreRange) Contains(total int) bool {
	return total >= r.Min && total <= r.Max
}

// Clone returns a copy that does not share Predictions.
func (r ScoreRange) Clone() ScoreRange {
	r.Predictions = slices.Clone(r.Predictions)
	return r
}

// CategoryScore is the score of one category for an evaluated pair.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Max      int    `json:"max"`
}

// PredictionResult is the immutable outcome of one evaluation.
type PredictionResult struct {
	TotalScore     int             `json:"total_score"`
	MaxScore       int             `json:"max_score"`
	Percentage     int             `json:"percentage"`
	Stars          int             `json:"stars"`
	ScoreLabel     string          `json:"score_label"`
	PredictionText string          `json:"prediction_text"`
	CategoryScores []CategoryScore `json:"category_scores"`
}

// IsHighScore reports whether the result deserves celebratory styling.
func (r PredictionResult) IsHighScore() bool {
	return r.Stars >= HighScoreStars
}

// IsLowScore reports whether the result deserves warning styling.
func (r PredictionResult) IsLowScore() bool {
	return r.Stars <= LowScoreStars
}

// DataTable is the static reference data behind every evaluation.
// It is built once and never mutated; accessors hand out deep copies.
type DataTable struct {
	signs      []ZodiacSign
	categories []string
	matrices   []CompatibilityMatrix
	tiers      []ScoreRange
}

// NewDataTable assembles a table. categories[i] labels matrices[i].
func NewDataTable(signs []ZodiacSign, categories []string, matrices []CompatibilityMatrix, tiers []ScoreRange) *DataTable {
	return &DataTable{
		signs:      append([]ZodiacSign(nil), signs...),
		categories: append([]string(nil), categories...),
		matrices:   cloneMatrices(matrices),
		tiers:      cloneTiers(tiers),
	}
}

// Signs returns the signs in presentation order.
func (t *DataTable) Signs() []ZodiacSign {
	return append([]ZodiacSign(nil), t.signs...)
}

// Categories returns the category names in declaration order.
func (t *DataTable) Categories() []string {
	return append([]string(nil), t.categories...)
}

// Matrices returns the matrices, index-aligned with Categories.
func (t *DataTable) Matrices() []CompatibilityMatrix {
	return cloneMatrices(t.matrices)
}

// Tiers returns the tiers in first-match scan order.
func (t *DataTable) Tiers() []ScoreRange {
	return cloneTiers(t.tiers)
}

func cloneMatrices(in []CompatibilityMatrix) []CompatibilityMatrix {
	out := make([]CompatibilityMatrix, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

func cloneTiers(in []ScoreRange) []ScoreRange {
	out := make([]ScoreRange, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// MaxScore is the fixed denominator for percentages: one ceiling per declared category,
// whether or not a given pair resolves in every category.
func (t *DataTable) MaxScore() int {
	return len(t.categories) * MaxCategoryScore
}

// Sign returns the sign with the given id.
func (t *DataTable) Sign(id int) (ZodiacSign, bool) {
	for _, s := range t.signs {
		if s.ID == id {
			return s, true
		}
	}
	return ZodiacSign{}, false
}

// FindSign resolves a sign by decimal id, name or icon (case-insensitive).
func (t *DataTable) FindSign(query string) (ZodiacSign, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return ZodiacSign{}, false
	}
	if id, err := strconv.Atoi(q); err == nil {
		return t.Sign(id)
	}
	for _, s := range t.signs {
		if strings.EqualFold(s.Name, q) || s.Icon == q {
			return s, true
		}
	}
	return ZodiacSign{}, false
}
