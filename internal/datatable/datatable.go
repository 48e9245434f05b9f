// Package datatable loads and validates the static compatibility data.
package datatable

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/destiny/internal/logger"
	"github.com/huangsam/destiny/schema"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/destiny.yaml
var defaultTable []byte

//go:embed data/datatable.schema.json
var tableSchema []byte

var (
	defaultOnce sync.Once
	defaultData *schema.DataTable
	defaultErr  error
)

// ErrInvalidTable is wrapped by every validation failure.
var ErrInvalidTable = errors.New("invalid data table")

type document struct {
	Signs      []signDoc     `yaml:"signs" validate:"required,min=1,dive"`
	Categories []categoryDoc `yaml:"categories" validate:"required,min=1,dive"`
	Tiers      []tierDoc     `yaml:"tiers" validate:"required,min=1,dive"`
}

type signDoc struct {
	ID   int    `yaml:"id" validate:"min=0"`
	Name string `yaml:"name" validate:"required"`
	Icon string `yaml:"icon"`
}

// categoryDoc declares a category together with its matrix so the two stay index-aligned.
// A nil row or a nil cell is a pair the category does not cover.
type categoryDoc struct {
	Name   string   `yaml:"name" validate:"required"`
	Matrix [][]*int `yaml:"matrix"`
}

type tierDoc struct {
	Min         int      `yaml:"min"`
	Max         int      `yaml:"max" validate:"gtefield=Min"`
	Stars       int      `yaml:"stars" validate:"min=1,max=5"`
	Label       string   `yaml:"label" validate:"required"`
	Predictions []string `yaml:"predictions" validate:"required,min=1,dive,required"`
}

// Default returns the embedded table. It is parsed once per process.
func Default() (*schema.DataTable, error) {
	defaultOnce.Do(func() {
		defaultData, defaultErr = Parse(defaultTable)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("embedded data table: %w", defaultErr)
		}
	})
	return defaultData, defaultErr
}

// Resolve returns the table at path, or the embedded table when path is empty.
func Resolve(path string) (*schema.DataTable, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return Load(path)
}

// Load reads a YAML or JSON table from disk.
func Load(path string) (*schema.DataTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("data file %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes and validates a table document.
func Parse(data []byte) (*schema.DataTable, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode data table: %w", err)
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode data table: %w", err)
	}
	if err := validateStruct(&doc); err != nil {
		return nil, err
	}
	if err := validateSemantics(&doc); err != nil {
		return nil, err
	}

	table := build(&doc)
	warnCoverage(logger.L(), table)
	return table, nil
}

// validateShape checks the raw document against the embedded JSON Schema.
func validateShape(raw any) error {
	if raw == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidTable)
	}
	schemaLoader := gojsonschema.NewBytesLoader(tableSchema)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidTable, strings.Join(errs, "; "))
	}
	return nil
}

func validateStruct(doc *document) error {
	if err := validator.New().Struct(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	return nil
}

func validateSemantics(doc *document) error {
	ids := make(map[int]bool, len(doc.Signs))
	names := make(map[string]bool, len(doc.Signs))
	for _, s := range doc.Signs {
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate sign id %d", ErrInvalidTable, s.ID)
		}
		ids[s.ID] = true
		key := strings.ToLower(s.Name)
		if names[key] {
			return fmt.Errorf("%w: duplicate sign name %q", ErrInvalidTable, s.Name)
		}
		names[key] = true
	}

	for _, c := range doc.Categories {
		for row, cells := range c.Matrix {
			if cells == nil {
				continue
			}
			if !ids[row] {
				return fmt.Errorf("%w: category %q has a row for unknown sign id %d", ErrInvalidTable, c.Name, row)
			}
			for col, cell := range cells {
				if cell == nil {
					continue
				}
				if !ids[col] {
					return fmt.Errorf("%w: category %q has a column for unknown sign id %d", ErrInvalidTable, c.Name, col)
				}
				if *cell < 0 || *cell > schema.MaxCategoryScore {
					return fmt.Errorf("%w: category %q score %d for [%d][%d] outside [0, %d]",
						ErrInvalidTable, c.Name, *cell, row, col, schema.MaxCategoryScore)
				}
			}
		}
	}
	return nil
}

func build(doc *document) *schema.DataTable {
	signs := make([]schema.ZodiacSign, len(doc.Signs))
	for i, s := range doc.Signs {
		signs[i] = schema.ZodiacSign{ID: s.ID, Name: s.Name, Icon: s.Icon}
	}

	categories := make([]string, len(doc.Categories))
	matrices := make([]schema.CompatibilityMatrix, len(doc.Categories))
	for i, c := range doc.Categories {
		categories[i] = c.Name
		m := make(schema.CompatibilityMatrix, len(c.Matrix))
		for row, cells := range c.Matrix {
			for col, cell := range cells {
				if cell == nil {
					continue
				}
				if m[row] == nil {
					m[row] = make(map[int]int, len(cells))
				}
				m[row][col] = *cell
			}
		}
		matrices[i] = m
	}

	tiers := make([]schema.ScoreRange, len(doc.Tiers))
	for i, t := range doc.Tiers {
		tiers[i] = schema.ScoreRange{
			Min:         t.Min,
			Max:         t.Max,
			Label:       t.Label,
			Stars:       t.Stars,
			Predictions: append([]string(nil), t.Predictions...),
		}
	}

	return schema.NewDataTable(signs, categories, matrices, tiers)
}

// CoverageGaps returns the totals in [0, MaxScore] that no tier contains, as inclusive ranges.
func CoverageGaps(table *schema.DataTable) [][2]int {
	tiers := table.Tiers()
	var gaps [][2]int
	start := -1
	for total := 0; total <= table.MaxScore(); total++ {
		covered := false
		for _, t := range tiers {
			if t.Contains(total) {
				covered = true
				break
			}
		}
		switch {
		case !covered && start < 0:
			start = total
		case covered && start >= 0:
			gaps = append(gaps, [2]int{start, total - 1})
			start = -1
		}
	}
	if start >= 0 {
		gaps = append(gaps, [2]int{start, table.MaxScore()})
	}
	return gaps
}

// warnCoverage logs totals that will fall back to the first tier.
func warnCoverage(log *zap.Logger, table *schema.DataTable) {
	for _, gap := range CoverageGaps(table) {
		log.Warn("tiers leave a score range uncovered; first tier will be used",
			zap.Int("from", gap[0]),
			zap.Int("to", gap[1]),
		)
	}
}
