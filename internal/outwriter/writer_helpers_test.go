package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "simple object",
			data: map[string]any{
				"name":  "Leo",
				"stars": 4,
			},
			expected: `{
  "name": "Leo",
  "stars": 4
}
`,
		},
		{
			name: "array",
			data: []string{"Love", "Trust", "Family"},
			expected: `[
  "Love",
  "Trust",
  "Family"
]
`,
		},
		{
			name:     "string",
			data:     "hello",
			expected: `"hello"` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeJSON(&buf, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	invalidData := make(chan int)
	var buf bytes.Buffer
	err := writeJSON(&buf, invalidData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:   "simple csv",
			header: []string{"id", "name", "icon"},
			rows: [][]string{
				{"0", "Aries", "♈"},
				{"1", "Taurus", "♉"},
			},
			expected: "id,name,icon\n0,Aries,♈\n1,Taurus,♉\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			rows:     [][]string{},
			expected: "col1,col2\n",
		},
		{
			name:   "values with commas",
			header: []string{"label", "prediction"},
			rows: [][]string{
				{"Great Match", "Warm, steady and kind"},
			},
			expected: "label,prediction\nGreat Match,\"Warm, steady and kind\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(w *csv.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		write   func(io.Writer) error
		wantErr error
		want    string
	}{
		{
			name:  "tiers csv",
			path:  filepath.Join(dir, "tiers.csv"),
			write: func(w io.Writer) error { return writeCSVWithHeader(w, []string{"stars", "label"}, writeStarRows) },
			want:  "stars,label\n1,Challenging Match\n5,Destined Soulmates\n",
		},
		{
			name:  "result json",
			path:  filepath.Join(dir, "result.json"),
			write: func(w io.Writer) error { return writeJSON(w, map[string]int{"total": 29}) },
			want:  "{\n  \"total\": 29\n}\n",
		},
		{
			name:    "writer failure",
			path:    filepath.Join(dir, "broken.txt"),
			write:   func(io.Writer) error { return assert.AnError },
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeWithFile(tt.path, tt.write, "Wrote test output")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			content, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestWriteWithFileStdoutAndBadPath(t *testing.T) {
	called := false
	require.NoError(t, writeWithFile("", func(io.Writer) error {
		called = true
		return nil
	}, "unused"))
	assert.True(t, called)

	err := writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "unused")
	assert.Error(t, err)
}

// writeStarRows emits the lowest and highest tier rows.
func writeStarRows(w *csv.Writer) error {
	for _, row := range [][]string{{"1", "Challenging Match"}, {"5", "Destined Soulmates"}} {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		maxScore  int
		width     int
		useEmojis bool
		expected  string
	}{
		{"full plain", 5, 5, 5, false, "#####"},
		{"partial plain", 3, 5, 5, false, "###.."},
		{"empty plain", 0, 5, 5, false, "....."},
		{"scaled emoji", 4, 5, 10, true, "████████░░"},
		{"zero max", 3, 0, 5, false, "....."},
		{"over max clamps", 7, 5, 5, false, "#####"},
		{"zero width", 3, 5, 0, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderBar(tt.score, tt.maxScore, tt.width, tt.useEmojis))
		})
	}
}

func TestCells(t *testing.T) {
	aries := schema.ZodiacSign{ID: 0, Name: "Aries", Icon: "♈"}
	plain := &contract.Config{}
	fancy := &contract.Config{UseEmojis: true}

	assert.Equal(t, "Aries", signCell(aries, false))
	assert.Equal(t, "♈ Aries", signCell(aries, true))
	assert.Equal(t, "Aries", signCell(schema.ZodiacSign{Name: "Aries"}, true))

	assert.Equal(t, "****-", starsCell(4, plain))
	assert.Equal(t, "★★☆☆☆", starsCell(2, fancy))
	assert.Equal(t, "High", labelCell(5, plain))
	assert.Equal(t, "Low", labelCell(1, plain))
}

func TestMoodIcon(t *testing.T) {
	assert.Equal(t, "💖", moodIcon(schema.PredictionResult{Stars: 5}))
	assert.Equal(t, "🔮", moodIcon(schema.PredictionResult{Stars: 3}))
	assert.Equal(t, "💔", moodIcon(schema.PredictionResult{Stars: 1}))
}

func TestGetBarWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 20, expected: minBarWidth},
		{width: 52, expected: 10},
		{width: 200, expected: maxBarWidth},
	}

	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.expected, getBarWidth(cfg), "width %d", tt.width)
	}
}

func TestGetMaxPredictionWidth(t *testing.T) {
	assert.Equal(t, 15, getMaxPredictionWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 45, getMaxPredictionWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 70, getMaxPredictionWidth(&contract.Config{Width: 300}))
}
