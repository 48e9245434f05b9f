package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// writeWithFile opens the configured output, runs writer against it and closes it.
// A file target gets a confirmation line on stderr.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header row followed by whatever writeRows emits.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(csvWriter)
}

// renderBar draws score out of maxScore as a fixed-width bar.
func renderBar(score, maxScore, width int, useEmojis bool) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if maxScore > 0 {
		filled = int(math.Round(float64(score) / float64(maxScore) * float64(width)))
	}
	filled = max(0, min(filled, width))

	full, empty := "#", "."
	if useEmojis {
		full, empty = "█", "░"
	}
	return strings.Repeat(full, filled) + strings.Repeat(empty, width-filled)
}

// starsCell renders a star rating, colored when colors are enabled.
func starsCell(stars int, cfg *contract.Config) string {
	text := contract.FormatStars(stars, cfg.UseEmojis)
	if cfg.UseColors {
		return contract.ColorStars(stars, text)
	}
	return text
}

// labelCell renders the rating class, colored when colors are enabled.
func labelCell(stars int, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(stars)
	}
	return schema.GetPlainLabel(stars)
}

// signCell renders a sign with its icon when emojis are enabled.
func signCell(s schema.ZodiacSign, useEmojis bool) string {
	if useEmojis && s.Icon != "" {
		return s.Icon + " " + s.Name
	}
	return s.Name
}

// moodIcon picks the header emoji for a result class.
func moodIcon(r schema.PredictionResult) string {
	switch {
	case r.IsHighScore():
		return "💖"
	case r.IsLowScore():
		return "💔"
	default:
		return "🔮"
	}
}
