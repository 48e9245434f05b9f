package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/destiny/schema"
)

// Rating label constants, shared with schema.GetPlainLabel.
const (
	HighValue     = "High"
	ModerateValue = "Moderate"
	LowValue      = "Low"
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor celebrates a strong match.
	ModerateColor = color.New(color.FgYellow)              // moderateColor is neutral, not bold.
	LowColor      = color.New(color.FgCyan)                // lowColor softens a weak match.
	AckColor      = color.New(color.FgGreen)               // ackColor marks transient confirmations.
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(stars int) string {
	text := schema.GetPlainLabel(stars)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// FormatStars renders a star rating out of five, e.g. "★★★☆☆" or "***--".
func FormatStars(stars int, useEmojis bool) string {
	stars = max(0, min(stars, 5))
	filled, empty := "*", "-"
	if useEmojis {
		filled, empty = "★", "☆"
	}
	return strings.Repeat(filled, stars) + strings.Repeat(empty, 5-stars)
}

// ColorStars colors a star rendering according to its rating class.
func ColorStars(stars int, text string) string {
	switch schema.GetPlainLabel(stars) {
	case HighValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is set.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSessionDBFilePath returns the path to the SQLite DB file for session storage.
func GetSessionDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".destiny_session.db"
	}
	return filepath.Join(homeDir, ".destiny_session.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".destiny_history.db"
	}
	return filepath.Join(homeDir, ".destiny_history.db")
}

// TruncateText shortens text to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
