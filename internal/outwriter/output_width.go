package outwriter

import (
	"os"

	"github.com/huangsam/destiny/internal/contract"
	"golang.org/x/term"
)

// Bar width bounds, in cells.
const (
	minBarWidth = 5
	maxBarWidth = 30
)

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for pipes and CI
	}
	return detectedWidth
}

// getBarWidth scales the per-category bar to the terminal.
// The result is rounded down to a multiple of five cells.
func getBarWidth(cfg *contract.Config) int {
	// Category + Score columns with borders and padding
	const baseWidth = 40

	available := terminalWidth(cfg) - baseWidth
	if available < minBarWidth {
		return minBarWidth
	}
	if available > maxBarWidth {
		return maxBarWidth
	}
	return available - available%minBarWidth
}

// getMaxPredictionWidth bounds the prediction column in the tiers table.
func getMaxPredictionWidth(cfg *contract.Config) int {
	// Rank + Range + Stars + Label + Count with borders and padding
	const baseWidth = 55

	available := terminalWidth(cfg) - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
