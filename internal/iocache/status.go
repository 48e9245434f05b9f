package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/destiny/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintSessionStatus prints session store status information.
func PrintSessionStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Session Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Sessions: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Saved: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Saved: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Storage Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Predictions: %d\n", status.TotalPredictions)
	if status.TotalPredictions > 0 {
		_, _ = fmt.Fprintf(w, "Last Prediction ID: %d\n", status.LastPredictionID)
		_, _ = fmt.Fprintf(w, "Last Prediction: %s\n", status.LastPredictionTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Prediction: %s\n", status.OldestPredictionTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Total Shares: %d\n", status.TotalShares)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
