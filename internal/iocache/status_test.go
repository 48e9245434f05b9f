package iocache

import (
	"bytes"
	"testing"

	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintSessionStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintSessionStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Session Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintSessionStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 1,
		LastEntryTime: fixedTime, OldestEntryTime: fixedTime, TableSizeBytes: 8192,
	})
	assert.Contains(t, buf.String(), "Total Sessions: 1")
	assert.Contains(t, buf.String(), "Last Saved: 2026-02-14 12:00:00")
	assert.Contains(t, buf.String(), "Storage Size: 8192 bytes")
}

func TestPrintHistoryStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend: "sqlite", Connected: true, TotalPredictions: 2, LastPredictionID: 2,
		LastPredictionTime: fixedTime, OldestPredictionTime: fixedTime, TotalShares: 1,
		TableSizes: map[string]int64{shareEventsTable: 1, predictionsTable: 2},
	})

	out := buf.String()
	assert.Contains(t, out, "Last Prediction ID: 2")
	assert.Contains(t, out, "Total Shares: 1")
	assert.Contains(t, out, "  destiny_predictions: 2 rows\n  destiny_share_events: 1 rows\n")
}
