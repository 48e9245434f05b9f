package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// RecordPrediction stores an evaluation in the history store and returns its UUID.
// Failures are reported as warnings so a broken history store never blocks a prediction.
func RecordPrediction(store contract.HistoryStore, a, b schema.ZodiacSign, r schema.PredictionResult, seed *int64) string {
	if store == nil {
		return ""
	}

	categories, err := json.Marshal(r.CategoryScores)
	if err != nil {
		logHistoryError("prediction", err)
		return ""
	}

	record := schema.PredictionRecord{
		PredictionUUID: uuid.NewString(),
		SignA:          int32(a.ID),
		SignB:          int32(b.ID),
		SignAName:      a.Name,
		SignBName:      b.Name,
		TotalScore:     int32(r.TotalScore),
		MaxScore:       int32(r.MaxScore),
		Percentage:     int32(r.Percentage),
		Stars:          int32(r.Stars),
		ScoreLabel:     r.ScoreLabel,
		PredictionText: r.PredictionText,
		Categories:     string(categories),
		Seed:           seed,
		CreatedAt:      time.Now(),
	}
	if _, err := store.RecordPrediction(record); err != nil {
		logHistoryError("prediction", err)
		return ""
	}
	return record.PredictionUUID
}

// RecordShare stores a share attempt for a recorded prediction.
func RecordShare(store contract.HistoryStore, predictionUUID string, outcome schema.ShareOutcome) {
	if store == nil || predictionUUID == "" {
		return
	}

	record := schema.ShareEventRecord{
		PredictionUUID: predictionUUID,
		Sink:           outcome.Sink,
		Outcome:        string(outcome.Status),
		CreatedAt:      time.Now(),
	}
	if outcome.Detail != "" {
		detail := outcome.Detail
		record.Detail = &detail
	}
	if _, err := store.RecordShare(record); err != nil {
		logHistoryError("share", err)
	}
}

// seedForHistory returns the configured seed in its stored form.
func seedForHistory(cfg *contract.Config) *int64 {
	if !cfg.HasSeed {
		return nil
	}
	s := int64(cfg.Seed)
	return &s
}

// logHistoryError logs a history failure without interrupting the caller.
func logHistoryError(operation string, err error) {
	contract.LogWarn(fmt.Sprintf("History tracking failed for %s", operation), err)
}
