// Package parquet provides data structures and functions for exporting destiny
// prediction history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/destiny/schema"
	"github.com/parquet-go/parquet-go"
)

// Prediction represents a single recorded evaluation.
// This struct maps to the destiny_predictions database table.
type Prediction struct {
	// PredictionID is the row identifier in the history store
	PredictionID int64 `parquet:"prediction_id,snappy"`

	// PredictionUUID links share events back to the prediction
	PredictionUUID string `parquet:"prediction_uuid,snappy"`

	SignA     int32  `parquet:"sign_a,snappy"`
	SignB     int32  `parquet:"sign_b,snappy"`
	SignAName string `parquet:"sign_a_name,snappy"`
	SignBName string `parquet:"sign_b_name,snappy"`

	TotalScore int32 `parquet:"total_score,snappy"`
	MaxScore   int32 `parquet:"max_score,snappy"`
	Percentage int32 `parquet:"percentage,snappy"`
	Stars      int32 `parquet:"stars,snappy"`

	// ScoreLabel is the label of the tier the total fell into
	ScoreLabel string `parquet:"score_label,snappy"`

	PredictionText string `parquet:"prediction_text,snappy"`

	// Categories contains the JSON-encoded per-category breakdown
	Categories string `parquet:"categories,snappy"`

	// Seed is the prediction seed when one was configured (nullable)
	Seed *int64 `parquet:"seed,optional,snappy"`

	// CreatedAt is when the evaluation ran (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// ShareEvent represents one attempt to share a prediction.
// This struct maps to the destiny_share_events database table.
type ShareEvent struct {
	ShareID        int64  `parquet:"share_id,snappy"`
	PredictionUUID string `parquet:"prediction_uuid,snappy"`

	// Sink is the share mode that was used: clipboard, webhook or manual
	Sink string `parquet:"sink,snappy"`

	// Outcome is one of copied, shared, manual or failed
	Outcome string `parquet:"outcome,snappy"`

	// Detail carries the failure reason (nullable)
	Detail *string `parquet:"detail,optional,snappy"`

	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// writeParquet writes rows to a new Parquet file whose schema is inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WritePredictionsParquet writes a slice of Prediction structs to a Parquet file.
func WritePredictionsParquet(data []Prediction, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteShareEventsParquet writes a slice of ShareEvent structs to a Parquet file.
func WriteShareEventsParquet(data []ShareEvent, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertPredictionRecords converts schema.PredictionRecord to Prediction for Parquet export.
func ConvertPredictionRecords(records []schema.PredictionRecord) []Prediction {
	result := make([]Prediction, len(records))
	for i, record := range records {
		result[i] = Prediction{
			PredictionID:   record.PredictionID,
			PredictionUUID: record.PredictionUUID,
			SignA:          record.SignA,
			SignB:          record.SignB,
			SignAName:      record.SignAName,
			SignBName:      record.SignBName,
			TotalScore:     record.TotalScore,
			MaxScore:       record.MaxScore,
			Percentage:     record.Percentage,
			Stars:          record.Stars,
			ScoreLabel:     record.ScoreLabel,
			PredictionText: record.PredictionText,
			Categories:     record.Categories,
			Seed:           record.Seed,
			CreatedAt:      record.CreatedAt,
		}
	}
	return result
}

// ConvertShareEventRecords converts schema.ShareEventRecord to ShareEvent for Parquet export.
func ConvertShareEventRecords(records []schema.ShareEventRecord) []ShareEvent {
	result := make([]ShareEvent, len(records))
	for i, record := range records {
		result[i] = ShareEvent{
			ShareID:        record.ShareID,
			PredictionUUID: record.PredictionUUID,
			Sink:           record.Sink,
			Outcome:        record.Outcome,
			Detail:         record.Detail,
			CreatedAt:      record.CreatedAt,
		}
	}
	return result
}
