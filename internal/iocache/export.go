package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/parquet"
)

// ExecuteHistoryExport exports the global history store to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return exportHistory(Manager.GetHistoryStore(), outputFile, os.Stdout)
}

// exportHistory writes predictions and share events next to outputFile.
func exportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalPredictions == 0 {
		return errors.New("no prediction history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total predictions: %d\n", status.TotalPredictions)
	_, _ = fmt.Fprintf(w, "Total share events: %d\n", status.TotalShares)

	predictions, err := store.GetAllPredictions()
	if err != nil {
		return fmt.Errorf("failed to retrieve predictions: %w", err)
	}
	shareEvents, err := store.GetAllShareEvents()
	if err != nil {
		return fmt.Errorf("failed to retrieve share events: %w", err)
	}

	predictionRows := parquet.ConvertPredictionRecords(predictions)
	predictionsFile := outputFile + ".predictions.parquet"
	if err := parquet.WritePredictionsParquet(predictionRows, predictionsFile); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d predictions to: %s\n", len(predictionRows), predictionsFile)

	shareRows := parquet.ConvertShareEventRecords(shareEvents)
	shareEventsFile := outputFile + ".share_events.parquet"
	if err := parquet.WriteShareEventsParquet(shareRows, shareEventsFile); err != nil {
		return fmt.Errorf("failed to write share events: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d share events to: %s\n", len(shareRows), shareEventsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
