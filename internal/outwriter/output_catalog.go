package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSigns lists the selectable signs in presentation order.
func PrintSigns(signs []schema.ZodiacSign, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, signs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSignsCSV(w, signs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSignsTable(w, signs, cfg)
		}, "Wrote table")
	}
}

func writeSignsTable(w io.Writer, signs []schema.ZodiacSign, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	headers := []string{"ID", "Name"}
	if cfg.UseEmojis {
		headers = append(headers, "Icon")
	}
	table.Header(headers)

	var data [][]string
	for _, s := range signs {
		row := []string{strconv.Itoa(s.ID), s.Name}
		if cfg.UseEmojis {
			row = append(row, s.Icon)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d signs. Select by id, name or icon.\n", len(signs))
	return err
}

func writeSignsCSV(w io.Writer, signs []schema.ZodiacSign) error {
	return writeCSVWithHeader(w, []string{"id", "name", "icon"}, func(cw *csv.Writer) error {
		for _, s := range signs {
			if err := cw.Write([]string{strconv.Itoa(s.ID), s.Name, s.Icon}); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintTiers lists the score tiers in scan order.
func PrintTiers(tiers []schema.EnrichedTier, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, tiers)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTiersCSV(w, tiers)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTiersTable(w, tiers, cfg)
		}, "Wrote table")
	}
}

func writeTiersTable(w io.Writer, tiers []schema.EnrichedTier, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Range", "Stars", "Label", "Class", "Sample"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	width := getMaxPredictionWidth(cfg)
	var data [][]string
	for _, t := range tiers {
		sample := ""
		if len(t.Predictions) > 0 {
			sample = contract.TruncateText(t.Predictions[0], width)
		}
		data = append(data, []string{
			strconv.Itoa(t.Rank),
			fmt.Sprintf("%d-%d", t.Min, t.Max),
			starsCell(t.Stars, cfg),
			t.ScoreRange.Label,
			labelCell(t.Stars, cfg),
			sample,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d tiers. Totals outside every range fall back to rank 1.\n", len(tiers))
	return err
}

func writeTiersCSV(w io.Writer, tiers []schema.EnrichedTier) error {
	header := []string{"rank", "min", "max", "stars", "label", "class", "predictions"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range tiers {
			rec := []string{
				strconv.Itoa(t.Rank),
				strconv.Itoa(t.Min),
				strconv.Itoa(t.Max),
				strconv.Itoa(t.Stars),
				t.ScoreRange.Label,
				t.Label,
				strings.Join(t.Predictions, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
