package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintResult outputs a compatibility result, dispatching based on the output format configured.
func PrintResult(r schema.EnrichedResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, r)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultCSV(w, r)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultText(w, r, cfg, duration)
		}, "Wrote text")
	}
}

// writeResultText renders the headline, the prediction and the category breakdown.
func writeResultText(w io.Writer, r schema.EnrichedResult, cfg *contract.Config, duration time.Duration) error {
	heart := "<3"
	if cfg.UseEmojis {
		heart = "❤️"
	}
	headline := fmt.Sprintf("%s %s %s", signCell(r.SignA, cfg.UseEmojis), heart, signCell(r.SignB, cfg.UseEmojis))
	if cfg.UseEmojis {
		headline = moodIcon(r.PredictionResult) + " " + headline
	}
	if _, err := fmt.Fprintln(w, headline); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  %s (%d/%d points, %d%%)\n\n",
		starsCell(r.Stars, cfg), r.ScoreLabel, r.TotalScore, r.MaxScore, r.Percentage); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\"%s\"\n\n", r.PredictionText); err != nil {
		return err
	}

	if err := writeBreakdownTable(w, r.CategoryScores, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Evaluated %d categories in %v. Session: %s (%s backend)\n",
		len(r.CategoryScores), duration, cfg.SessionName, cfg.SessionBackend)
	return err
}

// writeBreakdownTable draws one row per scored category with a proportional bar.
func writeBreakdownTable(w io.Writer, scores []schema.CategoryScore, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Score", "Chart"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	width := getBarWidth(cfg)
	var data [][]string
	for _, s := range scores {
		data = append(data, []string{
			s.Category,
			fmt.Sprintf("%d/%d", s.Score, s.Max),
			renderBar(s.Score, s.Max, width, cfg.UseEmojis),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeResultCSV writes one row per category, repeating the summary columns.
// A result without any scored category still yields a single summary row.
func writeResultCSV(w io.Writer, r schema.EnrichedResult) error {
	header := []string{
		"sign_a",
		"sign_b",
		"category",
		"score",
		"max",
		"total_score",
		"max_score",
		"percentage",
		"stars",
		"score_label",
		"label",
		"prediction",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		summary := func(category, score, maxScore string) []string {
			return []string{
				r.SignA.Name,
				r.SignB.Name,
				category,
				score,
				maxScore,
				strconv.Itoa(r.TotalScore),
				strconv.Itoa(r.MaxScore),
				strconv.Itoa(r.Percentage),
				strconv.Itoa(r.Stars),
				r.ScoreLabel,
				r.Label,
				r.PredictionText,
			}
		}
		if len(r.CategoryScores) == 0 {
			return cw.Write(summary("", "", ""))
		}
		for _, s := range r.CategoryScores {
			if err := cw.Write(summary(s.Category, strconv.Itoa(s.Score), strconv.Itoa(s.Max))); err != nil {
				return err
			}
		}
		return nil
	})
}
