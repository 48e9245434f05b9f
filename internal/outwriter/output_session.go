package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// PrintSession shows the selections and the displayed result of a session.
func PrintSession(view schema.SessionView, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionCSV(w, view)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSessionText(w, view, cfg)
		}, "Wrote text")
	}
}

func writeSessionText(w io.Writer, view schema.SessionView, cfg *contract.Config) error {
	selection := func(s *schema.ZodiacSign) string {
		if s == nil {
			return "(not selected)"
		}
		return signCell(*s, cfg.UseEmojis)
	}

	lines := []string{
		fmt.Sprintf("Session: %s (%s)", view.SessionName, view.SessionID),
		fmt.Sprintf("  Sign A: %s", selection(view.SignA)),
		fmt.Sprintf("  Sign B: %s", selection(view.SignB)),
	}
	switch {
	case view.Result != nil:
		r := view.Result
		lines = append(lines,
			fmt.Sprintf("  Result: %s %s (%d/%d points, %d%%)", starsCell(r.Stars, cfg), r.ScoreLabel, r.TotalScore, r.MaxScore, r.Percentage),
			fmt.Sprintf("  \"%s\"", r.PredictionText))
	case view.Ready:
		lines = append(lines, "  Ready: run `destiny match` to reveal compatibility")
	default:
		lines = append(lines, "  Select both signs with `destiny select a|b <sign>`")
	}
	if !view.UpdatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("  Updated: %s", view.UpdatedAt.Format(contract.DateTimeFormat)))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeSessionCSV(w io.Writer, view schema.SessionView) error {
	header := []string{"session_name", "session_id", "sign_a", "sign_b", "ready", "stars", "score_label", "prediction"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		name := func(s *schema.ZodiacSign) string {
			if s == nil {
				return ""
			}
			return s.Name
		}
		rec := []string{view.SessionName, view.SessionID, name(view.SignA), name(view.SignB), strconv.FormatBool(view.Ready), "", "", ""}
		if view.Result != nil {
			rec[5] = strconv.Itoa(view.Result.Stars)
			rec[6] = view.Result.ScoreLabel
			rec[7] = view.Result.PredictionText
		}
		return cw.Write(rec)
	})
}

// PrintShareOutcome reports a share attempt. Text mode writes a status line to stderr
// so that manual share text on stdout stays clean for piping.
func PrintShareOutcome(outcome schema.ShareOutcome, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, outcome)
		}, "Wrote JSON")
	}
	return writeShareStatus(os.Stderr, outcome, cfg)
}

// writeShareStatus renders a one-line summary of the outcome.
func writeShareStatus(w io.Writer, outcome schema.ShareOutcome, cfg *contract.Config) error {
	var line string
	switch outcome.Status {
	case schema.CopiedStatus:
		line = outcome.Acknowledgment
		if cfg.UseColors {
			line = contract.AckColor.Sprint(line)
		}
		if cfg.UseEmojis {
			line = "✅ " + line
		}
	case schema.SharedStatus:
		line = fmt.Sprintf("Shared via %s", outcome.Sink)
		if cfg.UseEmojis {
			line = "📤 " + line
		}
	case schema.ManualStatus:
		line = "Copy the text above to share it"
	default:
		line = fmt.Sprintf("Share via %s failed: %s", outcome.Sink, outcome.Detail)
		if cfg.UseEmojis {
			line = "⚠️  " + line
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
