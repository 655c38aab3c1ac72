package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jfmyers9/spins/internal/history"
)

// csvHeader matches the layout spreadsheet users expect: one row per
// play with the performer list flattened.
var csvHeader = []string{
	"type",
	"name",
	"artists_or_hosts",
	"show_name",
	"duration_minutes",
	"played_at_iso",
}

// ExportCSV writes the detailed play history to a CSV file, oldest
// play first so the file reads chronologically. Parent directories are
// created as needed.
func ExportCSV(events []history.PlayEvent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	ordered := make([]history.PlayEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PlayedAt.Before(ordered[j].PlayedAt)
	})

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, event := range ordered {
		performers := ""
		for i, p := range event.Performers {
			if i > 0 {
				performers += ", "
			}
			performers += p
		}

		row := []string{
			string(event.Kind),
			event.Name,
			performers,
			event.ShowName,
			strconv.FormatFloat(roundMinutes(event.Duration), 'f', 2, 64),
			event.PlayedAt.Local().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	return nil
}

// roundMinutes converts a duration to minutes rounded to two decimals.
func roundMinutes(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 60000
}
