package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// ToCSV writes one row per stored brief, flattening the payload's
// headline fields.
func ToCSV(briefs []store.BriefRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Load", "Conservation", "Sleep Trend", "Doing", "Not Doing", "Warnings", "Generated"}); err != nil {
		return err
	}

	for _, b := range briefs {
		var brief engine.Brief
		if err := json.Unmarshal([]byte(b.Payload), &brief); err != nil {
			return fmt.Errorf("brief %s: decode payload: %w", b.Date, err)
		}

		row := []string{
			b.Date,
			fmt.Sprintf("%d", b.LoadScore),
			fmt.Sprintf("%t", b.Conservation),
			string(brief.SleepTrend),
			strings.Join(brief.DoingToday, "; "),
			strings.Join(brief.NotDoingToday, "; "),
			fmt.Sprintf("%d", len(brief.Warnings)),
			b.GeneratedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
