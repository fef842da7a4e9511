package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Briefs     []jsonBrief `json:"briefs"`
}

type jsonBrief struct {
	Date         string          `json:"date"`
	LoadScore    int             `json:"load_score"`
	Conservation bool            `json:"conservation_mode"`
	GeneratedAt  string          `json:"generated_at"`
	Brief        json.RawMessage `json:"brief"`
}

// ToJSON writes a range of stored briefs to path, embedding each
// brief's payload verbatim.
func ToJSON(briefs []store.BriefRow, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(briefs),
	}

	for _, b := range briefs {
		payload := json.RawMessage(b.Payload)
		if !json.Valid(payload) {
			return fmt.Errorf("brief %s: invalid payload", b.Date)
		}
		export.Briefs = append(export.Briefs, jsonBrief{
			Date:         b.Date,
			LoadScore:    b.LoadScore,
			Conservation: b.Conservation,
			GeneratedAt:  b.GeneratedAt.UTC().Format(time.RFC3339),
			Brief:        payload,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
