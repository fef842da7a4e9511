package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertBrief stores the day's brief, replacing any earlier run for
// the same user and date.
func (s *Store) UpsertBrief(b BriefRow) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_briefs (user_id, date, payload, load_score, conservation, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
			payload = excluded.payload,
			load_score = excluded.load_score,
			conservation = excluded.conservation,
			generated_at = excluded.generated_at`,
		b.UserID, b.Date, b.Payload, b.LoadScore, b.Conservation,
		b.GeneratedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert brief %s: %w", b.Date, err)
	}
	return nil
}

// GetBrief returns the stored brief for the day, or nil if none.
func (s *Store) GetBrief(userID, date string) (*BriefRow, error) {
	b := &BriefRow{}
	var generatedAt string
	err := s.db.QueryRow(
		`SELECT id, user_id, date, payload, load_score, conservation, generated_at
		 FROM daily_briefs WHERE user_id = ? AND date = ?`, userID, date,
	).Scan(&b.ID, &b.UserID, &b.Date, &b.Payload, &b.LoadScore, &b.Conservation, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get brief %s: %w", date, err)
	}
	b.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	return b, nil
}

// ListBriefs returns briefs in [from, to], oldest first.
func (s *Store) ListBriefs(userID, from, to string) ([]BriefRow, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, date, payload, load_score, conservation, generated_at
		 FROM daily_briefs WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list briefs: %w", err)
	}
	defer rows.Close()

	var out []BriefRow
	for rows.Next() {
		var b BriefRow
		var generatedAt string
		if err := rows.Scan(&b.ID, &b.UserID, &b.Date, &b.Payload, &b.LoadScore, &b.Conservation, &generatedAt); err != nil {
			return nil, err
		}
		b.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
		out = append(out, b)
	}
	return out, rows.Err()
}
