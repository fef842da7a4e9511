package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveDayClose writes the day-close record. The primary key on
// (user_id, date) makes a re-save overwrite, which is what the flow
// wants when a user acknowledges after an auto close was staged.
func (s *Store) SaveDayClose(r DayCloseRow) error {
	_, err := s.db.Exec(
		`INSERT INTO day_close (user_id, date, state, summary, tomorrow_note, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
			state = excluded.state,
			summary = excluded.summary,
			tomorrow_note = excluded.tomorrow_note,
			closed_at = excluded.closed_at`,
		r.UserID, r.Date, r.State, r.Summary, r.TomorrowNote,
		r.ClosedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save day close %s: %w", r.Date, err)
	}
	return nil
}

// GetDayClose returns the close record for a day, or nil if the day
// was never closed.
func (s *Store) GetDayClose(userID, date string) (*DayCloseRow, error) {
	r := &DayCloseRow{}
	var closedAt string
	err := s.db.QueryRow(
		`SELECT user_id, date, state, summary, tomorrow_note, closed_at
		 FROM day_close WHERE user_id = ? AND date = ?`, userID, date,
	).Scan(&r.UserID, &r.Date, &r.State, &r.Summary, &r.TomorrowNote, &closedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day close %s: %w", date, err)
	}
	r.ClosedAt, _ = time.Parse(time.RFC3339, closedAt)
	return r, nil
}
