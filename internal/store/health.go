package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertHealth records a day's health snapshot, replacing any earlier
// sync for the same day.
func (s *Store) UpsertHealth(h HealthRow) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO health_data (user_id, date, sleep_hours, body_battery, steps, stress, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
			sleep_hours = excluded.sleep_hours,
			body_battery = excluded.body_battery,
			steps = excluded.steps,
			stress = excluded.stress,
			recorded_at = excluded.recorded_at`,
		h.UserID, h.Date, h.SleepHours, h.BodyBattery, h.Steps, h.Stress, now,
	)
	if err != nil {
		return fmt.Errorf("upsert health %s: %w", h.Date, err)
	}
	return nil
}

// GetHealth returns the snapshot for a day, or nil if none was synced.
func (s *Store) GetHealth(userID, date string) (*HealthRow, error) {
	row := s.db.QueryRow(
		`SELECT user_id, date, sleep_hours, body_battery, steps, stress, recorded_at
		 FROM health_data WHERE user_id = ? AND date = ?`, userID, date)
	h, err := scanHealth(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get health %s: %w", date, err)
	}
	return h, nil
}

// RecentHealth returns up to limit snapshots ending at date, most
// recent first. Days with no sync are simply absent.
func (s *Store) RecentHealth(userID, date string, limit int) ([]HealthRow, error) {
	rows, err := s.db.Query(
		`SELECT user_id, date, sleep_hours, body_battery, steps, stress, recorded_at
		 FROM health_data WHERE user_id = ? AND date <= ?
		 ORDER BY date DESC LIMIT ?`, userID, date, limit)
	if err != nil {
		return nil, fmt.Errorf("recent health: %w", err)
	}
	defer rows.Close()

	var out []HealthRow
	for rows.Next() {
		h, err := scanHealth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func scanHealth(r rowScanner) (*HealthRow, error) {
	h := &HealthRow{}
	var sleep sql.NullFloat64
	var battery, steps, stress sql.NullInt64
	var recordedAt string

	err := r.Scan(&h.UserID, &h.Date, &sleep, &battery, &steps, &stress, &recordedAt)
	if err != nil {
		return nil, err
	}
	if sleep.Valid {
		h.SleepHours = &sleep.Float64
	}
	if battery.Valid {
		v := int(battery.Int64)
		h.BodyBattery = &v
	}
	if steps.Valid {
		v := int(steps.Int64)
		h.Steps = &v
	}
	if stress.Valid {
		v := int(stress.Int64)
		h.Stress = &v
	}
	h.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	return h, nil
}
