package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateItem(it Item) (*Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Status == "" {
		it.Status = StatusOpen
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO items (id, title, domain, labels, family, immutable, due_date, energy_level,
			waiting, est_load, start_time, end_time, status, defer_reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Title, it.Domain, strings.Join(it.Labels, ","), it.Family, it.Immutable,
		timePtrStr(it.DueDate), it.EnergyLevel, it.Waiting, it.EstLoad,
		timePtrStr(it.StartTime), timePtrStr(it.EndTime), it.Status, it.DeferReason, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return s.GetItem(it.ID)
}

func (s *Store) GetItem(id string) (*Item, error) {
	row := s.db.QueryRow(itemSelect+` WHERE id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return it, nil
}

func (s *Store) ListItems(f ItemFilter) ([]Item, error) {
	query := itemSelect + ` WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Domain != "" {
		query += ` AND domain = ?`
		args = append(args, f.Domain)
	}
	query += ` ORDER BY created_at`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *Store) UpdateItem(it Item) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE items SET title = ?, domain = ?, labels = ?, family = ?, immutable = ?,
			due_date = ?, energy_level = ?, waiting = ?, est_load = ?,
			start_time = ?, end_time = ?, status = ?, defer_reason = ?, updated_at = ?
		 WHERE id = ?`,
		it.Title, it.Domain, strings.Join(it.Labels, ","), it.Family, it.Immutable,
		timePtrStr(it.DueDate), it.EnergyLevel, it.Waiting, it.EstLoad,
		timePtrStr(it.StartTime), timePtrStr(it.EndTime), it.Status, it.DeferReason, now, it.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %s: %w", it.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update item %s: %w", it.ID, sql.ErrNoRows)
	}
	return nil
}

// SetItemStatus moves an item to the given status. Completing records
// the completion time; reopening clears it.
func (s *Store) SetItemStatus(id, status, deferReason string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var completedAt any
	if status == StatusDone {
		completedAt = now
	}
	res, err := s.db.Exec(
		`UPDATE items SET status = ?, defer_reason = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		status, deferReason, completedAt, now, id,
	)
	if err != nil {
		return fmt.Errorf("set item status %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("set item status %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) DeleteItem(id string) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// CompletedOn lists items completed on the given day (YYYY-MM-DD).
func (s *Store) CompletedOn(date string) ([]Item, error) {
	rows, err := s.db.Query(itemSelect+` WHERE status = ? AND date(completed_at) = ? ORDER BY completed_at`,
		StatusDone, date)
	if err != nil {
		return nil, fmt.Errorf("completed items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

const itemSelect = `SELECT id, title, domain, labels, family, immutable, due_date, energy_level,
	waiting, est_load, start_time, end_time, status, defer_reason, created_at, updated_at, completed_at
	FROM items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (*Item, error) {
	it := &Item{}
	var labels, createdAt, updatedAt string
	var dueDate, startTime, endTime, completedAt sql.NullString

	err := r.Scan(&it.ID, &it.Title, &it.Domain, &labels, &it.Family, &it.Immutable,
		&dueDate, &it.EnergyLevel, &it.Waiting, &it.EstLoad,
		&startTime, &endTime, &it.Status, &it.DeferReason, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if labels != "" {
		it.Labels = strings.Split(labels, ",")
	}
	it.DueDate = parseTimePtr(dueDate)
	it.StartTime = parseTimePtr(startTime)
	it.EndTime = parseTimePtr(endTime)
	it.CompletedAt = parseTimePtr(completedAt)
	it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	it.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return it, nil
}

func timePtrStr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
