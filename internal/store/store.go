package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS items (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		domain        TEXT NOT NULL DEFAULT 'personal',
		labels        TEXT NOT NULL DEFAULT '',
		family        INTEGER NOT NULL DEFAULT 0,
		immutable     INTEGER NOT NULL DEFAULT 0,
		due_date      TEXT,
		energy_level  TEXT NOT NULL DEFAULT '',
		waiting       INTEGER NOT NULL DEFAULT 0,
		est_load      INTEGER NOT NULL DEFAULT 0,
		start_time    TEXT,
		end_time      TEXT,
		status        TEXT NOT NULL DEFAULT 'open',
		defer_reason  TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at  TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	CREATE INDEX IF NOT EXISTS idx_items_start  ON items(start_time);

	CREATE TABLE IF NOT EXISTS health_data (
		user_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		sleep_hours  REAL,
		body_battery INTEGER,
		steps        INTEGER,
		stress       INTEGER,
		recorded_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS daily_briefs (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		payload      TEXT NOT NULL,
		load_score   INTEGER NOT NULL DEFAULT 0,
		conservation INTEGER NOT NULL DEFAULT 0,
		generated_at TEXT NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS day_close (
		user_id       TEXT NOT NULL,
		date          TEXT NOT NULL,
		state         TEXT NOT NULL,
		summary       TEXT NOT NULL DEFAULT '{}',
		tomorrow_note TEXT NOT NULL DEFAULT '',
		closed_at     TEXT NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('user_id',              'dan'),
		('timezone',             'Asia/Nicosia'),
		('trend_window',         '5'),
		('max_load',             '80'),
		('conservation_load',    '60'),
		('default_item_load',    '10'),
		('focus_refresh_secs',   '60'),
		('day_close_delay_secs', '30');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/commandcenter/commandcenter.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "commandcenter", "commandcenter.db"), nil
}
