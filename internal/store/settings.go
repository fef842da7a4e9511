package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (s *Store) getIntSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// AppConfig is everything the app reads from the settings table at
// startup.
type AppConfig struct {
	UserID            string
	Timezone          *time.Location
	Engine            engine.Config
	FocusRefreshSecs  int
	DayCloseDelaySecs int
}

// LoadConfig assembles the runtime configuration from settings rows,
// falling back to defaults for anything missing or malformed.
func (s *Store) LoadConfig() (AppConfig, error) {
	cfg := AppConfig{
		UserID:            "dan",
		Timezone:          time.UTC,
		Engine:            engine.DefaultConfig(),
		FocusRefreshSecs:  60,
		DayCloseDelaySecs: 30,
	}

	if v, err := s.GetSetting("user_id"); err == nil && v != "" {
		cfg.UserID = v
	}
	if v, err := s.GetSetting("timezone"); err == nil && v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("load timezone %q: %w", v, err)
		}
		cfg.Timezone = loc
	}

	cfg.Engine.TrendWindow = s.getIntSetting("trend_window", cfg.Engine.TrendWindow)
	cfg.Engine.MaxLoad = s.getIntSetting("max_load", cfg.Engine.MaxLoad)
	cfg.Engine.ConservationLoad = s.getIntSetting("conservation_load", cfg.Engine.ConservationLoad)
	cfg.Engine.DefaultItemLoad = s.getIntSetting("default_item_load", cfg.Engine.DefaultItemLoad)
	cfg.FocusRefreshSecs = s.getIntSetting("focus_refresh_secs", cfg.FocusRefreshSecs)
	cfg.DayCloseDelaySecs = s.getIntSetting("day_close_delay_secs", cfg.DayCloseDelaySecs)

	return cfg, nil
}
