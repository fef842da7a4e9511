package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
	"github.com/mikka2-source/personal-command-center-sub000/internal/tui"
)

func main() {
	var (
		dbPath    = flag.String("db", "", "database path (default: user config dir)")
		briefOnly = flag.Bool("brief", false, "print today's brief as JSON and exit")
	)
	flag.Parse()

	path := *dbPath
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	s, err := store.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	cfg, err := s.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	if *briefOnly {
		if err := printBrief(s, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := tui.NewApp(s, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// printBrief regenerates today's brief headlessly and writes it to
// stdout, for cron jobs and shell pipelines.
func printBrief(s *store.Store, cfg store.AppConfig) error {
	now := time.Now().In(cfg.Timezone)
	date := now.Format("2006-01-02")

	open, err := s.ListItems(store.ItemFilter{Status: store.StatusOpen})
	if err != nil {
		return err
	}

	rows, err := s.RecentHealth(cfg.UserID, date, cfg.Engine.TrendWindow+1)
	if err != nil {
		return err
	}

	var snap *engine.HealthSnapshot
	var history []engine.HealthSnapshot
	for i := range rows {
		h := engine.HealthSnapshot{
			Date:        rows[i].Date,
			SleepHours:  rows[i].SleepHours,
			BodyBattery: rows[i].BodyBattery,
			Steps:       rows[i].Steps,
			StressLevel: rows[i].Stress,
		}
		if rows[i].Date == date {
			snap = &h
			continue
		}
		history = append(history, h)
	}

	items := make([]engine.Item, 0, len(open))
	for _, it := range open {
		items = append(items, engine.Item{
			ID:                   it.ID,
			Title:                it.Title,
			Domain:               engine.Domain(it.Domain),
			Labels:               it.Labels,
			FamilyOverride:       it.Family,
			Immutable:            it.Immutable,
			DueDate:              it.DueDate,
			EnergyLevel:          engine.EnergyLevel(it.EnergyLevel),
			HasWaitingDependency: it.Waiting,
			EstimatedLoad:        it.EstLoad,
			StartTime:            it.StartTime,
			EndTime:              it.EndTime,
		})
	}

	brief := engine.GenerateBrief(items, snap, history, now, cfg.Engine)

	payload, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return err
	}
	if err := s.UpsertBrief(store.BriefRow{
		UserID:       cfg.UserID,
		Date:         date,
		Payload:      string(payload),
		LoadScore:    brief.LoadScore,
		Conservation: brief.ConservationMode,
		GeneratedAt:  brief.GeneratedAt,
	}); err != nil {
		return err
	}

	fmt.Println(string(payload))
	return nil
}
