package tui

import (
	"fmt"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
	"github.com/mikka2-source/personal-command-center-sub000/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewItems
	viewHealth
	viewSettings
)

var viewNames = []string{"Today", "Items", "Health", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type briefReadyMsg struct {
	brief       engine.Brief
	items       []engine.Item
	smallAction string
}

type itemsDataMsg struct {
	items []store.Item
}

type healthDataMsg struct {
	rows []store.HealthRow
}

type settingsDataMsg struct {
	settings []store.Setting
}

type itemSavedMsg struct{}

type dayCloseDoneMsg struct {
	state string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "--:--"
	}
	return t.In(loc).Format("15:04")
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// engineItem converts a stored item into its engine representation.
func engineItem(it store.Item) engine.Item {
	return engine.Item{
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
		DeferReason:          it.DeferReason,
	}
}

func engineItems(items []store.Item) []engine.Item {
	out := make([]engine.Item, 0, len(items))
	for _, it := range items {
		out = append(out, engineItem(it))
	}
	return out
}

// healthSnapshot converts a stored row into the engine's shape.
func healthSnapshot(h *store.HealthRow) *engine.HealthSnapshot {
	if h == nil {
		return nil
	}
	return &engine.HealthSnapshot{
		Date:        h.Date,
		SleepHours:  h.SleepHours,
		BodyBattery: h.BodyBattery,
		Steps:       h.Steps,
		StressLevel: h.Stress,
	}
}

func healthHistory(rows []store.HealthRow) []engine.HealthSnapshot {
	out := make([]engine.HealthSnapshot, 0, len(rows))
	for i := range rows {
		out = append(out, *healthSnapshot(&rows[i]))
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
