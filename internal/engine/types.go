package engine

import (
	"slices"
	"time"
)

// Domain places an item in the priority hierarchy.
type Domain string

const (
	DomainFamily    Domain = "family"
	DomainHealth    Domain = "health"
	DomainImmutable Domain = "immutable"
	DomainUrgent    Domain = "urgent"
	DomainWork      Domain = "work"
	DomainPersonal  Domain = "personal"
	DomainParking   Domain = "parking"
)

// EnergyLevel is the effort class of an item.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// LiveStatus is an item's position relative to the current time.
type LiveStatus string

const (
	StatusPast     LiveStatus = "past"
	StatusOngoing  LiveStatus = "ongoing"
	StatusUpcoming LiveStatus = "upcoming"
)

// Item is a task or calendar event under consideration for today.
// The engine annotates DerivedPriority, LiveStatus and DeferReason;
// everything else comes from ingestion or capture.
type Item struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title"`
	Domain               Domain      `json:"domain"`
	Labels               []string    `json:"labels,omitempty"`
	FamilyOverride       bool        `json:"family_override"`
	Immutable            bool        `json:"immutable"`
	DueDate              *time.Time  `json:"due_date,omitempty"`
	EnergyLevel          EnergyLevel `json:"energy_level,omitempty"`
	HasWaitingDependency bool        `json:"has_waiting_dependency"`
	EstimatedLoad        int         `json:"estimated_load"`
	StartTime            *time.Time  `json:"start_time,omitempty"`
	EndTime              *time.Time  `json:"end_time,omitempty"`

	DerivedPriority int        `json:"derived_priority,omitempty"`
	LiveStatus      LiveStatus `json:"live_status,omitempty"`
	DeferReason     string     `json:"defer_reason,omitempty"`
}

// IsFamily reports whether the item carries the family override,
// either directly or via a "family" label.
func (it Item) IsFamily() bool {
	return it.FamilyOverride || slices.Contains(it.Labels, "family")
}

// IsEvent reports whether the item has any time anchoring.
func (it Item) IsEvent() bool {
	return it.StartTime != nil || it.EndTime != nil
}

// Load returns the item's effort units, falling back to the default.
func (it Item) Load(fallback int) int {
	if it.EstimatedLoad > 0 {
		return it.EstimatedLoad
	}
	return fallback
}

// HealthSnapshot is one day's physiological reading. Nil fields mean
// the metric was not recorded, which is never the same as a bad value.
type HealthSnapshot struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	BodyBattery *int     `json:"body_battery,omitempty"`
	StressLevel *int     `json:"stress_level,omitempty"`
}

// Context carries per-invocation state into the scoring functions.
// Now is always caller-supplied; the engine never reads the clock.
type Context struct {
	Now              time.Time
	ConservationMode bool
}

// Config holds the tunable thresholds. Zero values are replaced by
// DefaultConfig at the entry points, so an empty Config is usable.
type Config struct {
	TrendWindow      int // nights considered by AnalyzeTrend
	MaxLoad          int // daily effort budget
	ConservationLoad int // budget under conservation mode
	DefaultItemLoad  int // effort units when an item has none
	WarningFloor     int // minimum confidence for user-visible warnings
}

func DefaultConfig() Config {
	return Config{
		TrendWindow:      5,
		MaxLoad:          80,
		ConservationLoad: 60,
		DefaultItemLoad:  10,
		WarningFloor:     75,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TrendWindow <= 0 {
		c.TrendWindow = d.TrendWindow
	}
	if c.MaxLoad <= 0 {
		c.MaxLoad = d.MaxLoad
	}
	if c.ConservationLoad <= 0 {
		c.ConservationLoad = d.ConservationLoad
	}
	if c.DefaultItemLoad <= 0 {
		c.DefaultItemLoad = d.DefaultItemLoad
	}
	if c.WarningFloor <= 0 {
		c.WarningFloor = d.WarningFloor
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
