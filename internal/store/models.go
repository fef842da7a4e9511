package store

import "time"

// Item statuses as stored.
const (
	StatusOpen     = "open"
	StatusDone     = "done"
	StatusDeferred = "deferred"
	StatusParked   = "parked"
)

type Item struct {
	ID          string
	Title       string
	Domain      string
	Labels      []string
	Family      bool
	Immutable   bool
	DueDate     *time.Time
	EnergyLevel string
	Waiting     bool
	EstLoad     int
	StartTime   *time.Time
	EndTime     *time.Time
	Status      string
	DeferReason string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

type HealthRow struct {
	UserID      string
	Date        string
	SleepHours  *float64
	BodyBattery *int
	Steps       *int
	Stress      *int
	RecordedAt  time.Time
}

type BriefRow struct {
	ID           int64
	UserID       string
	Date         string
	Payload      string
	LoadScore    int
	Conservation bool
	GeneratedAt  time.Time
}

type DayCloseRow struct {
	UserID       string
	Date         string
	State        string
	Summary      string
	TomorrowNote string
	ClosedAt     time.Time
}

type Setting struct {
	Key   string
	Value string
}

// ItemFilter narrows ListItems queries.
type ItemFilter struct {
	Status string
	Domain string
	Limit  int
}
