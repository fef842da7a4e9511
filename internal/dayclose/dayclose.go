// Package dayclose implements the soft day-close flow: an automatic
// end-of-day summary the user can acknowledge, review, or simply let
// close itself after a grace period.
package dayclose

import (
	"fmt"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
)

// State is a position in the day-close flow.
type State int

const (
	StateLoading State = iota
	StateAuto
	StatePartial
	StateReviewed
	StateClosed
)

var stateNames = map[State]string{
	StateLoading:  "loading",
	StateAuto:     "auto",
	StatePartial:  "partial",
	StateReviewed: "reviewed",
	StateClosed:   "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState maps a stored tag back to a State.
func ParseState(tag string) (State, error) {
	for s, name := range stateNames {
		if name == tag {
			return s, nil
		}
	}
	return StateLoading, fmt.Errorf("unknown day-close state %q", tag)
}

// transitions is the complete set of legal moves. Anything absent is
// illegal; terminal states have no exits.
var transitions = map[State][]State{
	StateLoading:  {StateAuto, StateClosed},
	StateAuto:     {StatePartial, StateReviewed, StateClosed},
	StatePartial:  {StateClosed},
	StateReviewed: {StateClosed},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Mood is the one-word read on how the day went.
type Mood string

const (
	MoodProductive Mood = "productive"
	MoodNeutral    Mood = "neutral"
	MoodLow        Mood = "low"
)

// Summary is the automatic end-of-day rollup.
type Summary struct {
	Closures   int      `json:"closures"`
	Highlights []string `json:"highlights,omitempty"`
	Mood       Mood     `json:"mood"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
	Battery    *int     `json:"body_battery,omitempty"`
	Steps      *int     `json:"steps,omitempty"`
}

// Record is the persisted outcome for one calendar day. State records
// how the day closed: auto (silent timeout), partial (acknowledged) or
// reviewed (note written).
type Record struct {
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	State        State     `json:"state"`
	Summary      Summary   `json:"summary"`
	TomorrowNote string    `json:"tomorrow_note,omitempty"`
	ClosedAt     time.Time `json:"closed_at"`
}

// Qualifying step count for a "moved enough today" closure.
const stepsClosureThreshold = 5000

// BuildSummary counts the day's closures and derives the mood. A
// closure is anything finished today: a completed task, an event now
// in the past, the morning anchor, or a qualifying step count.
func BuildSummary(completed []engine.Item, events []engine.Item, anchorDone bool, snap *engine.HealthSnapshot, now time.Time) Summary {
	closures := len(completed)

	pastEvents := 0
	for _, e := range events {
		end := e.EndTime
		if end == nil {
			end = e.StartTime
		}
		if end != nil && end.Before(now) {
			pastEvents++
		}
	}
	closures += pastEvents

	if anchorDone {
		closures++
	}

	var highlights []string
	if len(completed) > 0 {
		highlights = append(highlights, fmt.Sprintf("%d tasks completed", len(completed)))
	}
	if pastEvents > 0 {
		highlights = append(highlights, fmt.Sprintf("%d events", pastEvents))
	}

	summary := Summary{Closures: closures, Highlights: highlights, Mood: MoodNeutral}
	if snap != nil {
		summary.SleepHours = snap.SleepHours
		summary.Battery = snap.BodyBattery
		summary.Steps = snap.Steps
		if snap.Steps != nil && *snap.Steps > stepsClosureThreshold {
			summary.Closures++
			summary.Highlights = append(summary.Highlights, fmt.Sprintf("%d steps", *snap.Steps))
		}
	}

	summary.Mood = deriveMood(summary.Closures, summary.Battery)
	return summary
}

func deriveMood(closures int, battery *int) Mood {
	if closures >= 5 && (battery == nil || *battery > 50) {
		return MoodProductive
	}
	if closures < 2 && battery != nil && *battery < 30 {
		return MoodLow
	}
	return MoodNeutral
}
