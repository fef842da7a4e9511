package engine

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Composite load subscores: calendar 0-40, body 0-30, tasks 0-30.
// These describe how heavy the day looks independent of the budget
// split in GenerateBrief.

// CalendarLoad summarizes today's calendar pressure.
type CalendarLoad struct {
	TotalHours      float64 `json:"total_hours"`
	HighEnergyCount int     `json:"high_energy_count"`
	ImmutableCount  int     `json:"immutable_count"`
	EventCount      int     `json:"event_count"`
	Score           int     `json:"score"` // 0-40
}

func ComputeCalendarLoad(events []Item) CalendarLoad {
	var load CalendarLoad
	for _, e := range events {
		if e.StartTime != nil && e.EndTime != nil {
			load.TotalHours += e.EndTime.Sub(*e.StartTime).Hours()
		}
		if e.EnergyLevel == EnergyHigh {
			load.HighEnergyCount++
		}
		if e.Immutable {
			load.ImmutableCount++
		}
	}
	load.EventCount = len(events)
	load.Score = clamp(int(math.Round(
		load.TotalHours/10*25+
			float64(load.HighEnergyCount)*5+
			float64(load.ImmutableCount)*2)), 0, 40)
	return load
}

// BodyLoad summarizes today's physiological pressure. Missing metrics
// fall back to moderate defaults and are flagged, never punished.
type BodyLoad struct {
	Score         int  `json:"score"` // 0-30
	BodyBattery   *int `json:"body_battery,omitempty"`
	Stress        *int `json:"stress,omitempty"`
	Steps         *int `json:"steps,omitempty"`
	DataAvailable bool `json:"data_available"`
	SleepMissing  bool `json:"sleep_missing"`
}

func ComputeBodyLoad(snap *HealthSnapshot) BodyLoad {
	if snap == nil {
		return BodyLoad{Score: 15}
	}

	score := 0
	if snap.BodyBattery != nil {
		score += int(math.Round(float64(100-*snap.BodyBattery) * 0.15))
	} else {
		score += 8
	}
	if snap.StressLevel != nil {
		score += int(math.Round(float64(*snap.StressLevel) * 0.15))
	} else {
		score += 7
	}

	return BodyLoad{
		Score:         clamp(score, 0, 30),
		BodyBattery:   snap.BodyBattery,
		Stress:        snap.StressLevel,
		Steps:         snap.Steps,
		DataAvailable: true,
		SleepMissing:  snap.SleepHours == nil,
	}
}

// TaskLoad summarizes open-task pressure.
type TaskLoad struct {
	Score       int `json:"score"` // 0-30
	OpenCount   int `json:"open_count"`
	UrgentCount int `json:"urgent_count"`
}

func ComputeTaskLoad(tasks []Item, now time.Time) TaskLoad {
	var urgent int
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Sub(now) <= 48*time.Hour {
			urgent++
		}
	}
	return TaskLoad{
		Score:       clamp(len(tasks)*2+urgent*5, 0, 30),
		OpenCount:   len(tasks),
		UrgentCount: urgent,
	}
}

// CompositeLoad totals the three subscores, capped at 100.
func CompositeLoad(cal CalendarLoad, body BodyLoad, task TaskLoad) int {
	return clamp(cal.Score+body.Score+task.Score, 0, 100)
}

// LoadLevel labels a 0-100 load score.
func LoadLevel(score int) string {
	switch {
	case score >= 70:
		return "heavy"
	case score >= 45:
		return "medium"
	default:
		return "light"
	}
}

// SmallAction produces one time-anchored decision for the day: a
// concrete instruction tied to the next free calendar gap, not a vague
// suggestion. The anchor is the end of the event before the first
// gap of at least 30 minutes; without one, a round hour is picked.
func SmallAction(snap *HealthSnapshot, trend TrendVerdict, cal CalendarLoad, events []Item, now time.Time) string {
	anchor := nextGapLabel(events, now)

	if trend.Trend == TrendConservation {
		return fmt.Sprintf("At %s: 20 minutes of rest. Phone on airplane mode. Not negotiable.", anchor)
	}
	if snap != nil && snap.StressLevel != nil && *snap.StressLevel > 50 {
		return fmt.Sprintf("At %s: 10 minutes of breathing. Block it in the calendar now.", anchor)
	}
	if snap != nil && snap.Steps != nil && *snap.Steps < 3000 && now.Hour() > 14 {
		return fmt.Sprintf("At %s: 15 minute walk outside. Set a reminder.", anchor)
	}
	if cal.TotalHours > 5 {
		return fmt.Sprintf("At %s: 10 minutes without screens. Close the laptop and leave the room.", anchor)
	}
	if snap != nil && snap.BodyBattery != nil && *snap.BodyBattery > 70 {
		return fmt.Sprintf("Before %s: one hour on the most important project. No interruptions.", anchor)
	}
	return fmt.Sprintf("At %s: 10 minute walk outside. Set a timer.", anchor)
}

func nextGapLabel(events []Item, now time.Time) string {
	var upcoming []Item
	for _, e := range events {
		if e.StartTime != nil && e.StartTime.After(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(*upcoming[j].StartTime)
	})

	for i := 0; i+1 < len(upcoming); i++ {
		end := upcoming[i].StartTime
		if upcoming[i].EndTime != nil {
			end = upcoming[i].EndTime
		}
		if upcoming[i+1].StartTime.Sub(*end) >= 30*time.Minute {
			return end.Format("15:04")
		}
	}

	// No usable gap: fall back to a round hour later today.
	switch hour := now.Hour(); {
	case hour < 13:
		return "13:00"
	case hour < 16:
		return "16:00"
	default:
		return fmt.Sprintf("%02d:00", hour+1)
	}
}
