package engine

import "time"

// Fixed clock for deterministic tests: a Tuesday mid-morning.
var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func sleepSnap(date string, hours float64) HealthSnapshot {
	return HealthSnapshot{Date: date, SleepHours: ptr(hours)}
}

func emptySnap(date string) HealthSnapshot {
	return HealthSnapshot{Date: date}
}

// nightsOf builds a history of identical sleep readings, most recent first.
func nightsOf(hours float64, n int) []HealthSnapshot {
	out := make([]HealthSnapshot, n)
	for i := range out {
		out[i] = sleepSnap(testNow.AddDate(0, 0, -i).Format("2006-01-02"), hours)
	}
	return out
}

func timedItem(title string, start, end time.Time) Item {
	return Item{ID: title, Title: title, Domain: DomainWork, StartTime: &start, EndTime: &end}
}
