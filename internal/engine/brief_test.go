package engine

import (
	"testing"
	"time"
)

func TestGenerateBriefLoadScoreBounds(t *testing.T) {
	// Far more load than any budget admits.
	var items []Item
	for i := 0; i < 30; i++ {
		items = append(items, Item{ID: string(rune('a' + i)), Title: "t", Domain: DomainWork, EstimatedLoad: 25})
	}
	brief := GenerateBrief(items, nil, nil, testNow, Config{})
	if brief.LoadScore < 0 || brief.LoadScore > 100 {
		t.Fatalf("load score out of range: %d", brief.LoadScore)
	}

	brief = GenerateBrief(nil, nil, nil, testNow, Config{})
	if brief.LoadScore != 0 {
		t.Fatalf("empty plan should score 0, got %d", brief.LoadScore)
	}
}

func TestGenerateBriefFamilyAlwaysAdmitted(t *testing.T) {
	// Budget exhausted by higher-sorted items; the family item with a
	// huge load still makes the cut.
	items := []Item{
		{ID: "1", Title: "Deep work", Domain: DomainHealth, EstimatedLoad: 80},
		{ID: "2", Title: "Family lunch", FamilyOverride: true, EstimatedLoad: 90},
	}
	brief := GenerateBrief(items, nil, nil, testNow, Config{})

	found := false
	for _, it := range brief.DoingStructured {
		if it.ID == "2" {
			found = true
		}
	}
	if !found {
		t.Fatal("family item must always appear in doing_today")
	}
}

func TestGenerateBriefConservationDefersHighEnergy(t *testing.T) {
	history := nightsOf(4.5, 5)
	items := []Item{
		{ID: "gym", Title: "Gym", Domain: DomainHealth, EnergyLevel: EnergyHigh, EstimatedLoad: 10},
		{ID: "mail", Title: "Email", Domain: DomainWork, EnergyLevel: EnergyLow, EstimatedLoad: 10},
		{ID: "fam", Title: "Family movie", FamilyOverride: true, EnergyLevel: EnergyHigh, EstimatedLoad: 10},
	}
	brief := GenerateBrief(items, nil, history, testNow, Config{})

	if !brief.ConservationMode {
		t.Fatal("five 4.5h nights should trigger conservation mode")
	}
	for _, it := range brief.DoingStructured {
		if it.EnergyLevel == EnergyHigh && !it.IsFamily() {
			t.Fatalf("high-energy item %q admitted under conservation", it.Title)
		}
	}
	for _, it := range brief.NotDoingStructured {
		if it.ID == "gym" && it.DeferReason != ReasonConservationMode {
			t.Fatalf("gym defer reason = %q, want conservation_mode", it.DeferReason)
		}
		if it.ID == "fam" {
			t.Fatal("family item must not be deferred, even at high energy")
		}
	}
}

func TestGenerateBriefLoadLimitReason(t *testing.T) {
	items := []Item{
		{ID: "1", Title: "Big", Domain: DomainHealth, EstimatedLoad: 75},
		{ID: "2", Title: "Small", Domain: DomainWork, EstimatedLoad: 20},
	}
	brief := GenerateBrief(items, nil, nil, testNow, Config{})
	if len(brief.NotDoingStructured) != 1 {
		t.Fatalf("expected 1 deferred item, got %d", len(brief.NotDoingStructured))
	}
	if brief.NotDoingStructured[0].DeferReason != ReasonLoadLimit {
		t.Fatalf("expected load_limit, got %q", brief.NotDoingStructured[0].DeferReason)
	}
}

func TestGenerateBriefGreedyNoBacktracking(t *testing.T) {
	// After the 70-load item fills most of the 80 budget, the next item
	// by priority (load 20) is deferred, and the split never backtracks
	// to admit the smaller, lower-priority one that would have fit.
	items := []Item{
		{ID: "big", Title: "Big", Domain: DomainHealth, EstimatedLoad: 70},
		{ID: "mid", Title: "Mid", Domain: DomainWork, EstimatedLoad: 20},
		{ID: "tiny", Title: "Tiny", Domain: DomainPersonal, EstimatedLoad: 10},
	}
	brief := GenerateBrief(items, nil, nil, testNow, Config{})
	if len(brief.DoingStructured) != 2 {
		t.Fatalf("expected big+tiny admitted, got %v", brief.DoingToday)
	}
	if brief.DoingStructured[0].ID != "big" || brief.DoingStructured[1].ID != "tiny" {
		t.Fatalf("unexpected admission order: %v", brief.DoingToday)
	}
}

func TestGenerateBriefStableOrder(t *testing.T) {
	// Equal scores keep encounter order.
	items := []Item{
		{ID: "1", Title: "First", Domain: DomainWork},
		{ID: "2", Title: "Second", Domain: DomainWork},
		{ID: "3", Title: "Third", Domain: DomainWork},
	}
	brief := GenerateBrief(items, nil, nil, testNow, Config{})
	for i, want := range []string{"1", "2", "3"} {
		if brief.DoingStructured[i].ID != want {
			t.Fatalf("stable sort violated at %d: %v", i, brief.DoingToday)
		}
	}
}

func TestGenerateBriefWarningGate(t *testing.T) {
	// Low-confidence sleep data produces no warning.
	snap := HealthSnapshot{Date: "2026-03-10", Steps: ptr(5000)}
	brief := GenerateBrief(nil, &snap, nil, testNow, Config{})
	if len(brief.Warnings) != 0 {
		t.Fatalf("low-confidence data must not warn: %+v", brief.Warnings)
	}

	// A validated short night does.
	bad := sleepSnap("2026-03-10", 4.5)
	brief = GenerateBrief(nil, &bad, nil, testNow, Config{})
	if len(brief.Warnings) != 1 || brief.Warnings[0].Type != "sleep" {
		t.Fatalf("expected one sleep warning, got %+v", brief.Warnings)
	}

	// Conservation adds its own warning on top.
	brief = GenerateBrief(nil, &bad, nightsOf(4.5, 5), testNow, Config{})
	types := map[string]bool{}
	for _, w := range brief.Warnings {
		types[w.Type] = true
	}
	if !types["sleep"] || !types["conservation"] {
		t.Fatalf("expected sleep+conservation warnings, got %+v", brief.Warnings)
	}
}

func TestGenerateBriefEndToEnd(t *testing.T) {
	now := testNow
	rentDue := now.Add(time.Hour)
	items := []Item{
		{ID: "rent", Title: "Pay rent", Domain: DomainWork, DueDate: &rentDue, EstimatedLoad: 10},
		{ID: "dinner", Title: "Family dinner", Labels: []string{"family"}, EstimatedLoad: 20},
		{ID: "gym", Title: "Gym", Domain: DomainHealth, EnergyLevel: EnergyHigh, EstimatedLoad: 30},
	}
	history := []HealthSnapshot{
		sleepSnap("2026-03-09", 4.5),
		sleepSnap("2026-03-08", 4.5),
		sleepSnap("2026-03-07", 4.5),
	}

	brief := GenerateBrief(items, nil, history, now, Config{})

	if !brief.ConservationMode {
		t.Fatal("three 4.5h nights should trigger conservation mode")
	}

	doing := map[string]bool{}
	for _, it := range brief.DoingStructured {
		doing[it.ID] = true
	}
	if !doing["dinner"] {
		t.Fatal("family dinner must be in doing_today")
	}
	if !doing["rent"] {
		t.Fatal("rent is due-date boosted and fits the 60 budget")
	}
	if doing["gym"] {
		t.Fatal("gym must be deferred under conservation mode")
	}
	if brief.NotDoingStructured[0].DeferReason != ReasonConservationMode {
		t.Fatalf("gym reason = %q", brief.NotDoingStructured[0].DeferReason)
	}
	if brief.GeneratedAt != now {
		t.Fatal("generated_at must be the caller-supplied now")
	}
}
