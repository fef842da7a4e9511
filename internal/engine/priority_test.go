package engine

import (
	"testing"
	"time"
)

func TestDomainWeights(t *testing.T) {
	ctx := Context{Now: testNow}
	tests := []struct {
		domain Domain
		want   int
	}{
		{DomainFamily, 100},
		{DomainHealth, 90},
		{DomainImmutable, 85},
		{DomainUrgent, 80},
		{DomainWork, 50},
		{DomainPersonal, 40},
		{DomainParking, 0},
		{Domain("mystery"), 50},
	}
	for _, tt := range tests {
		got := CalculatePriority(Item{Domain: tt.domain}, ctx)
		if got != tt.want {
			t.Fatalf("domain %s: expected %d, got %d", tt.domain, tt.want, got)
		}
	}
}

func TestFamilyOverrideAlwaysWins(t *testing.T) {
	ctx := Context{Now: testNow, ConservationMode: true}
	far := testNow.AddDate(0, 1, 0)

	// Parking domain, far-future due date, high energy under
	// conservation: family still forces 100.
	item := Item{
		Domain:         DomainParking,
		FamilyOverride: true,
		DueDate:        &far,
		EnergyLevel:    EnergyHigh,
	}
	if got := CalculatePriority(item, ctx); got != 100 {
		t.Fatalf("family override should pin 100, got %d", got)
	}

	// The family label counts the same as the flag.
	item = Item{Domain: DomainParking, Labels: []string{"errand", "family"}}
	if got := CalculatePriority(item, Context{Now: testNow}); got != 100 {
		t.Fatalf("family label should pin 100, got %d", got)
	}
}

func TestImmutableFloor(t *testing.T) {
	ctx := Context{Now: testNow}
	if got := CalculatePriority(Item{Domain: DomainPersonal, Immutable: true}, ctx); got != 85 {
		t.Fatalf("immutable should raise personal to 85, got %d", got)
	}
	// Does not lower a higher score.
	if got := CalculatePriority(Item{Domain: DomainHealth, Immutable: true}, ctx); got != 90 {
		t.Fatalf("immutable should not lower health from 90, got %d", got)
	}
}

func TestDueDateBoost(t *testing.T) {
	ctx := Context{Now: testNow}
	tests := []struct {
		until time.Duration
		want  int // on top of the work base of 50
	}{
		{1 * time.Hour, 80},
		{-1 * time.Hour, 80}, // overdue counts as most urgent
		{12 * time.Hour, 65},
		{36 * time.Hour, 55},
		{72 * time.Hour, 50},
	}
	for _, tt := range tests {
		due := testNow.Add(tt.until)
		got := CalculatePriority(Item{Domain: DomainWork, DueDate: &due}, ctx)
		if got != tt.want {
			t.Fatalf("due in %v: expected %d, got %d", tt.until, tt.want, got)
		}
	}
}

func TestConservationPenalty(t *testing.T) {
	item := Item{Domain: DomainWork, EnergyLevel: EnergyHigh}
	if got := CalculatePriority(item, Context{Now: testNow}); got != 50 {
		t.Fatalf("no penalty outside conservation, got %d", got)
	}
	if got := CalculatePriority(item, Context{Now: testNow, ConservationMode: true}); got != 30 {
		t.Fatalf("expected -20 under conservation, got %d", got)
	}
	// Only high energy is penalized.
	item.EnergyLevel = EnergyMedium
	if got := CalculatePriority(item, Context{Now: testNow, ConservationMode: true}); got != 50 {
		t.Fatalf("medium energy should be untouched, got %d", got)
	}
}

func TestDependencyBoost(t *testing.T) {
	item := Item{Domain: DomainWork, HasWaitingDependency: true}
	if got := CalculatePriority(item, Context{Now: testNow}); got != 65 {
		t.Fatalf("expected 65, got %d", got)
	}
}

func TestPriorityClamped(t *testing.T) {
	ctx := Context{Now: testNow}
	soon := testNow.Add(30 * time.Minute)

	// health 90 + due<2h 30 + dependency 15 would be 135.
	item := Item{Domain: DomainHealth, DueDate: &soon, HasWaitingDependency: true}
	if got := CalculatePriority(item, ctx); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}

	// parking 0 - 20 would be negative.
	item = Item{Domain: DomainParking, EnergyLevel: EnergyHigh}
	if got := CalculatePriority(item, Context{Now: testNow, ConservationMode: true}); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}
