package store

import (
	"testing"
	"time"

	"github.com/mikka2-source/personal-command-center-sub000/internal/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// insertItem is a test helper that creates an open item with sensible defaults.
func insertItem(t *testing.T, s *Store, title, domain string) *Item {
	t.Helper()
	it, err := s.CreateItem(Item{Title: title, Domain: domain, EstLoad: 10})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}
	return it
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/commandcenter.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen, should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

// ============================================================
// Items
// ============================================================

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)
	it, err := s.CreateItem(Item{
		Title:       "pay rent",
		Domain:      "urgent",
		Labels:      []string{"money", "home"},
		DueDate:     &due,
		EnergyLevel: "low",
		EstLoad:     5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if it.ID == "" {
		t.Fatal("no id assigned")
	}
	if it.Status != StatusOpen {
		t.Errorf("status = %q, want open", it.Status)
	}
	if len(it.Labels) != 2 || it.Labels[0] != "money" {
		t.Errorf("labels = %v", it.Labels)
	}
	if it.DueDate == nil || !it.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", it.DueDate, due)
	}
}

func TestGetItemMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetItem("nope"); err == nil {
		t.Fatal("expected error for missing item")
	}
}

func TestListItemsFilter(t *testing.T) {
	s := newTestStore(t)
	insertItem(t, s, "report", "work")
	insertItem(t, s, "dentist", "health")
	done := insertItem(t, s, "email", "work")
	if err := s.SetItemStatus(done.ID, StatusDone, ""); err != nil {
		t.Fatal(err)
	}

	open, err := s.ListItems(ItemFilter{Status: StatusOpen})
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("open items = %d, want 2", len(open))
	}

	work, err := s.ListItems(ItemFilter{Status: StatusOpen, Domain: "work"})
	if err != nil {
		t.Fatal(err)
	}
	if len(work) != 1 || work[0].Title != "report" {
		t.Fatalf("work items = %v", work)
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)
	it := insertItem(t, s, "draft", "work")

	it.Title = "draft v2"
	it.Immutable = true
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	it.StartTime = &start
	if err := s.UpdateItem(*it); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetItem(it.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "draft v2" || !got.Immutable {
		t.Errorf("update not applied: %+v", got)
	}
	if got.StartTime == nil || !got.StartTime.Equal(start) {
		t.Errorf("start time = %v", got.StartTime)
	}

	it.ID = "missing"
	if err := s.UpdateItem(*it); err == nil {
		t.Error("expected error updating missing item")
	}
}

func TestSetItemStatusRecordsCompletion(t *testing.T) {
	s := newTestStore(t)
	it := insertItem(t, s, "ship", "work")

	if err := s.SetItemStatus(it.ID, StatusDone, ""); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetItem(it.ID)
	if got.CompletedAt == nil {
		t.Fatal("completed_at not set")
	}

	if err := s.SetItemStatus(it.ID, StatusOpen, ""); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetItem(it.ID)
	if got.CompletedAt != nil {
		t.Error("completed_at should clear on reopen")
	}

	if err := s.SetItemStatus("missing", StatusDone, ""); err == nil {
		t.Error("expected error for missing item")
	}
}

func TestSetItemStatusDeferReason(t *testing.T) {
	s := newTestStore(t)
	it := insertItem(t, s, "deep work", "work")

	if err := s.SetItemStatus(it.ID, StatusDeferred, "conservation_mode"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetItem(it.ID)
	if got.Status != StatusDeferred || got.DeferReason != "conservation_mode" {
		t.Errorf("got status=%q reason=%q", got.Status, got.DeferReason)
	}
}

func TestCompletedOn(t *testing.T) {
	s := newTestStore(t)
	a := insertItem(t, s, "a", "work")
	insertItem(t, s, "b", "work")
	if err := s.SetItemStatus(a.ID, StatusDone, ""); err != nil {
		t.Fatal(err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	done, err := s.CompletedOn(today)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 || done[0].Title != "a" {
		t.Fatalf("completed = %v", done)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	it := insertItem(t, s, "junk", "personal")
	if err := s.DeleteItem(it.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetItem(it.ID); err == nil {
		t.Fatal("item still present after delete")
	}
}

// ============================================================
// Health
// ============================================================

func TestHealthUpsertAndGet(t *testing.T) {
	s := newTestStore(t)

	row := HealthRow{
		UserID:      "dan",
		Date:        "2026-03-10",
		SleepHours:  ptr(6.5),
		BodyBattery: ptr(55),
		Steps:       ptr(4200),
	}
	if err := s.UpsertHealth(row); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetHealth("dan", "2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.SleepHours == nil || *got.SleepHours != 6.5 {
		t.Fatalf("got %+v", got)
	}
	if got.Stress != nil {
		t.Error("stress should be nil")
	}

	// Re-sync replaces the row.
	row.SleepHours = ptr(7.2)
	if err := s.UpsertHealth(row); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetHealth("dan", "2026-03-10")
	if *got.SleepHours != 7.2 {
		t.Errorf("sleep = %v after re-sync", *got.SleepHours)
	}
}

func TestGetHealthMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetHealth("dan", "2026-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestRecentHealthOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	for _, d := range []string{"2026-03-05", "2026-03-06", "2026-03-08", "2026-03-09", "2026-03-10"} {
		if err := s.UpsertHealth(HealthRow{UserID: "dan", Date: d, SleepHours: ptr(7.0)}); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := s.RecentHealth("dan", "2026-03-10", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Date != "2026-03-10" || rows[2].Date != "2026-03-08" {
		t.Errorf("order wrong: %s .. %s", rows[0].Date, rows[2].Date)
	}
}

// ============================================================
// Briefs
// ============================================================

func TestBriefUpsert(t *testing.T) {
	s := newTestStore(t)

	b := BriefRow{
		UserID:      "dan",
		Date:        "2026-03-10",
		Payload:     `{"doing_today":["pay rent"]}`,
		LoadScore:   42,
		GeneratedAt: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC),
	}
	if err := s.UpsertBrief(b); err != nil {
		t.Fatal(err)
	}

	// Second run the same morning overwrites.
	b.LoadScore = 55
	b.Conservation = true
	if err := s.UpsertBrief(b); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBrief("dan", "2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if got.LoadScore != 55 || !got.Conservation {
		t.Errorf("got %+v", got)
	}

	all, err := s.ListBriefs("dan", "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("briefs = %d, want 1 after upsert", len(all))
	}
}

func TestGetBriefMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetBrief("dan", "2026-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

// ============================================================
// Day close
// ============================================================

func TestDayCloseSaveAndGet(t *testing.T) {
	s := newTestStore(t)

	r := DayCloseRow{
		UserID:   "dan",
		Date:     "2026-03-10",
		State:    "auto",
		Summary:  `{"closures":3,"mood":"neutral"}`,
		ClosedAt: time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC),
	}
	if err := s.SaveDayClose(r); err != nil {
		t.Fatal(err)
	}

	// User reviews after the auto close landed.
	r.State = "reviewed"
	r.TomorrowNote = "start with the proposal"
	if err := s.SaveDayClose(r); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetDayClose("dan", "2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != "reviewed" || got.TomorrowNote != "start with the proposal" {
		t.Errorf("got %+v", got)
	}
}

func TestGetDayCloseMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetDayClose("dan", "2026-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

// ============================================================
// Settings and config
// ============================================================

func TestSettingsSeeded(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("user_id")
	if err != nil {
		t.Fatal(err)
	}
	if v != "dan" {
		t.Errorf("user_id = %q", v)
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 8 {
		t.Errorf("settings = %d, want 8 seeds", len(all))
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("max_load", "90"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("max_load")
	if v != "90" {
		t.Errorf("max_load = %q", v)
	}
}

func TestLoadConfig(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UserID != "dan" {
		t.Errorf("user = %q", cfg.UserID)
	}
	if cfg.Timezone.String() != "Asia/Nicosia" {
		t.Errorf("timezone = %s", cfg.Timezone)
	}
	want := engine.Config{TrendWindow: 5, MaxLoad: 80, ConservationLoad: 60, DefaultItemLoad: 10, WarningFloor: 75}
	if cfg.Engine != want {
		t.Errorf("engine config = %+v", cfg.Engine)
	}
	if cfg.DayCloseDelaySecs != 30 || cfg.FocusRefreshSecs != 60 {
		t.Errorf("delays = %d/%d", cfg.DayCloseDelaySecs, cfg.FocusRefreshSecs)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("max_load", "70")
	s.SetSetting("trend_window", "garbage")

	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.MaxLoad != 70 {
		t.Errorf("max_load = %d, want 70", cfg.Engine.MaxLoad)
	}
	// Malformed values fall back to the default.
	if cfg.Engine.TrendWindow != 5 {
		t.Errorf("trend_window = %d, want 5", cfg.Engine.TrendWindow)
	}
}
