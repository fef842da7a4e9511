package engine

import (
	"testing"
	"time"
)

func focusFixtures() (past, meeting, call Item) {
	at := func(h int) time.Time {
		return time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC)
	}
	past = timedItem("breakfast", at(7), at(8))
	meeting = timedItem("planning", at(10), at(11))
	call = timedItem("client call", at(15), at(16))
	return
}

func TestClassifyEventTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	past, meeting, call := focusFixtures()

	if got := ClassifyEventTime(past, now); got != StatusPast {
		t.Fatalf("ended event: expected past, got %s", got)
	}
	if got := ClassifyEventTime(meeting, now); got != StatusOngoing {
		t.Fatalf("event in progress: expected ongoing, got %s", got)
	}
	if got := ClassifyEventTime(call, now); got != StatusUpcoming {
		t.Fatalf("future event: expected upcoming, got %s", got)
	}
}

func TestClassifyEventTimeOpenEnded(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Started hours ago with no end: still ongoing, the optimistic
	// default, so an open-ended activity is never silently dropped.
	open := Item{Title: "workshop", StartTime: &start}
	if got := ClassifyEventTime(open, now); got != StatusOngoing {
		t.Fatalf("open-ended started event: expected ongoing, got %s", got)
	}

	// Starting exactly now counts as ongoing.
	open.StartTime = &now
	if got := ClassifyEventTime(open, now); got != StatusOngoing {
		t.Fatalf("start==now: expected ongoing, got %s", got)
	}
}

func TestClassifyEventTimePlainTask(t *testing.T) {
	task := Item{Title: "write report"}
	if got := ClassifyEventTime(task, testNow); got != StatusUpcoming {
		t.Fatalf("untimed task: expected upcoming, got %s", got)
	}
}

func TestSelectFocusPrefersOngoing(t *testing.T) {
	past, meeting, call := focusFixtures()
	items := []Item{past, meeting, call}

	inMeeting := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	focus := SelectFocus(items, inMeeting)
	if focus == nil || focus.Item.Title != "planning" || focus.Status != StatusOngoing {
		t.Fatalf("expected ongoing planning, got %+v", focus)
	}

	// Same items later in the day: the meeting is over, so the future
	// call becomes the focus.
	betweenEvents := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	focus = SelectFocus(items, betweenEvents)
	if focus == nil || focus.Item.Title != "client call" || focus.Status != StatusUpcoming {
		t.Fatalf("expected upcoming client call, got %+v", focus)
	}
}

func TestSelectFocusAllPast(t *testing.T) {
	past, meeting, call := focusFixtures()
	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	focus := SelectFocus([]Item{past, meeting, call}, evening)
	if focus != nil {
		t.Fatalf("all-past items must yield nil focus, got %+v", focus)
	}
}

func TestSelectFocusFallsBackToTasks(t *testing.T) {
	past, _, _ := focusFixtures()
	task := Item{Title: "inbox zero"}
	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	focus := SelectFocus([]Item{past, task}, evening)
	if focus == nil || focus.Item.Title != "inbox zero" || focus.Status != StatusUpcoming {
		t.Fatalf("expected task fallback, got %+v", focus)
	}
}

func TestSelectFocusTracksTime(t *testing.T) {
	// The same input reclassified at different times gives different
	// answers; nothing is cached from generation time.
	past, meeting, call := focusFixtures()
	items := []Item{past, meeting, call}

	var titles []string
	for _, hour := range []int{9, 10, 12, 17} {
		now := time.Date(2026, 3, 10, hour, 30, 0, 0, time.UTC)
		f := SelectFocus(items, now)
		if f == nil {
			titles = append(titles, "<none>")
		} else {
			titles = append(titles, f.Item.Title)
		}
	}
	want := []string{"planning", "planning", "client call", "<none>"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("tick %d: expected %q, got %q", i, want[i], titles[i])
		}
	}
}

func TestBuildFocusStateBuckets(t *testing.T) {
	past, meeting, call := focusFixtures()
	task := Item{Title: "errand"}
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

	state := BuildFocusState([]Item{past, meeting, call, task}, now)
	if len(state.Past) != 1 || len(state.Ongoing) != 1 || len(state.Upcoming) != 1 || len(state.Tasks) != 1 {
		t.Fatalf("unexpected buckets: %d/%d/%d/%d",
			len(state.Past), len(state.Ongoing), len(state.Upcoming), len(state.Tasks))
	}
	if state.Ongoing[0].LiveStatus != StatusOngoing {
		t.Fatal("items must be annotated with their live status")
	}
}

func TestNextUp(t *testing.T) {
	past, meeting, call := focusFixtures()
	task := Item{Title: "errand"}
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

	next := NextUp([]Item{past, meeting, call, task}, now, 3)
	if len(next) != 2 {
		t.Fatalf("expected 2 next items, got %d", len(next))
	}
	if next[0].Title != "client call" || next[1].Title != "errand" {
		t.Fatalf("unexpected order: %v", []string{next[0].Title, next[1].Title})
	}
}
