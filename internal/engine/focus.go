package engine

import "time"

// FocusState buckets the brief's items by their position relative to
// the current time. It is transient: recomputed on every tick and
// never persisted, so "what's next" tracks the wall clock instead of
// brief-generation time.
type FocusState struct {
	Ongoing  []Item
	Upcoming []Item
	Past     []Item
	Tasks    []Item // items with no time anchoring at all
}

// Focus is the single item the user should be looking at right now.
type Focus struct {
	Item   Item
	Status LiveStatus
}

// ClassifyEventTime places an item relative to now. An item that has
// started but has no end is treated as still ongoing, so a long or
// open-ended activity is never silently dropped. Plain tasks default
// to upcoming.
func ClassifyEventTime(item Item, now time.Time) LiveStatus {
	start, end := item.StartTime, item.EndTime

	if end != nil && end.Before(now) {
		return StatusPast
	}
	if start != nil && !start.After(now) && (end == nil || !end.Before(now)) {
		return StatusOngoing
	}
	if start != nil && start.After(now) {
		return StatusUpcoming
	}
	if start != nil && start.Before(now) {
		return StatusPast
	}
	return StatusUpcoming
}

// BuildFocusState reclassifies every item against now.
func BuildFocusState(items []Item, now time.Time) FocusState {
	var state FocusState
	for _, item := range items {
		item.LiveStatus = ClassifyEventTime(item, now)
		if !item.IsEvent() {
			state.Tasks = append(state.Tasks, item)
			continue
		}
		switch item.LiveStatus {
		case StatusOngoing:
			state.Ongoing = append(state.Ongoing, item)
		case StatusPast:
			state.Past = append(state.Past, item)
		default:
			state.Upcoming = append(state.Upcoming, item)
		}
	}
	return state
}

// SelectFocus picks the current focus: the first ongoing item, else
// the first upcoming event, else the first untimed task. A nil result
// means there is nothing left today and the caller should render a
// calm empty state, not stale information.
func SelectFocus(items []Item, now time.Time) *Focus {
	state := BuildFocusState(items, now)
	if len(state.Ongoing) > 0 {
		return &Focus{Item: state.Ongoing[0], Status: StatusOngoing}
	}
	if len(state.Upcoming) > 0 {
		return &Focus{Item: state.Upcoming[0], Status: StatusUpcoming}
	}
	if len(state.Tasks) > 0 {
		return &Focus{Item: state.Tasks[0], Status: StatusUpcoming}
	}
	return nil
}

// NextUp returns up to n items after the main focus, for the "later
// today" list under the focus card.
func NextUp(items []Item, now time.Time, n int) []Item {
	state := BuildFocusState(items, now)
	all := make([]Item, 0, len(state.Ongoing)+len(state.Upcoming)+len(state.Tasks))
	all = append(all, state.Ongoing...)
	all = append(all, state.Upcoming...)
	all = append(all, state.Tasks...)
	if len(all) <= 1 {
		return nil
	}
	all = all[1:]
	if len(all) > n {
		all = all[:n]
	}
	return all
}
