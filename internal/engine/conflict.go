package engine

import "time"

// Action is what happens to the loser of a conflict.
type Action string

const (
	ActionDefer      Action = "defer"
	ActionReschedule Action = "reschedule"
	ActionParking    Action = "parking"
)

// Resolution records the outcome of a conflict between two items.
type Resolution struct {
	Winner Item   `json:"winner"`
	Loser  Item   `json:"loser"`
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// An event with no end time is assumed to run this long.
const defaultEventDuration = time.Hour

func interval(it Item) (time.Time, time.Time) {
	start := *it.StartTime
	end := start.Add(defaultEventDuration)
	if it.EndTime != nil {
		end = *it.EndTime
	}
	return start, end
}

// Overlaps reports whether the two items' [start,end) intervals
// intersect. Items without a start time never conflict.
func Overlaps(a, b Item) bool {
	if a.StartTime == nil || b.StartTime == nil {
		return false
	}
	aStart, aEnd := interval(a)
	bStart, bEnd := interval(b)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ResolveConflict decides which of two overlapping items stands.
// Each rule short-circuits the rest: a family commitment is never
// auto-rescheduled against, only deferred around; an immutable event
// pushes the other side to reschedule; otherwise the derived priority
// decides, parking the loser when its score is below 40.
func ResolveConflict(a, b Item, ctx Context) Resolution {
	priorityA := CalculatePriority(a, ctx)
	priorityB := CalculatePriority(b, ctx)

	if a.IsFamily() && !b.IsFamily() {
		return Resolution{Winner: a, Loser: b, Action: ActionDefer, Reason: "family_override"}
	}
	if b.IsFamily() && !a.IsFamily() {
		return Resolution{Winner: b, Loser: a, Action: ActionDefer, Reason: "family_override"}
	}

	if a.Immutable && !b.Immutable {
		return Resolution{Winner: a, Loser: b, Action: ActionReschedule, Reason: "immutable_event"}
	}
	if b.Immutable && !a.Immutable {
		return Resolution{Winner: b, Loser: a, Action: ActionReschedule, Reason: "immutable_event"}
	}

	winner, loser, loserScore := a, b, priorityB
	switch {
	case priorityA > priorityB:
		// keep a
	case priorityB > priorityA:
		winner, loser, loserScore = b, a, priorityA
	default:
		// Equal scores: the earlier start wins; with no start times
		// (or identical ones) the first argument stands.
		if startsAfter(a, b) {
			winner, loser, loserScore = b, a, priorityA
		}
	}

	action := ActionDefer
	if loserScore < 40 {
		action = ActionParking
	}
	return Resolution{Winner: winner, Loser: loser, Action: action, Reason: "priority"}
}

func startsAfter(a, b Item) bool {
	if a.StartTime == nil || b.StartTime == nil {
		return false
	}
	return a.StartTime.After(*b.StartTime)
}
