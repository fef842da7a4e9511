package engine

// Domain hierarchy for priority derivation. Family always wins.
var domainWeight = map[Domain]int{
	DomainFamily:    100,
	DomainHealth:    90,
	DomainImmutable: 85,
	DomainUrgent:    80,
	DomainWork:      50,
	DomainPersonal:  40,
	DomainParking:   0,
}

const defaultDomainWeight = 50

// CalculatePriority derives an item's 0-100 priority for this run.
// Priority is never user-set; it is computed from the item and the
// execution context. The ladder is additive then clamped so the
// overrides compose predictably.
func CalculatePriority(item Item, ctx Context) int {
	priority, ok := domainWeight[item.Domain]
	if !ok {
		priority = defaultDomainWeight
	}

	// Family override bumps to max, unconditionally.
	if item.IsFamily() {
		priority = 100
	}

	// Immutable events can't be moved.
	if item.Immutable && priority < 85 {
		priority = 85
	}

	// Time sensitivity boost.
	if item.DueDate != nil {
		switch hours := item.DueDate.Sub(ctx.Now).Hours(); {
		case hours < 2:
			priority += 30
		case hours < 24:
			priority += 15
		case hours < 48:
			priority += 5
		}
	}

	// Defer high-energy work when capacity is reduced.
	if ctx.ConservationMode && item.EnergyLevel == EnergyHigh {
		priority -= 20
	}

	// Unblocking others is rewarded.
	if item.HasWaitingDependency {
		priority += 15
	}

	return clamp(priority, 0, 100)
}
