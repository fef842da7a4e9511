package engine

import (
	"math"
	"sort"
	"time"
)

// Defer reasons annotated onto not-doing-today items.
const (
	ReasonConservationMode = "conservation_mode"
	ReasonLoadLimit        = "load_limit"
)

// Warning is a health warning surfaced with the brief. Warnings are
// only emitted when the underlying verdict clears the confidence
// floor; low-confidence signals stay silent.
type Warning struct {
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Confidence int      `json:"confidence"`
}

// Brief is the day's plan. It is regenerated wholesale each run and
// never partially mutated.
type Brief struct {
	DoingToday          []string  `json:"doing_today"`
	NotDoingToday       []string  `json:"not_doing_today"`
	DoingStructured     []Item    `json:"doing_today_structured"`
	NotDoingStructured  []Item    `json:"not_doing_today_structured"`
	LoadScore           int       `json:"load_score"`
	Warnings            []Warning `json:"warnings,omitempty"`
	ConservationMode    bool      `json:"conservation_mode"`
	SleepTrend          Trend     `json:"sleep_trend"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// HealthWarnings collects the warnings worth telling the user about:
// today's sleep and body battery verdicts plus the trend's
// conservation warning. The confidence floor is the sole gate between
// "a health state exists" and "the user is told about it".
func HealthWarnings(snap *HealthSnapshot, history []HealthSnapshot, cfg Config) []Warning {
	cfg = cfg.withDefaults()
	var warnings []Warning

	if v := ClassifySleep(snap); v.ShowWarning && v.Confidence >= cfg.WarningFloor {
		warnings = append(warnings, Warning{
			Type:       "sleep",
			Message:    v.Message,
			Severity:   severityOrMedium(v.Severity),
			Confidence: v.Confidence,
		})
	}

	if trend := AnalyzeTrend(history, cfg.TrendWindow); trend.ConservationMode {
		warnings = append(warnings, Warning{
			Type:       "conservation",
			Message:    trend.Message,
			Severity:   SeverityHigh,
			Confidence: trend.Confidence,
		})
	}

	if v := ClassifyBodyBattery(snap); v.ShowWarning && v.Confidence >= cfg.WarningFloor {
		warnings = append(warnings, Warning{
			Type:       "energy",
			Message:    v.Message,
			Severity:   severityOrMedium(v.Severity),
			Confidence: v.Confidence,
		})
	}

	return warnings
}

func severityOrMedium(s Severity) Severity {
	if s == "" {
		return SeverityMedium
	}
	return s
}

// GenerateBrief turns the open items and health history into today's
// plan: score everything, sort by derived priority, then greedily fill
// the load budget. Family items are always admitted; high-energy items
// are always deferred under conservation mode. The split is greedy by
// priority, not budget-optimal, and that is deliberate.
func GenerateBrief(items []Item, snap *HealthSnapshot, history []HealthSnapshot, now time.Time, cfg Config) Brief {
	cfg = cfg.withDefaults()

	trend := AnalyzeTrend(history, cfg.TrendWindow)
	ctx := Context{Now: now, ConservationMode: trend.ConservationMode}

	scored := make([]Item, len(items))
	copy(scored, items)
	for i := range scored {
		scored[i].DerivedPriority = CalculatePriority(scored[i], ctx)
	}
	// Stable: equal scores keep encounter order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].DerivedPriority > scored[j].DerivedPriority
	})

	maxLoad := cfg.MaxLoad
	if ctx.ConservationMode {
		maxLoad = cfg.ConservationLoad
	}

	var doing, notDoing []Item
	currentLoad := 0
	for _, item := range scored {
		load := item.Load(cfg.DefaultItemLoad)

		// Family items always make the cut, budget or not.
		if item.IsFamily() {
			doing = append(doing, item)
			currentLoad += load
			continue
		}

		if ctx.ConservationMode && item.EnergyLevel == EnergyHigh {
			item.DeferReason = ReasonConservationMode
			notDoing = append(notDoing, item)
			continue
		}

		if currentLoad+load <= maxLoad {
			doing = append(doing, item)
			currentLoad += load
		} else {
			item.DeferReason = ReasonLoadLimit
			notDoing = append(notDoing, item)
		}
	}

	loadScore := clamp(int(math.Round(100*float64(currentLoad)/float64(maxLoad))), 0, 100)

	return Brief{
		DoingToday:         titles(doing),
		NotDoingToday:      titles(notDoing),
		DoingStructured:    doing,
		NotDoingStructured: notDoing,
		LoadScore:          loadScore,
		Warnings:           HealthWarnings(snap, history, cfg),
		ConservationMode:   ctx.ConservationMode,
		SleepTrend:         trend.Trend,
		GeneratedAt:        now,
	}
}

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}
