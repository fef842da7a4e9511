package engine

import "fmt"

// Trend summarizes sleep over the analysis window.
type Trend string

const (
	TrendUnknown      Trend = "unknown"
	TrendInsufficient Trend = "insufficient_data"
	TrendGood         Trend = "good"
	TrendDeclining    Trend = "declining"
	TrendConservation Trend = "conservation"
)

// TrendVerdict is the multi-night sleep assessment. ConservationMode
// is set only for the conservation trend.
type TrendVerdict struct {
	Trend            Trend  `json:"trend"`
	Confidence       int    `json:"confidence"`
	BadNights        int    `json:"bad_nights"`
	MissingNights    int    `json:"missing_nights"`
	ValidNights      int    `json:"valid_nights"`
	ConservationMode bool   `json:"conservation_mode"`
	Message          string `json:"message,omitempty"`
}

// AnalyzeTrend classifies each of the most recent window snapshots
// (most recent first) and derives the trend. Nights with missing data
// do not count toward the verdict: the trend is only ever declared
// from real signal, never guessed from absence.
func AnalyzeTrend(history []HealthSnapshot, window int) TrendVerdict {
	if window <= 0 {
		window = DefaultConfig().TrendWindow
	}
	if len(history) == 0 {
		return TrendVerdict{Trend: TrendUnknown, Message: "no sleep history"}
	}

	recent := history
	if len(recent) > window {
		recent = recent[:window]
	}

	var bad, missing, valid int
	for i := range recent {
		v := ClassifySleep(&recent[i])
		switch v.State {
		case ConfidenceMissing:
			missing++
		case ConfidenceNegative:
			bad++
			valid++
		default:
			valid++
		}
	}

	if valid < 3 {
		return TrendVerdict{
			Trend:         TrendInsufficient,
			Confidence:    30,
			BadNights:     bad,
			MissingNights: missing,
			ValidNights:   valid,
			Message:       "not enough valid nights to judge a trend",
		}
	}

	switch {
	case bad >= 3:
		return TrendVerdict{
			Trend:            TrendConservation,
			Confidence:       85,
			BadNights:        bad,
			MissingNights:    missing,
			ValidNights:      valid,
			ConservationMode: true,
			Message:          fmt.Sprintf("%d rough nights out of %d, conservation mode on", bad, valid),
		}
	case bad >= 2:
		return TrendVerdict{
			Trend:         TrendDeclining,
			Confidence:    75,
			BadNights:     bad,
			MissingNights: missing,
			ValidNights:   valid,
			Message:       "sleep trending down",
		}
	default:
		return TrendVerdict{
			Trend:         TrendGood,
			Confidence:    90,
			BadNights:     bad,
			MissingNights: missing,
			ValidNights:   valid,
		}
	}
}
