package engine

import "fmt"

// ConfidenceState classifies a raw health metric. Missing data is a
// distinct state from a negative signal: a sensor that was not worn is
// not evidence of poor health.
type ConfidenceState string

const (
	ConfidenceMissing  ConfidenceState = "missing_data"
	ConfidenceLow      ConfidenceState = "low_confidence"
	ConfidenceNegative ConfidenceState = "negative_signal"
	ConfidenceHigh     ConfidenceState = "high"
)

// Severity grades a negative signal.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Verdict is the confidence-tagged classification of one metric.
// Only a negative signal with high enough confidence may surface a
// user-visible warning.
type Verdict struct {
	State       ConfidenceState `json:"state"`
	Confidence  int             `json:"confidence"`
	Message     string          `json:"message,omitempty"`
	ShowWarning bool            `json:"show_warning"`
	Severity    Severity        `json:"severity,omitempty"`
}

// Sanity bounds for raw readings.
const (
	sleepMinHours   = 1.0 // below this the device likely was not worn
	sleepMaxHours   = 14.0
	stepsMinForWorn = 100
	batteryMin      = 1
	batteryMax      = 100
)

// ClassifySleep turns one night's sleep reading into a Verdict.
// A short reading is never treated as bad sleep.
func ClassifySleep(snap *HealthSnapshot) Verdict {
	if snap == nil {
		return Verdict{State: ConfidenceMissing, Confidence: 0, Message: "no sleep data"}
	}

	if snap.SleepHours == nil {
		worn := (snap.Steps != nil && *snap.Steps > stepsMinForWorn) || snap.BodyBattery != nil
		if !worn {
			return Verdict{State: ConfidenceMissing, Confidence: 0, Message: "no sleep recorded, device likely not worn"}
		}
		return Verdict{State: ConfidenceLow, Confidence: 30, Message: "partial sleep data"}
	}

	hours := *snap.SleepHours

	if hours < sleepMinHours {
		return Verdict{State: ConfidenceMissing, Confidence: 10, Message: "sleep reading too short, device likely not worn"}
	}
	if hours > sleepMaxHours {
		return Verdict{State: ConfidenceLow, Confidence: 20, Message: "implausible sleep reading, check sync"}
	}

	if hours < 5 {
		sev := SeverityMedium
		if hours < 4 {
			sev = SeverityHigh
		}
		return Verdict{
			State:       ConfidenceNegative,
			Confidence:  90,
			Message:     fmt.Sprintf("%.1fh of sleep, short night", hours),
			ShowWarning: true,
			Severity:    sev,
		}
	}
	if hours < 6 {
		return Verdict{
			State:       ConfidenceNegative,
			Confidence:  85,
			Message:     fmt.Sprintf("%.1fh of sleep, below recommended", hours),
			ShowWarning: true,
			Severity:    SeverityLow,
		}
	}

	return Verdict{State: ConfidenceHigh, Confidence: 95}
}

// ClassifyBodyBattery mirrors ClassifySleep for the body battery
// metric, with sanity bounds [1,100].
func ClassifyBodyBattery(snap *HealthSnapshot) Verdict {
	if snap == nil || snap.BodyBattery == nil {
		return Verdict{State: ConfidenceMissing, Confidence: 0}
	}

	battery := *snap.BodyBattery

	if battery < batteryMin || battery > batteryMax {
		return Verdict{State: ConfidenceLow, Confidence: 20, Message: "body battery out of range, check sync"}
	}
	if battery < 25 {
		return Verdict{
			State:       ConfidenceNegative,
			Confidence:  90,
			Message:     fmt.Sprintf("body battery %d, very low energy", battery),
			ShowWarning: true,
			Severity:    SeverityHigh,
		}
	}
	if battery < 50 {
		return Verdict{
			State:       ConfidenceNegative,
			Confidence:  85,
			Message:     fmt.Sprintf("body battery %d, low energy", battery),
			ShowWarning: true,
			Severity:    SeverityLow,
		}
	}

	return Verdict{State: ConfidenceHigh, Confidence: 95}
}
