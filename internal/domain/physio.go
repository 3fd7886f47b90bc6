package domain

import "time"

// PhysioSample is an optional physiological reading from a wearable bridge.
// Absence of a sample must degrade gracefully: the Readiness calculation
// redistributes its weights rather than failing.
type PhysioSample struct {
	HRV             float64   `json:"hrv"`              // ms, rMSSD
	RestingHR       float64   `json:"resting_hr"`       // bpm
	SleepHours      float64   `json:"sleep_hours"`      // last night's duration
	SleepEfficiency float64   `json:"sleep_efficiency"` // [0,1]
	SampledAt       time.Time `json:"sampled_at"`
}

// Score condenses the sample into a [0,100] readiness contribution.
// HRV and sleep pull the score up, an elevated resting heart rate pulls it
// down. The reference points (HRV 60ms, resting HR 60bpm, 8h sleep) are the
// population midpoints the client's wearable vendors document.
func (p *PhysioSample) Score() float64 {
	hrvComponent := clamp100(p.HRV / 60.0 * 50.0)
	sleepComponent := clamp100(p.SleepHours / 8.0 * 50.0 * safeEfficiency(p.SleepEfficiency))

	score := hrvComponent + sleepComponent
	if p.RestingHR > 60 {
		score -= (p.RestingHR - 60) * 0.5
	}

	return clamp100(score)
}

func safeEfficiency(eff float64) float64 {
	if eff <= 0 || eff > 1 {
		return 1
	}
	return eff
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
