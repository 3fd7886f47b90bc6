package engine

import "time"

// InactivityDecay computes the decay points accrued by a skill that has been
// idle since lastActivity, as of now.
//
// The schedule: nothing inside the inactivity threshold (30 days by
// default); a base amount once the threshold passes; a further fixed
// decrement for every additional completed interval (15 days) of continued
// inactivity. Total decay inside any rolling 90-day window is capped, so the
// cap scales with the number of elapsed windows past the threshold.
//
// The result is a pure function of time-since-last-activity — not an
// accumulator — so re-evaluating it for the same elapsed interval is
// idempotent by construction. A zero lastActivity (skill never trained)
// accrues no decay: decay punishes abandonment, not absence of a start.
func InactivityDecay(lastActivity, now time.Time, params *Params) float64 {
	if lastActivity.IsZero() {
		return 0
	}

	idleDays := int(now.Sub(lastActivity).Hours() / 24)
	if idleDays < params.InactivityThresholdDays {
		return 0
	}

	daysPastThreshold := idleDays - params.InactivityThresholdDays
	intervals := daysPastThreshold / params.DecayIntervalDays
	nominal := params.DecayBasePoints + params.DecayPointsPerInterval*float64(intervals)

	// A new cap window opens only after a full window has completed, so day
	// DecayWindowDays past the threshold still sits inside the first window.
	elapsedWindows := 1 + (daysPastThreshold-1)/params.DecayWindowDays
	capTotal := params.DecayWindowCapPoints * float64(elapsedWindows)
	if nominal > capTotal {
		return capTotal
	}

	return nominal
}

// ApplyInactivityDecay returns the skill value after inactivity decay,
// floored at 0. The stored skill value is not mutated; callers persist the
// result together with the unchanged last-activity timestamp.
func ApplyInactivityDecay(value float64, lastActivity, now time.Time, params *Params) float64 {
	decayed := value - InactivityDecay(lastActivity, now, params)
	if decayed < 0 {
		return 0
	}
	return decayed
}
