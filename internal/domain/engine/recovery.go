package engine

import (
	"math"
	"time"
)

// Decay applies continuous exponential decay to a Recovery value.
//
// The value halves every RecoveryHalfLifeHours of elapsed time:
//
//	newValue = currentValue × 2^(−Δhours / H)
//
// No decay is applied when now is not after lastUpdate (clock skew between
// devices can make Δ negative); the result is floored at 0.
func Decay(currentValue float64, lastUpdate, now time.Time, params *Params) float64 {
	deltaHours := now.Sub(lastUpdate).Hours()
	if deltaHours <= 0 {
		return currentValue
	}

	decayed := currentValue * math.Pow(2, -deltaHours/params.RecoveryHalfLifeHours)
	if decayed < 0 {
		return 0
	}

	return decayed
}

// ApplyGain decays the Recovery value to the reference timestamp and then
// adds the gain from restorative activity:
//
//	newValue = min(100, decayed + G × (detoxMinutes + walkFactor × walkMinutes))
//
// Decay always runs before the gain is added, using the same reference
// timestamp. Returns the new value and the new reference timestamp; the
// caller persists both.
func ApplyGain(
	currentValue float64,
	lastUpdate, now time.Time,
	detoxMinutes, walkMinutes float64,
	params *Params,
) (float64, time.Time) {
	decayed := Decay(currentValue, lastUpdate, now, params)

	effectiveMinutes := detoxMinutes + params.WalkMinuteFactor*walkMinutes
	if effectiveMinutes < 0 {
		effectiveMinutes = 0
	}

	gained := decayed + params.RecoveryGainPerMinute*effectiveMinutes
	if gained > 100 {
		gained = 100
	}

	return gained, now
}

// OnboardingSignals are the self-reported inputs that seed a first-time
// Recovery baseline. Each is a 1–5 rating from the onboarding questionnaire.
type OnboardingSignals struct {
	SleepQuality     int // 1 poor … 5 excellent
	ScreenDiscipline int // 1 always on … 5 regular detox habit
	MentalState      int // 1 exhausted … 5 sharp
}

// Baseline derives a first-time Recovery value from onboarding signals via
// an additive scoring rule, clamped to the configured [BaselineMin,
// BaselineMax] band. Out-of-range ratings are clamped to 1–5 before scoring.
func Baseline(signals OnboardingSignals, params *Params) float64 {
	sleep := clampRating(signals.SleepQuality)
	discipline := clampRating(signals.ScreenDiscipline)
	mental := clampRating(signals.MentalState)

	// 25 + 2×each rating spans 31–55 before clamping into the band.
	value := 25 + 2*float64(sleep+discipline+mental)

	if value < params.BaselineMin {
		return params.BaselineMin
	}
	if value > params.BaselineMax {
		return params.BaselineMax
	}

	return value
}

func clampRating(r int) int {
	if r < 1 {
		return 1
	}
	if r > 5 {
		return 5
	}
	return r
}
