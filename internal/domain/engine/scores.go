package engine

import (
	"github.com/lunafield/cortex-api/internal/domain"
)

// FastAggregate computes S1, the fast-system skill aggregate: the average of
// attention efficiency and reaction agility.
func FastAggregate(skills domain.SkillSet) float64 {
	return (skills.Value(domain.SkillAttentionEfficiency) +
		skills.Value(domain.SkillReactionAgility)) / 2
}

// SlowAggregate computes S2, the slow-system skill aggregate: the average of
// critical thinking and insight.
func SlowAggregate(skills domain.SkillSet) float64 {
	return (skills.Value(domain.SkillCriticalThinking) +
		skills.Value(domain.SkillInsight)) / 2
}

// Sharpness computes the fast-system clarity metric from the two skill
// aggregates, modulated by Recovery:
//
//	(w×S1 + (1−w)×S2) × (floor + (1−floor)×Recovery/100)
//
// With the default floor of 0.75 a fully depleted Recovery reduces Sharpness
// by a quarter; full Recovery leaves the skill blend untouched. Clamped to
// [0,100].
func Sharpness(s1, s2, recovery float64, params *Params) float64 {
	w := params.SharpnessFastWeight
	blend := w*s1 + (1-w)*s2
	modulation := params.SharpnessFloor + (1-params.SharpnessFloor)*recovery/100

	return clamp(blend*modulation, 0, 100)
}

// ReadinessPenalty computes the accrued readiness-decay penalty for a given
// consecutive-low-recovery-day streak. The penalty is a pure function of the
// streak length, so recomputing it within the same accounting period can
// never double-apply it:
//
//	streak < trigger           → 0
//	streak = trigger           → initial
//	each further day           → +perDay, capped at cap
func ReadinessPenalty(lowRecoveryStreakDays int, params *Params) float64 {
	if lowRecoveryStreakDays < params.PenaltyTriggerDays {
		return 0
	}

	extraDays := lowRecoveryStreakDays - params.PenaltyTriggerDays
	penalty := params.PenaltyInitial + params.PenaltyPerDay*float64(extraDays)
	if penalty > params.PenaltyCap {
		return params.PenaltyCap
	}

	return penalty
}

// Readiness computes the sustained-work capacity metric.
//
// Without a physiological sample:
//
//	wR×Recovery + wS×S2 + wA×AE − penalty
//
// When a sample is present its score takes ReadinessPhysioWeight and the
// three base weights scale back proportionally so the weights still sum
// to 1. Clamped to [0,100].
func Readiness(
	recovery, s2, attention float64,
	physio *domain.PhysioSample,
	penalty float64,
	params *Params,
) float64 {
	wR := params.ReadinessRecoveryWeight
	wS := params.ReadinessSlowWeight
	wA := params.ReadinessAttentionWeight

	var physioTerm float64
	if physio != nil {
		scale := 1 - params.ReadinessPhysioWeight
		wR *= scale
		wS *= scale
		wA *= scale
		physioTerm = params.ReadinessPhysioWeight * physio.Score()
	}

	value := wR*recovery + wS*s2 + wA*attention + physioTerm - penalty

	return clamp(value, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
