package engine

import (
	"github.com/lunafield/cortex-api/internal/domain"
)

// SCILevel buckets the headline composite score.
type SCILevel string

// Level buckets, highest first.
const (
	SCILevelElite      SCILevel = "elite"
	SCILevelHigh       SCILevel = "high"
	SCILevelModerate   SCILevel = "moderate"
	SCILevelDeveloping SCILevel = "developing"
	SCILevelEarly      SCILevel = "early"
)

// SCIComponent names one of the three composite sub-components. The order of
// the constants is the fixed bottleneck tie-break priority.
type SCIComponent string

const (
	SCIPerformance SCIComponent = "performance"
	SCIEngagement  SCIComponent = "engagement"
	SCIRecovery    SCIComponent = "recovery"
)

// sciBottleneckPriority is the tie-break order: performance beats engagement
// beats recovery when component scores are equal.
var sciBottleneckPriority = []SCIComponent{SCIPerformance, SCIEngagement, SCIRecovery}

// SCIInputs carries everything the composite index reads: the four skill
// values, the trailing-week behavioral totals, and the plan's weekly
// targets.
type SCIInputs struct {
	Skills domain.SkillSet
	Weekly domain.WeeklyActivity

	WeeklyTargetXP              int
	WeeklyTargetRecoveryMinutes float64
}

// SCIResult is the computed Synthesized Cognitive Index. It is derived on
// demand and never persisted as a source of truth.
type SCIResult struct {
	Total       float64      `json:"total"`
	Performance float64      `json:"performance"`
	Engagement  float64      `json:"engagement"`
	Recovery    float64      `json:"recovery"`
	Level       SCILevel     `json:"level"`
	Bottleneck  SCIComponent `json:"bottleneck"`
}

// CalculateSCI rolls the performance, engagement, and recovery components
// into the weighted headline score and identifies the bottleneck component.
//
//	performance = weighted average of the four skills
//	engagement  = min(100, 100 × weeklyXP / targetXP)
//	recovery    = min(100, 100 × (detoxMin + walkFactor×walkMin) / targetMin)
//
// The bottleneck is the component with the lowest score relative to its own
// target (all three are already normalized to 100); ties break by the fixed
// priority performance > engagement > recovery. It is advisory output only.
func CalculateSCI(inputs SCIInputs, params *Params) SCIResult {
	performance := performanceComponent(inputs.Skills, params)
	engagement := ratioComponent(float64(inputs.Weekly.TrainingXP), float64(inputs.WeeklyTargetXP))

	recoveryMinutes := inputs.Weekly.DetoxMinutes + params.WalkMinuteFactor*inputs.Weekly.WalkMinutes
	recovery := ratioComponent(recoveryMinutes, inputs.WeeklyTargetRecoveryMinutes)

	total := params.SCIPerformanceWeight*performance +
		params.SCIEngagementWeight*engagement +
		params.SCIRecoveryWeight*recovery

	result := SCIResult{
		Total:       clamp(total, 0, 100),
		Performance: performance,
		Engagement:  engagement,
		Recovery:    recovery,
	}
	result.Level = sciLevel(result.Total)
	result.Bottleneck = bottleneck(result)

	return result
}

func performanceComponent(skills domain.SkillSet, params *Params) float64 {
	var sum, weightSum float64
	for _, kind := range domain.AllSkillKinds {
		weight := params.SkillWeights[kind]
		sum += weight * skills.Value(kind)
		weightSum += weight
	}

	if weightSum == 0 {
		return 0
	}

	return clamp(sum/weightSum, 0, 100)
}

func ratioComponent(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return clamp(100*actual/target, 0, 100)
}

func sciLevel(total float64) SCILevel {
	switch {
	case total >= 85:
		return SCILevelElite
	case total >= 70:
		return SCILevelHigh
	case total >= 55:
		return SCILevelModerate
	case total >= 40:
		return SCILevelDeveloping
	default:
		return SCILevelEarly
	}
}

func bottleneck(result SCIResult) SCIComponent {
	scores := map[SCIComponent]float64{
		SCIPerformance: result.Performance,
		SCIEngagement:  result.Engagement,
		SCIRecovery:    result.Recovery,
	}

	lowest := sciBottleneckPriority[0]
	for _, component := range sciBottleneckPriority[1:] {
		// Strict less-than keeps the priority order on ties.
		if scores[component] < scores[lowest] {
			lowest = component
		}
	}

	return lowest
}
