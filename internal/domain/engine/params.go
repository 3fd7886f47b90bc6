package engine

import "github.com/lunafield/cortex-api/internal/domain"

// Params defines all configurable parameters for the metrics engine.
// The defaults are the tuned production constants; the blend weights inside
// Reasoning Quality are tuning parameters with no derivation beyond the
// monotonicity and boundedness contracts, so they are surfaced here rather
// than buried in the calculators.
type Params struct {
	// Recovery decay and gain
	RecoveryHalfLifeHours float64
	RecoveryGainPerMinute float64 // Gain coefficient G
	WalkMinuteFactor      float64 // Walking minutes count at this fraction of detox minutes
	BaselineMin           float64
	BaselineMax           float64

	// Readiness-decay penalty schedule, driven by the low-recovery streak
	PenaltyTriggerDays int
	PenaltyInitial     float64
	PenaltyPerDay      float64
	PenaltyCap         float64

	// Sharpness blend
	SharpnessFastWeight float64 // Weight on S1; S2 gets the remainder
	SharpnessFloor      float64 // Recovery modulation floor (value at Recovery 0)

	// Readiness blend (no physiological input)
	ReadinessRecoveryWeight  float64
	ReadinessSlowWeight      float64
	ReadinessAttentionWeight float64
	// Weight carved out for a physiological sample when one is present;
	// the three base weights scale back proportionally.
	ReadinessPhysioWeight float64

	// Fraction of the gap between a training exercise score and the stored
	// skill value that a single completion closes.
	SkillLearningRate float64

	// Skill inactivity decay
	InactivityThresholdDays int
	DecayIntervalDays       int
	DecayBasePoints         float64
	DecayPointsPerInterval  float64
	DecayWindowDays         int
	DecayWindowCapPoints    float64

	// Reasoning Quality blend
	RQSkillWeight      float64
	RQRecentWeight     float64
	RQTaskWeight       float64
	RQRecencyDiscount  float64 // Per-step discount applied to older recent scores
	RQMaxRecentScores  int
	RQTaskWindowDays   int
	RQTasksPerWeek     float64 // Weighted completions that count as a full task score
	RQTaskKindWeights  map[domain.ActivityKind]float64
	RQInactivityDays   int
	RQInactivityFactor float64

	// Composite index
	SCIPerformanceWeight float64
	SCIEngagementWeight  float64
	SCIRecoveryWeight    float64
	SkillWeights         map[domain.SkillKind]float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	RecoveryHalfLifeHours float64
	RecoveryGainPerMinute float64
	WalkMinuteFactor      float64
	BaselineMin           float64
	BaselineMax           float64

	PenaltyTriggerDays int
	PenaltyInitial     float64
	PenaltyPerDay      float64
	PenaltyCap         float64

	InactivityThresholdDays int
	DecayIntervalDays       int
	DecayBasePoints         float64
	DecayPointsPerInterval  float64
	DecayWindowCapPoints    float64

	RQSkillWeight      float64
	RQRecentWeight     float64
	RQTaskWeight       float64
	RQRecencyDiscount  float64
	RQInactivityFactor float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		RecoveryHalfLifeHours: 72,
		RecoveryGainPerMinute: 0.12,
		WalkMinuteFactor:      0.5,
		BaselineMin:           35,
		BaselineMax:           55,

		PenaltyTriggerDays: 3,
		PenaltyInitial:     5,
		PenaltyPerDay:      2,
		PenaltyCap:         15,

		SharpnessFastWeight: 0.6,
		SharpnessFloor:      0.75,

		ReadinessRecoveryWeight:  0.35,
		ReadinessSlowWeight:      0.35,
		ReadinessAttentionWeight: 0.30,
		ReadinessPhysioWeight:    0.20,

		SkillLearningRate: 0.2,

		InactivityThresholdDays: 30,
		DecayIntervalDays:       15,
		DecayBasePoints:         3,
		DecayPointsPerInterval:  2,
		DecayWindowDays:         90,
		DecayWindowCapPoints:    10,

		RQSkillWeight:     0.45,
		RQRecentWeight:    0.35,
		RQTaskWeight:      0.20,
		RQRecencyDiscount: 0.85,
		RQMaxRecentScores: 10,
		RQTaskWindowDays:  7,
		RQTasksPerWeek:    5,
		RQTaskKindWeights: map[domain.ActivityKind]float64{
			domain.ActivityReading:   1.0,
			domain.ActivityListening: 0.75,
		},
		RQInactivityDays:   7,
		RQInactivityFactor: 0.9,

		SCIPerformanceWeight: 0.50,
		SCIEngagementWeight:  0.30,
		SCIRecoveryWeight:    0.20,
		SkillWeights: map[domain.SkillKind]float64{
			domain.SkillAttentionEfficiency: 0.25,
			domain.SkillReactionAgility:     0.25,
			domain.SkillCriticalThinking:    0.25,
			domain.SkillInsight:             0.25,
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.RecoveryHalfLifeHours > 0 {
		params.RecoveryHalfLifeHours = config.RecoveryHalfLifeHours
	}
	if config.RecoveryGainPerMinute > 0 {
		params.RecoveryGainPerMinute = config.RecoveryGainPerMinute
	}
	if config.WalkMinuteFactor > 0 {
		params.WalkMinuteFactor = config.WalkMinuteFactor
	}
	if config.BaselineMin > 0 {
		params.BaselineMin = config.BaselineMin
	}
	if config.BaselineMax > 0 {
		params.BaselineMax = config.BaselineMax
	}

	if config.PenaltyTriggerDays > 0 {
		params.PenaltyTriggerDays = config.PenaltyTriggerDays
	}
	if config.PenaltyInitial > 0 {
		params.PenaltyInitial = config.PenaltyInitial
	}
	if config.PenaltyPerDay > 0 {
		params.PenaltyPerDay = config.PenaltyPerDay
	}
	if config.PenaltyCap > 0 {
		params.PenaltyCap = config.PenaltyCap
	}

	if config.InactivityThresholdDays > 0 {
		params.InactivityThresholdDays = config.InactivityThresholdDays
	}
	if config.DecayIntervalDays > 0 {
		params.DecayIntervalDays = config.DecayIntervalDays
	}
	if config.DecayBasePoints > 0 {
		params.DecayBasePoints = config.DecayBasePoints
	}
	if config.DecayPointsPerInterval > 0 {
		params.DecayPointsPerInterval = config.DecayPointsPerInterval
	}
	if config.DecayWindowCapPoints > 0 {
		params.DecayWindowCapPoints = config.DecayWindowCapPoints
	}

	if config.RQSkillWeight > 0 {
		params.RQSkillWeight = config.RQSkillWeight
	}
	if config.RQRecentWeight > 0 {
		params.RQRecentWeight = config.RQRecentWeight
	}
	if config.RQTaskWeight > 0 {
		params.RQTaskWeight = config.RQTaskWeight
	}
	if config.RQRecencyDiscount > 0 {
		params.RQRecencyDiscount = config.RQRecencyDiscount
	}
	if config.RQInactivityFactor > 0 {
		params.RQInactivityFactor = config.RQInactivityFactor
	}

	return params
}
