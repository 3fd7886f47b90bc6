package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// Common errors
var (
	ErrNilRecoveryState = errors.New("recovery state cannot be nil")
	ErrNilSkillState    = errors.New("skill state cannot be nil")
	ErrScoreOutOfRange  = errors.New("exercise score must be within [0,100]")
)

// ComputeInputs is the full raw-input picture one metrics computation pass
// reads. Skills and Recovery may be sparse or nil; missing pieces fall back
// to the defined neutral defaults rather than failing.
type ComputeInputs struct {
	Skills    domain.SkillSet
	Recovery  *domain.RecoveryState
	Physio    *domain.PhysioSample
	Reasoning ReasoningInputs

	// LowRecoveryStreak is the consecutive-low-recovery-day count from the
	// latest committed snapshot; it drives the readiness-decay penalty.
	LowRecoveryStreak int
}

// MetricSet is the output of one computation pass: the four derived metrics
// plus the intermediate aggregates the persistence layer and the event
// recorder capture.
type MetricSet struct {
	Recovery    float64
	HasRecovery bool // False until an onboarding baseline exists

	Sharpness float64
	Readiness float64
	Reasoning float64

	S1      float64
	S2      float64
	Skills  map[domain.SkillKind]float64 // Post-decay skill values
	Penalty float64

	ComputedAt time.Time
}

// Capture condenses the set into a best-effort event capture. The recovery
// slot stays nil until a baseline exists.
func (m *MetricSet) Capture() domain.MetricCapture {
	capture := domain.MetricCapture{
		Sharpness: &m.Sharpness,
		Readiness: &m.Readiness,
		Reasoning: &m.Reasoning,
	}
	if m.HasRecovery {
		capture.Recovery = &m.Recovery
	}
	return capture
}

// Service defines the interface for metrics engine operations. All methods
// are pure with respect to persisted state: they read inputs and return new
// values; callers persist the results.
type Service interface {
	// ComputeMetrics runs one full computation pass over the raw inputs.
	ComputeMetrics(inputs ComputeInputs, now time.Time) (*MetricSet, error)

	// CompositeIndex computes the Synthesized Cognitive Index on demand.
	CompositeIndex(inputs SCIInputs) SCIResult

	// BaselineRecovery derives the first-time recovery state from
	// onboarding signals.
	BaselineRecovery(userID uuid.UUID, signals OnboardingSignals, now time.Time) (*domain.RecoveryState, error)

	// RecoveryAfterGain decays the state to now, then adds the gain from a
	// restorative session, returning a new state.
	RecoveryAfterGain(
		state *domain.RecoveryState,
		detoxMinutes, walkMinutes float64,
		now time.Time,
	) (*domain.RecoveryState, error)

	// SkillAfterTraining folds a completed exercise score into a skill
	// state, returning a new state with a refreshed activity timestamp.
	SkillAfterTraining(state *domain.SkillState, score float64, now time.Time) (*domain.SkillState, error)

	// PlanSnapshot runs the daily snapshot transition state machine.
	PlanSnapshot(input SnapshotPlanInput) SnapshotPlan
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates an engine service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates an engine service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// ComputeMetrics implements Service.ComputeMetrics.
//
// Order matters: skill inactivity decay and recovery decay run first so
// every downstream score reads decayed values, and the readiness penalty is
// derived from the streak before Readiness consumes it.
func (s *defaultService) ComputeMetrics(inputs ComputeInputs, now time.Time) (*MetricSet, error) {
	decayedSkills := make(domain.SkillSet, len(domain.AllSkillKinds))
	skillValues := make(map[domain.SkillKind]float64, len(domain.AllSkillKinds))
	for _, kind := range domain.AllSkillKinds {
		value := inputs.Skills.Value(kind)
		lastActivity := inputs.Skills.LastActivityAt(kind)
		decayed := ApplyInactivityDecay(value, lastActivity, now, s.params)

		skillValues[kind] = decayed
		decayedSkills[kind] = &domain.SkillState{
			Kind:           kind,
			Value:          decayed,
			LastActivityAt: lastActivity,
		}
	}

	var recovery float64
	hasRecovery := false
	if inputs.Recovery != nil && inputs.Recovery.HasBaseline {
		recovery = Decay(inputs.Recovery.Value, inputs.Recovery.LastUpdateAt, now, s.params)
		hasRecovery = true
	} else {
		// Not yet initialized: score the rest of the set against the
		// neutral default, but report the absence so snapshot writers skip.
		recovery = domain.NeutralSkillValue
	}

	s1 := FastAggregate(decayedSkills)
	s2 := SlowAggregate(decayedSkills)
	penalty := ReadinessPenalty(inputs.LowRecoveryStreak, s.params)

	reasoningInputs := inputs.Reasoning
	reasoningInputs.SlowAggregate = s2

	set := &MetricSet{
		Recovery:    recovery,
		HasRecovery: hasRecovery,
		Sharpness:   Sharpness(s1, s2, recovery, s.params),
		Readiness: Readiness(
			recovery,
			s2,
			skillValues[domain.SkillAttentionEfficiency],
			inputs.Physio,
			penalty,
			s.params,
		),
		Reasoning:  ReasoningQuality(reasoningInputs, now, s.params),
		S1:         s1,
		S2:         s2,
		Skills:     skillValues,
		Penalty:    penalty,
		ComputedAt: now,
	}

	return set, nil
}

// CompositeIndex implements Service.CompositeIndex.
func (s *defaultService) CompositeIndex(inputs SCIInputs) SCIResult {
	return CalculateSCI(inputs, s.params)
}

// BaselineRecovery implements Service.BaselineRecovery.
func (s *defaultService) BaselineRecovery(
	userID uuid.UUID,
	signals OnboardingSignals,
	now time.Time,
) (*domain.RecoveryState, error) {
	return domain.NewRecoveryState(userID, Baseline(signals, s.params), now)
}

// RecoveryAfterGain implements Service.RecoveryAfterGain.
func (s *defaultService) RecoveryAfterGain(
	state *domain.RecoveryState,
	detoxMinutes, walkMinutes float64,
	now time.Time,
) (*domain.RecoveryState, error) {
	if state == nil {
		return nil, ErrNilRecoveryState
	}

	value, timestamp := ApplyGain(
		state.Value,
		state.LastUpdateAt,
		now,
		detoxMinutes,
		walkMinutes,
		s.params,
	)

	return &domain.RecoveryState{
		UserID:       state.UserID,
		Value:        value,
		HasBaseline:  state.HasBaseline,
		LastUpdateAt: timestamp,
		UpdatedAt:    now,
	}, nil
}

// SkillAfterTraining implements Service.SkillAfterTraining.
// The stored value moves toward the exercise score by the configured
// learning rate, so a single outlier session shifts the skill but does not
// overwrite it.
func (s *defaultService) SkillAfterTraining(
	state *domain.SkillState,
	score float64,
	now time.Time,
) (*domain.SkillState, error) {
	if state == nil {
		return nil, ErrNilSkillState
	}

	if score < 0 || score > 100 {
		return nil, ErrScoreOutOfRange
	}

	// Inactivity decay settles before the new result lands.
	value := ApplyInactivityDecay(state.Value, state.LastActivityAt, now, s.params)
	value = clamp(value+s.params.SkillLearningRate*(score-value), 0, 100)

	return &domain.SkillState{
		UserID:         state.UserID,
		Kind:           state.Kind,
		Value:          value,
		LastActivityAt: now,
		UpdatedAt:      now,
	}, nil
}

// PlanSnapshot implements Service.PlanSnapshot.
func (s *defaultService) PlanSnapshot(input SnapshotPlanInput) SnapshotPlan {
	return PlanSnapshot(input)
}
