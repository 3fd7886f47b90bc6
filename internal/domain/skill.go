package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SkillKind identifies one of the four trained cognitive skills.
type SkillKind string

// The four skills. AE and RA form the fast-system aggregate (S1),
// CT and IN form the slow-system aggregate (S2).
const (
	SkillAttentionEfficiency SkillKind = "attention_efficiency"
	SkillReactionAgility     SkillKind = "reaction_agility"
	SkillCriticalThinking    SkillKind = "critical_thinking"
	SkillInsight             SkillKind = "insight"
)

// AllSkillKinds lists the known skills in a fixed order. Iteration over a
// SkillSet should go through this slice, not a map, so output is stable.
var AllSkillKinds = []SkillKind{
	SkillAttentionEfficiency,
	SkillReactionAgility,
	SkillCriticalThinking,
	SkillInsight,
}

// skillLabels maps each skill to the display label used by the client and in
// event payloads. This is the one sanctioned translation table between skill
// identifiers and human-readable names; free-form string keys are not used
// anywhere else.
var skillLabels = map[SkillKind]string{
	SkillAttentionEfficiency: "Attention Efficiency",
	SkillReactionAgility:     "Reaction Agility",
	SkillCriticalThinking:    "Critical Thinking",
	SkillInsight:             "Insight",
}

// Label returns the display label for the skill, or the raw identifier if
// the skill is unknown.
func (k SkillKind) Label() string {
	if label, ok := skillLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether the skill kind is one of the four known skills.
func (k SkillKind) Valid() bool {
	switch k {
	case SkillAttentionEfficiency, SkillReactionAgility, SkillCriticalThinking, SkillInsight:
		return true
	default:
		return false
	}
}

// NeutralSkillValue is the defined default for a skill that has never been
// trained. Missing skill inputs are treated as "not yet initialized", not as
// errors.
const NeutralSkillValue = 50.0

// Common validation errors for SkillState.
var (
	ErrEmptySkillUserID = errors.New("skill state user ID cannot be empty")
	ErrSkillValueRange  = errors.New("skill value must be within [0,100]")
)

// SkillState is the persisted value of a single skill for a user, together
// with the timestamp of the last completed training exercise for it. Values
// are mutated only by completed exercises and by inactivity decay; they never
// leave [0,100].
type SkillState struct {
	UserID         uuid.UUID `json:"user_id"`
	Kind           SkillKind `json:"kind"`
	Value          float64   `json:"value"`
	LastActivityAt time.Time `json:"last_activity_at"` // Zero if the skill has never been trained
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSkillState creates a skill state at the neutral default with no recorded
// activity.
func NewSkillState(userID uuid.UUID, kind SkillKind) (*SkillState, error) {
	now := time.Now().UTC()
	state := &SkillState{
		UserID:    userID,
		Kind:      kind,
		Value:     NeutralSkillValue,
		UpdatedAt: now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SkillState has valid data.
func (s *SkillState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySkillUserID
	}

	if !s.Kind.Valid() {
		return ErrInvalidSkillKind
	}

	if s.Value < 0 || s.Value > 100 {
		return ErrSkillValueRange
	}

	return nil
}

// SkillSet is the full four-skill picture for a user, keyed by kind. A nil
// entry means the skill has never been initialized; Value falls back to the
// neutral default for it.
type SkillSet map[SkillKind]*SkillState

// Value returns the stored value for the skill, or NeutralSkillValue if it
// has never been initialized.
func (set SkillSet) Value(kind SkillKind) float64 {
	if state, ok := set[kind]; ok && state != nil {
		return state.Value
	}
	return NeutralSkillValue
}

// LastActivityAt returns the last training timestamp for the skill, or the
// zero time if it has never been trained.
func (set SkillSet) LastActivityAt(kind SkillKind) time.Time {
	if state, ok := set[kind]; ok && state != nil {
		return state.LastActivityAt
	}
	return time.Time{}
}
