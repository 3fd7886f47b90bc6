package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for RecoveryState.
var (
	ErrEmptyRecoveryUserID = errors.New("recovery state user ID cannot be empty")
	ErrRecoveryValueRange  = errors.New("recovery value must be within [0,100]")
)

// RecoveryState is the persisted restorative-capacity metric for a user.
// The value decays continuously over time and is replenished by detox and
// walking activity. HasBaseline is false until onboarding derives the first
// baseline; until then the value is meaningless and snapshot writers must
// skip rather than commit it.
//
// Invariant: decay is always applied before any gain is added, using the
// same reference timestamp. The engine package owns that sequencing; this
// type only carries the state.
type RecoveryState struct {
	UserID       uuid.UUID `json:"user_id"`
	Value        float64   `json:"value"`
	HasBaseline  bool      `json:"has_baseline"`
	LastUpdateAt time.Time `json:"last_update_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRecoveryState creates a recovery state seeded with the onboarding
// baseline value.
func NewRecoveryState(userID uuid.UUID, baseline float64, now time.Time) (*RecoveryState, error) {
	state := &RecoveryState{
		UserID:       userID,
		Value:        baseline,
		HasBaseline:  true,
		LastUpdateAt: now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the RecoveryState has valid data.
func (s *RecoveryState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyRecoveryUserID
	}

	if s.Value < 0 || s.Value > 100 {
		return ErrRecoveryValueRange
	}

	return nil
}
