package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LowRecoveryThreshold is the Recovery value below which a day counts toward
// the low-recovery streak.
const LowRecoveryThreshold = 40.0

// Common validation errors for DailySnapshot.
var (
	ErrEmptySnapshotUserID = errors.New("daily snapshot user ID cannot be empty")
	ErrEmptySnapshotDate   = errors.New("daily snapshot date cannot be empty")
	ErrNegativeStreak      = errors.New("low recovery streak cannot be negative")
)

// DailySnapshot is the one committed record of Recovery value and
// low-recovery streak length per user per local calendar day.
//
// RecoveryValue is nil while the snapshot is a placeholder (the day rolled
// over before a real Recovery value was known). A placeholder may receive one
// correction write once a real value is available; a committed non-placeholder
// snapshot is never rewritten.
type DailySnapshot struct {
	UserID            uuid.UUID `json:"user_id"`
	Date              LocalDate `json:"date"`
	RecoveryValue     *float64  `json:"recovery_value"`
	LowRecoveryStreak int       `json:"low_recovery_streak"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewDailySnapshot creates a snapshot for the given day.
// Pass a nil value to create a placeholder.
func NewDailySnapshot(
	userID uuid.UUID,
	date LocalDate,
	value *float64,
	streak int,
) (*DailySnapshot, error) {
	now := time.Now().UTC()
	snapshot := &DailySnapshot{
		UserID:            userID,
		Date:              date,
		RecoveryValue:     value,
		LowRecoveryStreak: streak,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Validate checks if the DailySnapshot has valid data.
func (s *DailySnapshot) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySnapshotUserID
	}

	if s.Date.IsZero() {
		return ErrEmptySnapshotDate
	}

	if s.LowRecoveryStreak < 0 {
		return ErrNegativeStreak
	}

	if s.RecoveryValue != nil && (*s.RecoveryValue < 0 || *s.RecoveryValue > 100) {
		return ErrValueOutOfRange
	}

	return nil
}

// IsPlaceholder reports whether the snapshot was committed without a real
// Recovery value and is still eligible for a correction write.
func (s *DailySnapshot) IsPlaceholder() bool {
	return s.RecoveryValue == nil
}

// IsLowRecovery reports whether the snapshot's value counts toward the
// low-recovery streak. A placeholder never does.
func (s *DailySnapshot) IsLowRecovery() bool {
	return s.RecoveryValue != nil && *s.RecoveryValue < LowRecoveryThreshold
}
