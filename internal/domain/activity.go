package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityKind classifies a behavioral activity entry.
type ActivityKind string

// Known activity kinds. Training entries carry XP; detox and walking entries
// carry restorative minutes; reading and listening entries are the
// "slow-system" content tasks consumed by the Reasoning Quality calculator.
const (
	ActivityTraining  ActivityKind = "training"
	ActivityDetox     ActivityKind = "detox"
	ActivityWalking   ActivityKind = "walking"
	ActivityReading   ActivityKind = "reading"
	ActivityListening ActivityKind = "listening"
)

// Valid reports whether the activity kind is known.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityTraining, ActivityDetox, ActivityWalking, ActivityReading, ActivityListening:
		return true
	default:
		return false
	}
}

// Common validation errors for ActivityEntry.
var (
	ErrEmptyActivityID     = errors.New("activity entry ID cannot be empty")
	ErrEmptyActivityUserID = errors.New("activity entry user ID cannot be empty")
	ErrNegativeMinutes     = errors.New("activity minutes cannot be negative")
	ErrNegativeXP          = errors.New("activity XP cannot be negative")
	ErrScoreRange          = errors.New("activity score must be within [0,100]")
	ErrMissingSkill        = errors.New("training activity must name a skill")
)

// ActivityEntry is one recorded behavioral activity. Entries are the raw
// source for the weekly aggregates behind the composite index and the
// recovery gain calculation.
type ActivityEntry struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Kind       ActivityKind    `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Minutes    float64         `json:"minutes"`
	XP         int             `json:"xp"`
	Skill      SkillKind       `json:"skill,omitempty"`
	Score      float64         `json:"score,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

// NewActivityEntry creates an activity entry with a fresh ID.
func NewActivityEntry(
	userID uuid.UUID,
	kind ActivityKind,
	occurredAt time.Time,
	minutes float64,
	xp int,
) (*ActivityEntry, error) {
	entry := &ActivityEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       kind,
		OccurredAt: occurredAt,
		Minutes:    minutes,
		XP:         xp,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// NewTrainingEntry creates a training activity entry with a fresh ID. The
// skill names the exercised capability and score is the normalized session
// result the skill update and Reasoning Quality window consume.
func NewTrainingEntry(
	userID uuid.UUID,
	skill SkillKind,
	occurredAt time.Time,
	xp int,
	score float64,
) (*ActivityEntry, error) {
	entry := &ActivityEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       ActivityTraining,
		OccurredAt: occurredAt,
		XP:         xp,
		Skill:      skill,
		Score:      score,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ActivityEntry has valid data.
func (e *ActivityEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyActivityID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyActivityUserID
	}

	if !e.Kind.Valid() {
		return ErrInvalidActivityKind
	}

	if e.Minutes < 0 {
		return ErrNegativeMinutes
	}

	if e.XP < 0 {
		return ErrNegativeXP
	}

	if e.Kind == ActivityTraining {
		if !e.Skill.Valid() {
			return ErrMissingSkill
		}
		if e.Score < 0 || e.Score > 100 {
			return ErrScoreRange
		}
	}

	return nil
}

// WeeklyActivity aggregates the trailing 7-day behavioral totals for a user.
// Produced by the activity store, consumed by the composite index.
type WeeklyActivity struct {
	TrainingXP   int     `json:"training_xp"`
	DetoxMinutes float64 `json:"detox_minutes"`
	WalkMinutes  float64 `json:"walk_minutes"`
}

// TaskCompletion is one reading or listening completion inside the Reasoning
// Quality trailing window.
type TaskCompletion struct {
	Kind        ActivityKind `json:"kind"`
	CompletedAt time.Time    `json:"completed_at"`
}
