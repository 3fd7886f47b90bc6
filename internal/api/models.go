package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// OnboardingRequest carries the questionnaire answers that seed the
// Recovery baseline, plus the client's timezone and chosen training plan.
type OnboardingRequest struct {
	SleepQuality     int    `json:"sleep_quality"     validate:"required,min=1,max=5"`
	ScreenDiscipline int    `json:"screen_discipline" validate:"required,min=1,max=5"`
	MentalState      int    `json:"mental_state"      validate:"required,min=1,max=5"`
	Timezone         string `json:"timezone"          validate:"required"`
	Plan             string `json:"plan"              validate:"required,oneof=starter standard intensive"`
}

// OnboardingResponse returns the seeded baseline.
type OnboardingResponse struct {
	Baseline float64 `json:"baseline"`
}

// TrainingRequest records one completed training exercise.
type TrainingRequest struct {
	Skill      string  `json:"skill"       validate:"required"`
	Score      float64 `json:"score"       validate:"min=0,max=100"`
	XP         int     `json:"xp"          validate:"min=0"`
	OccurredAt string  `json:"occurred_at,omitempty"` // RFC 3339; defaults to server time
}

// TrainingResponse returns the skill state after the exercise was folded in.
type TrainingResponse struct {
	Skill          string  `json:"skill"`
	Value          float64 `json:"value"`
	LastActivityAt string  `json:"last_activity_at"`
}

// RestorativeRequest records one detox or walking session.
type RestorativeRequest struct {
	Kind       string  `json:"kind"        validate:"required,oneof=detox walking"`
	Minutes    float64 `json:"minutes"     validate:"required,gt=0"`
	OccurredAt string  `json:"occurred_at,omitempty"`
}

// RestorativeResponse returns the Recovery value after the session's gain,
// or null while no baseline exists yet.
type RestorativeResponse struct {
	Recovery *float64 `json:"recovery"`
}

// TaskRequest records one completed reading or listening task.
type TaskRequest struct {
	Kind       string  `json:"kind"        validate:"required,oneof=reading listening"`
	Minutes    float64 `json:"minutes"     validate:"required,gt=0"`
	OccurredAt string  `json:"occurred_at,omitempty"`
}

// AppEventRequest records a client action boundary such as an app open.
type AppEventRequest struct {
	Type   string          `json:"type"   validate:"required"`
	Detail json.RawMessage `json:"detail,omitempty"`
}
