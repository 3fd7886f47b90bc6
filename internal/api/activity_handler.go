package api

import (
	"net/http"
	"time"

	"github.com/lunafield/cortex-api/internal/api/shared"
	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/domain/engine"
	"github.com/lunafield/cortex-api/internal/service/metrics"
	"github.com/lunafield/cortex-api/internal/service/plan"
)

// ActivityHandler serves onboarding and activity ingestion requests.
type ActivityHandler struct {
	service metrics.Service
}

// NewActivityHandler creates a new ActivityHandler with the given service.
func NewActivityHandler(service metrics.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Onboarding handles POST /api/onboarding, seeding the Recovery baseline
// from the questionnaire and storing the user's timezone and plan.
func (h *ActivityHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req OnboardingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	state, err := h.service.CompleteOnboarding(r.Context(), userID, metrics.OnboardingInput{
		Signals: engine.OnboardingSignals{
			SleepQuality:     req.SleepQuality,
			ScreenDiscipline: req.ScreenDiscipline,
			MentalState:      req.MentalState,
		},
		Timezone: req.Timezone,
		Plan:     plan.ID(req.Plan),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, OnboardingResponse{
		Baseline: state.Value,
	})
}

// Training handles POST /api/activities/training.
func (h *ActivityHandler) Training(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req TrainingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.service.RecordTraining(r.Context(), userID, metrics.TrainingInput{
		Skill:      domain.SkillKind(req.Skill),
		Score:      req.Score,
		XP:         req.XP,
		OccurredAt: occurredAt,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TrainingResponse{
		Skill:          string(state.Kind),
		Value:          state.Value,
		LastActivityAt: state.LastActivityAt.Format(time.RFC3339),
	})
}

// Restorative handles POST /api/activities/restorative for detox and
// walking sessions.
func (h *ActivityHandler) Restorative(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req RestorativeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	state, err := h.service.RecordRestorative(r.Context(), userID, metrics.RestorativeInput{
		Kind:       domain.ActivityKind(req.Kind),
		Minutes:    req.Minutes,
		OccurredAt: occurredAt,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := RestorativeResponse{}
	if state != nil {
		resp.Recovery = &state.Value
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Task handles POST /api/activities/task for reading and listening
// completions.
func (h *ActivityHandler) Task(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	occurredAt, err := parseOccurredAt(req.OccurredAt)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.service.RecordTask(r.Context(), userID, metrics.TaskInput{
		Kind:       domain.ActivityKind(req.Kind),
		Minutes:    req.Minutes,
		OccurredAt: occurredAt,
	}); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppEvent handles POST /api/events for client action boundaries such as
// app opens. Debounced server-side; a suppressed event still returns 202.
func (h *ActivityHandler) AppEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AppEventRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.service.RecordAppEvent(r.Context(), userID, domain.EventType(req.Type), req.Detail); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
