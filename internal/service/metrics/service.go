// Package metrics orchestrates the scoring engine against persistence: it
// loads raw state, runs computation passes, drives the daily snapshot
// transition, folds completed activities into stored state and records
// debounced intraday events.
package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/domain/engine"
	"github.com/lunafield/cortex-api/internal/platform/logger"
	prom "github.com/lunafield/cortex-api/internal/platform/metrics"
	"github.com/lunafield/cortex-api/internal/service/plan"
	"github.com/lunafield/cortex-api/internal/service/wearable"
	"github.com/lunafield/cortex-api/internal/store"
)

// Common sentinel errors for the metrics service.
var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoBaseline indicates an operation that requires a seeded recovery
	// baseline was attempted before onboarding completed.
	ErrNoBaseline = errors.New("recovery baseline not seeded")
)

// ServiceError wraps errors from the metrics service with operation context.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metrics service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("metrics service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapErr wraps err with operation context, passing sentinels through
// untouched so callers can still match on them.
func wrapErr(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNoBaseline) ||
		errors.Is(err, plan.ErrUnknownPlan) {
		return err
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// Overview is the full current picture for a user: one computation pass plus
// the on-demand composite index.
type Overview struct {
	Metrics *engine.MetricSet     `json:"metrics"`
	SCI     engine.SCIResult      `json:"sci"`
	Weekly  domain.WeeklyActivity `json:"weekly"`

	// Stale is true when this overview was served from the last known good
	// copy because a fresh computation failed.
	Stale bool `json:"stale"`
}

// OnboardingInput carries the onboarding questionnaire answers plus the
// user's timezone and chosen plan.
type OnboardingInput struct {
	Signals  engine.OnboardingSignals
	Timezone string
	Plan     plan.ID
}

// TrainingInput is one completed training exercise.
type TrainingInput struct {
	Skill      domain.SkillKind
	Score      float64
	XP         int
	OccurredAt time.Time
}

// RestorativeInput is one completed detox or walking session.
type RestorativeInput struct {
	Kind       domain.ActivityKind // detox or walking
	Minutes    float64
	OccurredAt time.Time
}

// TaskInput is one completed reading or listening task.
type TaskInput struct {
	Kind       domain.ActivityKind // reading or listening
	Minutes    float64
	OccurredAt time.Time
}

// Service provides the application-level metrics operations.
type Service interface {
	// Overview runs a computation pass, drives the daily snapshot
	// transition as a side effect and returns current metrics plus the
	// composite index. On computation failure it serves the last known
	// good overview, flagged stale, when one exists.
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)

	// CompleteOnboarding stores the user's timezone and plan and seeds the
	// recovery baseline from the questionnaire signals.
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, input OnboardingInput) (*domain.RecoveryState, error)

	// RecordTraining folds a completed exercise into the skill state and
	// logs the activity. Returns the updated skill state.
	RecordTraining(ctx context.Context, userID uuid.UUID, input TrainingInput) (*domain.SkillState, error)

	// RecordRestorative applies a detox or walking session's recovery gain
	// and logs the activity. When no baseline exists yet the activity is
	// still logged and the returned state is nil.
	RecordRestorative(ctx context.Context, userID uuid.UUID, input RestorativeInput) (*domain.RecoveryState, error)

	// RecordTask logs a completed reading or listening task.
	RecordTask(ctx context.Context, userID uuid.UUID, input TaskInput) error

	// RecordAppEvent records a client action boundary (typically app_open)
	// as a debounced intraday event with a best-effort metric capture.
	RecordAppEvent(ctx context.Context, userID uuid.UUID, eventType domain.EventType, detail json.RawMessage) error

	// Snapshots returns the user's daily snapshots in [from, to].
	Snapshots(ctx context.Context, userID uuid.UUID, from, to domain.LocalDate) ([]*domain.DailySnapshot, error)

	// Events returns the user's intraday events in [from, to).
	Events(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.IntradayEvent, error)
}

// Config carries the dependencies for NewService.
type Config struct {
	DB        *sql.DB
	Engine    engine.Service
	Params    *engine.Params
	Users     store.UserStore
	Skills    store.SkillStore
	Recovery  store.RecoveryStore
	Snapshots store.SnapshotStore
	Events    store.EventStore
	Activity  store.ActivityStore
	Wearable  wearable.Provider
	Debouncer Debouncer
	Metrics   *prom.Manager
	Logger    *slog.Logger
	TimeFunc  func() time.Time // Injectable for testing; defaults to time.Now
}

type service struct {
	db        *sql.DB
	engine    engine.Service
	params    *engine.Params
	users     store.UserStore
	skills    store.SkillStore
	recovery  store.RecoveryStore
	snapshots store.SnapshotStore
	events    store.EventStore
	activity  store.ActivityStore
	wearable  wearable.Provider
	debouncer Debouncer
	metrics   *prom.Manager
	logger    *slog.Logger
	timeFunc  func() time.Time

	mu       sync.RWMutex
	lastGood map[uuid.UUID]*Overview
}

// Ensure service implements Service interface
var _ Service = (*service)(nil)

// NewService creates the metrics service.
// It returns an error if any required dependency is nil.
func NewService(cfg Config) (Service, error) {
	switch {
	case cfg.DB == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	case cfg.Engine == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "engine cannot be nil"}
	case cfg.Users == nil || cfg.Skills == nil || cfg.Recovery == nil ||
		cfg.Snapshots == nil || cfg.Events == nil || cfg.Activity == nil:
		return nil, &ServiceError{Operation: "create_service", Message: "all stores are required"}
	}

	if cfg.Params == nil {
		cfg.Params = engine.NewDefaultParams()
	}
	if cfg.Wearable == nil {
		cfg.Wearable = wearable.NewNoopProvider()
	}
	if cfg.Debouncer == nil {
		cfg.Debouncer = NewInMemoryDebouncer(30 * time.Second)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = prom.NewManager()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TimeFunc == nil {
		cfg.TimeFunc = time.Now
	}

	return &service{
		db:        cfg.DB,
		engine:    cfg.Engine,
		params:    cfg.Params,
		users:     cfg.Users,
		skills:    cfg.Skills,
		recovery:  cfg.Recovery,
		snapshots: cfg.Snapshots,
		events:    cfg.Events,
		activity:  cfg.Activity,
		wearable:  cfg.Wearable,
		debouncer: cfg.Debouncer,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With(slog.String("component", "metrics_service")),
		timeFunc:  cfg.TimeFunc,
		lastGood:  make(map[uuid.UUID]*Overview),
	}, nil
}

// Overview implements Service.Overview.
func (s *service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview, err := s.computeOverview(ctx, user, now)
	if err != nil {
		// Serve the last known good copy rather than a blank screen.
		if cached := s.cachedOverview(userID); cached != nil {
			log.Warn("serving stale overview after compute failure",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return cached, nil
		}
		return nil, wrapErr("overview", "computation failed with no cached fallback", err)
	}

	s.storeOverview(userID, overview)
	s.metrics.ComputePasses.Inc()

	// The decay check is itself an action boundary.
	s.recordEvent(ctx, userID, domain.EventTypeDecay, overview.Metrics.Capture(), nil, now)

	return overview, nil
}

// CompleteOnboarding implements Service.CompleteOnboarding.
func (s *service) CompleteOnboarding(
	ctx context.Context,
	userID uuid.UUID,
	input OnboardingInput,
) (*domain.RecoveryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	if _, err := time.LoadLocation(input.Timezone); err != nil {
		return nil, domain.ErrInvalidTimezone
	}
	if !input.Plan.Valid() {
		return nil, fmt.Errorf("%w: %q", plan.ErrUnknownPlan, input.Plan)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	state, err := s.engine.BaselineRecovery(userID, input.Signals, now)
	if err != nil {
		return nil, wrapErr("complete_onboarding", "failed to derive baseline", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		user.Timezone = input.Timezone
		user.Plan = string(input.Plan)
		if err := s.users.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		if err := s.recovery.WithTx(tx).Upsert(ctx, state); err != nil {
			return err
		}

		// Seed every skill at the neutral default so the first compute
		// pass has a full skill set to work from.
		txSkills := s.skills.WithTx(tx)
		for _, kind := range domain.AllSkillKinds {
			seed, err := domain.NewSkillState(userID, kind)
			if err != nil {
				return err
			}
			if err := txSkills.Upsert(ctx, seed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("complete_onboarding", "failed to persist onboarding state", err)
	}

	log.Info("onboarding completed",
		slog.String("user_id", userID.String()),
		slog.String("plan", string(input.Plan)),
		slog.Float64("baseline", state.Value))

	return state, nil
}

// RecordTraining implements Service.RecordTraining.
func (s *service) RecordTraining(
	ctx context.Context,
	userID uuid.UUID,
	input TrainingInput,
) (*domain.SkillState, error) {
	now := s.timeFunc()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	if !input.Skill.Valid() {
		return nil, domain.ErrInvalidSkillKind
	}

	var updated *domain.SkillState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSkills := s.skills.WithTx(tx)

		state, err := txSkills.Get(ctx, userID, input.Skill)
		if errors.Is(err, store.ErrSkillStateNotFound) {
			state, err = domain.NewSkillState(userID, input.Skill)
		}
		if err != nil {
			return err
		}

		updated, err = s.engine.SkillAfterTraining(state, input.Score, occurredAt)
		if err != nil {
			return err
		}
		if err := txSkills.Upsert(ctx, updated); err != nil {
			return err
		}

		entry, err := domain.NewTrainingEntry(userID, input.Skill, occurredAt, input.XP, input.Score)
		if err != nil {
			return err
		}
		return s.activity.WithTx(tx).Record(ctx, entry)
	})
	if err != nil {
		return nil, wrapErr("record_training", "failed to apply training result", err)
	}

	s.metrics.SkillUpdates.Inc()
	s.captureAndRecord(ctx, userID, domain.EventTypeGame, now)

	return updated, nil
}

// RecordRestorative implements Service.RecordRestorative.
func (s *service) RecordRestorative(
	ctx context.Context,
	userID uuid.UUID,
	input RestorativeInput,
) (*domain.RecoveryState, error) {
	now := s.timeFunc()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	var eventType domain.EventType
	switch input.Kind {
	case domain.ActivityDetox:
		eventType = domain.EventTypeDetox
	case domain.ActivityWalking:
		eventType = domain.EventTypeWalking
	default:
		return nil, fmt.Errorf("%w: %q is not restorative", domain.ErrInvalidActivityKind, input.Kind)
	}

	var updated *domain.RecoveryState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txRecovery := s.recovery.WithTx(tx)

		state, err := txRecovery.Get(ctx, userID)
		switch {
		case errors.Is(err, store.ErrRecoveryStateNotFound):
			// No baseline yet: log the activity, gain applies after onboarding.
			state = nil
		case err != nil:
			return err
		}

		if state != nil {
			detox, walk := 0.0, 0.0
			if input.Kind == domain.ActivityDetox {
				detox = input.Minutes
			} else {
				walk = input.Minutes
			}

			updated, err = s.engine.RecoveryAfterGain(state, detox, walk, occurredAt)
			if err != nil {
				return err
			}
			if err := txRecovery.Upsert(ctx, updated); err != nil {
				return err
			}
		}

		entry, err := domain.NewActivityEntry(userID, input.Kind, occurredAt, input.Minutes, 0)
		if err != nil {
			return err
		}
		return s.activity.WithTx(tx).Record(ctx, entry)
	})
	if err != nil {
		return nil, wrapErr("record_restorative", "failed to apply restorative session", err)
	}

	if updated != nil {
		s.metrics.RecoveryGains.Inc()
	}
	s.captureAndRecord(ctx, userID, eventType, now)

	return updated, nil
}

// RecordTask implements Service.RecordTask.
func (s *service) RecordTask(ctx context.Context, userID uuid.UUID, input TaskInput) error {
	now := s.timeFunc()
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	if input.Kind != domain.ActivityReading && input.Kind != domain.ActivityListening {
		return fmt.Errorf("%w: %q is not a content task", domain.ErrInvalidActivityKind, input.Kind)
	}

	entry, err := domain.NewActivityEntry(userID, input.Kind, occurredAt, input.Minutes, 0)
	if err != nil {
		return err
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		return wrapErr("record_task", "failed to record task completion", err)
	}

	s.captureAndRecord(ctx, userID, domain.EventTypeTask, now)
	return nil
}

// RecordAppEvent implements Service.RecordAppEvent.
func (s *service) RecordAppEvent(
	ctx context.Context,
	userID uuid.UUID,
	eventType domain.EventType,
	detail json.RawMessage,
) error {
	if !eventType.Valid() {
		return domain.ErrInvalidEventType
	}

	now := s.timeFunc()
	capture, err := s.captureMetrics(ctx, userID, now)
	if err != nil {
		// A capture failure must not lose the event; record it bare.
		capture = domain.MetricCapture{}
	}

	s.recordEvent(ctx, userID, eventType, capture, detail, now)
	return nil
}

// Snapshots implements Service.Snapshots.
func (s *service) Snapshots(
	ctx context.Context,
	userID uuid.UUID,
	from, to domain.LocalDate,
) ([]*domain.DailySnapshot, error) {
	snapshots, err := s.snapshots.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, wrapErr("snapshots", "failed to list snapshots", err)
	}
	return snapshots, nil
}

// Events implements Service.Events.
func (s *service) Events(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.IntradayEvent, error) {
	events, err := s.events.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, wrapErr("events", "failed to list events", err)
	}
	return events, nil
}

// getUser loads a user, mapping the store sentinel to the service one.
func (s *service) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapErr("get_user", "failed to load user", err)
	}
	return user, nil
}

// computeMetricSet loads raw state and runs one engine computation pass.
func (s *service) computeMetricSet(
	ctx context.Context,
	user *domain.User,
	now time.Time,
) (*engine.MetricSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	userID := user.ID

	skills, err := s.skills.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	recoveryState, err := s.recovery.Get(ctx, userID)
	if errors.Is(err, store.ErrRecoveryStateNotFound) {
		recoveryState = nil
	} else if err != nil {
		return nil, err
	}

	physio, err := s.wearable.Latest(ctx, userID)
	if err != nil {
		// Wearable data is optional; a bridge failure degrades, not fails.
		log.Warn("wearable provider failed, continuing without physio",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		physio = nil
	}

	// The plan's weekly task target scales the Reasoning Quality frequency
	// component. A not-yet-onboarded or stale plan falls back to the
	// engine default; the overview path still rejects unknown plans.
	var taskTarget float64
	if targets, err := plan.TargetsFor(plan.ID(user.Plan)); err == nil {
		taskTarget = float64(targets.WeeklyTasks)
	}

	reasoning, err := s.loadReasoningInputs(ctx, userID, taskTarget, now)
	if err != nil {
		return nil, err
	}

	streak := 0
	latest, err := s.snapshots.GetLatest(ctx, userID)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
	case err != nil:
		return nil, err
	default:
		streak = latest.LowRecoveryStreak
	}

	return s.engine.ComputeMetrics(engine.ComputeInputs{
		Skills:            skills,
		Recovery:          recoveryState,
		Physio:            physio,
		Reasoning:         reasoning,
		LowRecoveryStreak: streak,
	}, now)
}

// computeOverview runs the full pass: metrics, snapshot transition, SCI.
func (s *service) computeOverview(
	ctx context.Context,
	user *domain.User,
	now time.Time,
) (*Overview, error) {
	set, err := s.computeMetricSet(ctx, user, now)
	if err != nil {
		return nil, err
	}

	if err := s.transitionSnapshot(ctx, user, set, now); err != nil {
		return nil, err
	}

	targets, err := plan.TargetsFor(plan.ID(user.Plan))
	if err != nil {
		return nil, err
	}

	weekly, err := s.activity.WeeklyTotals(ctx, user.ID, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	decayed := make(domain.SkillSet, len(set.Skills))
	for kind, value := range set.Skills {
		decayed[kind] = &domain.SkillState{UserID: user.ID, Kind: kind, Value: value}
	}

	sci := s.engine.CompositeIndex(engine.SCIInputs{
		Skills:                      decayed,
		Weekly:                      *weekly,
		WeeklyTargetXP:              targets.WeeklyXP,
		WeeklyTargetRecoveryMinutes: targets.WeeklyRecoveryMinutes,
	})

	return &Overview{Metrics: set, SCI: sci, Weekly: *weekly}, nil
}

// transitionSnapshot runs the snapshot state machine for the user's current
// local day and commits the planned write through the store's conditional
// upsert.
func (s *service) transitionSnapshot(
	ctx context.Context,
	user *domain.User,
	set *engine.MetricSet,
	now time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loc, err := user.Location()
	if err != nil {
		return err
	}
	today := domain.LocalDateOf(now, loc)

	latest, err := s.snapshots.GetLatest(ctx, user.ID)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		latest = nil
	} else if err != nil {
		return err
	}

	var prior *domain.DailySnapshot
	if latest != nil && latest.Date.Equal(today) {
		prior, err = s.snapshots.GetLatestBefore(ctx, user.ID, today)
		if errors.Is(err, store.ErrSnapshotNotFound) {
			prior = nil
		} else if err != nil {
			return err
		}
	}

	var recovery *float64
	if set.HasRecovery {
		recovery = &set.Recovery
	}

	planned := s.engine.PlanSnapshot(engine.SnapshotPlanInput{
		Today:        today,
		Recovery:     recovery,
		Latest:       latest,
		PriorToToday: prior,
	})
	s.metrics.SnapshotCommits.WithLabelValues(string(planned.Action)).Inc()

	if planned.Action == engine.SnapshotSkip {
		return nil
	}

	snapshot, err := domain.NewDailySnapshot(user.ID, planned.Date, &planned.Value, planned.Streak)
	if err != nil {
		return err
	}

	committed, err := s.snapshots.Commit(ctx, snapshot)
	if err != nil {
		return err
	}
	if !committed {
		// A concurrent session won the day; their value stands.
		log.Debug("snapshot write lost the race",
			slog.String("user_id", user.ID.String()),
			slog.String("date", today.String()))
	}

	return nil
}

// loadReasoningInputs assembles the Reasoning Quality window from the
// activity log.
func (s *service) loadReasoningInputs(
	ctx context.Context,
	userID uuid.UUID,
	taskTarget float64,
	now time.Time,
) (engine.ReasoningInputs, error) {
	scores, err := s.activity.RecentSlowGameScores(ctx, userID, s.params.RQMaxRecentScores)
	if err != nil {
		return engine.ReasoningInputs{}, err
	}

	windowStart := now.AddDate(0, 0, -s.params.RQTaskWindowDays)
	tasks, err := s.activity.TaskCompletionsSince(ctx, userID, windowStart)
	if err != nil {
		return engine.ReasoningInputs{}, err
	}

	lastGame, err := s.activity.LastSlowGameAt(ctx, userID)
	if err != nil {
		return engine.ReasoningInputs{}, err
	}

	var lastTask time.Time
	if len(tasks) > 0 {
		lastTask = tasks[len(tasks)-1].CompletedAt
	}

	return engine.ReasoningInputs{
		RecentScores:     scores,
		Tasks:            tasks,
		WeeklyTaskTarget: taskTarget,
		LastGameAt:       lastGame,
		LastTaskAt:       lastTask,
	}, nil
}

// captureMetrics runs a computation pass purely to capture current metric
// values for an event.
func (s *service) captureMetrics(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) (domain.MetricCapture, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.MetricCapture{}, err
	}

	set, err := s.computeMetricSet(ctx, user, now)
	if err != nil {
		return domain.MetricCapture{}, err
	}
	return set.Capture(), nil
}

// captureAndRecord is the best-effort event path used after mutations: a
// failed capture or append is logged, never surfaced, so the mutation's
// success is not retracted over telemetry.
func (s *service) captureAndRecord(
	ctx context.Context,
	userID uuid.UUID,
	eventType domain.EventType,
	now time.Time,
) {
	capture, err := s.captureMetrics(ctx, userID, now)
	if err != nil {
		capture = domain.MetricCapture{}
	}
	s.recordEvent(ctx, userID, eventType, capture, nil, now)
}

// recordEvent appends a debounced intraday event. Suppressions and append
// failures are counted and logged but never returned.
func (s *service) recordEvent(
	ctx context.Context,
	userID uuid.UUID,
	eventType domain.EventType,
	capture domain.MetricCapture,
	detail json.RawMessage,
	now time.Time,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key := userID.String() + ":" + string(eventType)
	if !s.debouncer.ShouldFire(key, now) {
		s.metrics.EventsDebounced.Inc()
		return
	}

	event, err := domain.NewIntradayEvent(userID, now, eventType, capture, detail)
	if err != nil {
		log.Warn("failed to build intraday event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("type", string(eventType)))
		return
	}

	if err := s.events.Append(ctx, event); err != nil {
		log.Warn("failed to append intraday event",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("type", string(eventType)))
		return
	}

	s.metrics.EventsRecorded.WithLabelValues(string(eventType)).Inc()
}

// cachedOverview returns a copy of the last good overview, flagged stale.
func (s *service) cachedOverview(userID uuid.UUID) *Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached, ok := s.lastGood[userID]
	if !ok {
		return nil
	}

	stale := *cached
	stale.Stale = true
	return &stale
}

// storeOverview replaces the user's last known good overview.
func (s *service) storeOverview(userID uuid.UUID, overview *Overview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastGood[userID] = overview
}
