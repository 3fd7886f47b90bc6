package metrics

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/domain/engine"
	"github.com/lunafield/cortex-api/internal/service/plan"
	"github.com/lunafield/cortex-api/internal/store"
)

// stubDriver backs a *sql.DB whose transactions begin, commit, and roll back
// as no-ops. The service's transactional flows only need the lifecycle; the
// store mocks ignore the *sql.Tx they are handed.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("metricstest", stubDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("metricstest", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Store mocks. Function fields default to empty-state success so each test
// only wires the calls it cares about.

type mockUserStore struct {
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFn  func(ctx context.Context, user *domain.User) error
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error { return nil }

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

type mockSkillStore struct {
	GetAllFn func(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error)
	GetFn    func(ctx context.Context, userID uuid.UUID, kind domain.SkillKind) (*domain.SkillState, error)
	UpsertFn func(ctx context.Context, state *domain.SkillState) error
}

func (m *mockSkillStore) GetAll(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error) {
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx, userID)
	}
	return domain.SkillSet{}, nil
}

func (m *mockSkillStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.SkillKind,
) (*domain.SkillState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, kind)
	}
	return nil, store.ErrSkillStateNotFound
}

func (m *mockSkillStore) Upsert(ctx context.Context, state *domain.SkillState) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, state)
	}
	return nil
}

func (m *mockSkillStore) WithTx(tx *sql.Tx) store.SkillStore { return m }

type mockRecoveryStore struct {
	GetFn    func(ctx context.Context, userID uuid.UUID) (*domain.RecoveryState, error)
	UpsertFn func(ctx context.Context, state *domain.RecoveryState) error
}

func (m *mockRecoveryStore) Get(ctx context.Context, userID uuid.UUID) (*domain.RecoveryState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID)
	}
	return nil, store.ErrRecoveryStateNotFound
}

func (m *mockRecoveryStore) Upsert(ctx context.Context, state *domain.RecoveryState) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, state)
	}
	return nil
}

func (m *mockRecoveryStore) WithTx(tx *sql.Tx) store.RecoveryStore { return m }

type mockSnapshotStore struct {
	GetLatestFn       func(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error)
	GetLatestBeforeFn func(ctx context.Context, userID uuid.UUID, date domain.LocalDate) (*domain.DailySnapshot, error)
	CommitFn          func(ctx context.Context, snapshot *domain.DailySnapshot) (bool, error)

	committed []*domain.DailySnapshot
}

func (m *mockSnapshotStore) GetByDate(
	ctx context.Context,
	userID uuid.UUID,
	date domain.LocalDate,
) (*domain.DailySnapshot, error) {
	return nil, store.ErrSnapshotNotFound
}

func (m *mockSnapshotStore) GetLatest(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error) {
	if m.GetLatestFn != nil {
		return m.GetLatestFn(ctx, userID)
	}
	return nil, store.ErrSnapshotNotFound
}

func (m *mockSnapshotStore) GetLatestBefore(
	ctx context.Context,
	userID uuid.UUID,
	date domain.LocalDate,
) (*domain.DailySnapshot, error) {
	if m.GetLatestBeforeFn != nil {
		return m.GetLatestBeforeFn(ctx, userID, date)
	}
	return nil, store.ErrSnapshotNotFound
}

func (m *mockSnapshotStore) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to domain.LocalDate,
) ([]*domain.DailySnapshot, error) {
	return nil, nil
}

func (m *mockSnapshotStore) Commit(ctx context.Context, snapshot *domain.DailySnapshot) (bool, error) {
	m.committed = append(m.committed, snapshot)
	if m.CommitFn != nil {
		return m.CommitFn(ctx, snapshot)
	}
	return true, nil
}

func (m *mockSnapshotStore) WithTx(tx *sql.Tx) store.SnapshotStore { return m }

type mockEventStore struct {
	AppendFn func(ctx context.Context, event *domain.IntradayEvent) error

	appended []*domain.IntradayEvent
}

func (m *mockEventStore) Append(ctx context.Context, event *domain.IntradayEvent) error {
	m.appended = append(m.appended, event)
	if m.AppendFn != nil {
		return m.AppendFn(ctx, event)
	}
	return nil
}

func (m *mockEventStore) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.IntradayEvent, error) {
	return nil, nil
}

func (m *mockEventStore) WithTx(tx *sql.Tx) store.EventStore { return m }

type mockActivityStore struct {
	RecordFn       func(ctx context.Context, entry *domain.ActivityEntry) error
	WeeklyTotalsFn func(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.WeeklyActivity, error)
	TasksFn        func(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.TaskCompletion, error)

	recorded []*domain.ActivityEntry
}

func (m *mockActivityStore) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	m.recorded = append(m.recorded, entry)
	if m.RecordFn != nil {
		return m.RecordFn(ctx, entry)
	}
	return nil
}

func (m *mockActivityStore) WeeklyTotals(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (*domain.WeeklyActivity, error) {
	if m.WeeklyTotalsFn != nil {
		return m.WeeklyTotalsFn(ctx, userID, since)
	}
	return &domain.WeeklyActivity{}, nil
}

func (m *mockActivityStore) TaskCompletionsSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.TaskCompletion, error) {
	if m.TasksFn != nil {
		return m.TasksFn(ctx, userID, since)
	}
	return nil, nil
}

func (m *mockActivityStore) RecentSlowGameScores(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]float64, error) {
	return nil, nil
}

func (m *mockActivityStore) LastSlowGameAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	return time.Time{}, nil
}

func (m *mockActivityStore) WithTx(tx *sql.Tx) store.ActivityStore { return m }

// fixture bundles a service wired with mocks against a fixed clock.
type fixture struct {
	svc       Service
	userID    uuid.UUID
	now       time.Time
	users     *mockUserStore
	skills    *mockSkillStore
	recovery  *mockRecoveryStore
	snapshots *mockSnapshotStore
	events    *mockEventStore
	activity  *mockActivityStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	f := &fixture{
		userID:    userID,
		now:       now,
		users:     &mockUserStore{},
		skills:    &mockSkillStore{},
		recovery:  &mockRecoveryStore{},
		snapshots: &mockSnapshotStore{},
		events:    &mockEventStore{},
		activity:  &mockActivityStore{},
	}

	f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		if id != userID {
			return nil, store.ErrUserNotFound
		}
		return &domain.User{ID: userID, Email: "user@example.com", Timezone: "UTC", Plan: "standard"}, nil
	}

	svc, err := NewService(Config{
		DB:        newStubDB(t),
		Engine:    engine.NewDefaultService(),
		Users:     f.users,
		Skills:    f.skills,
		Recovery:  f.recovery,
		Snapshots: f.snapshots,
		Events:    f.events,
		Activity:  f.activity,
		TimeFunc:  func() time.Time { return now },
	})
	require.NoError(t, err)

	f.svc = svc
	return f
}

// seedRecovery installs a baseline recovery state that has not decayed at
// the fixture clock.
func (f *fixture) seedRecovery(value float64) {
	f.recovery.GetFn = func(ctx context.Context, userID uuid.UUID) (*domain.RecoveryState, error) {
		return &domain.RecoveryState{
			UserID:       userID,
			Value:        value,
			HasBaseline:  true,
			LastUpdateAt: f.now,
		}, nil
	}
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := NewService(Config{})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_service", svcErr.Operation)
}

func TestOverviewCommitsFirstSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)

	overview, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, overview)

	assert.True(t, overview.Metrics.HasRecovery)
	assert.InDelta(t, 60, overview.Metrics.Recovery, 0.001)
	assert.False(t, overview.Stale)

	require.Len(t, f.snapshots.committed, 1)
	committed := f.snapshots.committed[0]
	assert.True(t, committed.Date.Equal(domain.LocalDateOf(f.now, time.UTC)))
	require.NotNil(t, committed.RecoveryValue)
	assert.InDelta(t, 60, *committed.RecoveryValue, 0.001)
	assert.Equal(t, 0, committed.LowRecoveryStreak)
}

func TestOverviewSkipsWhenTodayCommitted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)

	today := domain.LocalDateOf(f.now, time.UTC)
	value := 58.0
	f.snapshots.GetLatestFn = func(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error) {
		return &domain.DailySnapshot{
			UserID:        userID,
			Date:          today,
			RecoveryValue: &value,
		}, nil
	}

	_, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, f.snapshots.committed, "a committed day must not be rewritten")
}

func TestOverviewCorrectsPlaceholder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(30)

	today := domain.LocalDateOf(f.now, time.UTC)
	yesterdayValue := 35.0
	f.snapshots.GetLatestFn = func(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error) {
		return &domain.DailySnapshot{UserID: userID, Date: today, RecoveryValue: nil}, nil
	}
	f.snapshots.GetLatestBeforeFn = func(
		ctx context.Context,
		userID uuid.UUID,
		date domain.LocalDate,
	) (*domain.DailySnapshot, error) {
		return &domain.DailySnapshot{
			UserID:            userID,
			Date:              today.AddDays(-1),
			RecoveryValue:     &yesterdayValue,
			LowRecoveryStreak: 2,
		}, nil
	}

	_, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)

	require.Len(t, f.snapshots.committed, 1)
	committed := f.snapshots.committed[0]
	require.NotNil(t, committed.RecoveryValue)
	assert.InDelta(t, 30, *committed.RecoveryValue, 0.001)
	assert.Equal(t, 3, committed.LowRecoveryStreak, "streak continues through the corrected day")
}

func TestOverviewContinuesStreakFromYesterday(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(25)

	today := domain.LocalDateOf(f.now, time.UTC)
	lowValue := 20.0
	f.snapshots.GetLatestFn = func(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error) {
		return &domain.DailySnapshot{
			UserID:            userID,
			Date:              today.AddDays(-1),
			RecoveryValue:     &lowValue,
			LowRecoveryStreak: 4,
		}, nil
	}

	_, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)

	require.Len(t, f.snapshots.committed, 1)
	assert.Equal(t, 5, f.snapshots.committed[0].LowRecoveryStreak)
}

func TestOverviewSkipsSnapshotWithoutBaseline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// No seedRecovery: the store reports no state.

	overview, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)

	assert.False(t, overview.Metrics.HasRecovery)
	assert.Empty(t, f.snapshots.committed, "no snapshot before a baseline exists")
}

func TestOverviewServesStaleCacheOnFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)

	first, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)
	require.False(t, first.Stale)

	f.skills.GetAllFn = func(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error) {
		return nil, errors.New("connection refused")
	}

	second, err := f.svc.Overview(context.Background(), f.userID)
	require.NoError(t, err)
	assert.True(t, second.Stale)
	assert.Equal(t, first.Metrics, second.Metrics)
}

func TestOverviewFailsWithoutCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.skills.GetAllFn = func(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.Overview(context.Background(), f.userID)
	require.Error(t, err)

	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestOverviewUnknownPlanIsLoud(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)
	f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		return &domain.User{ID: id, Timezone: "UTC", Plan: "legacy"}, nil
	}

	_, err := f.svc.Overview(context.Background(), f.userID)
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)
}

func TestOverviewUserNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Overview(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCompleteOnboarding(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var savedState *domain.RecoveryState
	f.recovery.UpsertFn = func(ctx context.Context, state *domain.RecoveryState) error {
		savedState = state
		return nil
	}
	var savedUser *domain.User
	f.users.UpdateFn = func(ctx context.Context, user *domain.User) error {
		savedUser = user
		return nil
	}
	seeded := map[domain.SkillKind]float64{}
	f.skills.UpsertFn = func(ctx context.Context, state *domain.SkillState) error {
		seeded[state.Kind] = state.Value
		return nil
	}

	state, err := f.svc.CompleteOnboarding(context.Background(), f.userID, OnboardingInput{
		Signals:  engine.OnboardingSignals{SleepQuality: 4, ScreenDiscipline: 4, MentalState: 4},
		Timezone: "Europe/Berlin",
		Plan:     plan.Intensive,
	})
	require.NoError(t, err)

	// 25 + 2×(4+4+4) = 49, inside the baseline band.
	assert.InDelta(t, 49, state.Value, 0.001)
	assert.True(t, state.HasBaseline)

	require.NotNil(t, savedState)
	assert.Equal(t, state, savedState)
	require.NotNil(t, savedUser)
	assert.Equal(t, "Europe/Berlin", savedUser.Timezone)
	assert.Equal(t, string(plan.Intensive), savedUser.Plan)

	require.Len(t, seeded, len(domain.AllSkillKinds))
	for _, kind := range domain.AllSkillKinds {
		assert.Equal(t, domain.NeutralSkillValue, seeded[kind])
	}
}

func TestCompleteOnboardingRejectsBadInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.svc.CompleteOnboarding(context.Background(), f.userID, OnboardingInput{
		Signals:  engine.OnboardingSignals{SleepQuality: 3, ScreenDiscipline: 3, MentalState: 3},
		Timezone: "Mars/Olympus",
		Plan:     plan.Standard,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)

	_, err = f.svc.CompleteOnboarding(context.Background(), f.userID, OnboardingInput{
		Signals:  engine.OnboardingSignals{SleepQuality: 3, ScreenDiscipline: 3, MentalState: 3},
		Timezone: "UTC",
		Plan:     plan.ID("legacy"),
	})
	assert.ErrorIs(t, err, plan.ErrUnknownPlan)
}

func TestRecordTrainingMovesSkillTowardScore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var saved *domain.SkillState
	f.skills.UpsertFn = func(ctx context.Context, state *domain.SkillState) error {
		saved = state
		return nil
	}

	updated, err := f.svc.RecordTraining(context.Background(), f.userID, TrainingInput{
		Skill: domain.SkillCriticalThinking,
		Score: 100,
		XP:    40,
	})
	require.NoError(t, err)

	// First session starts from the neutral 50 and moves by the 0.2
	// learning rate: 50 + 0.2×(100−50) = 60.
	assert.InDelta(t, 60, updated.Value, 0.001)
	assert.Equal(t, f.now, updated.LastActivityAt)
	assert.Equal(t, updated, saved)

	require.Len(t, f.activity.recorded, 1)
	entry := f.activity.recorded[0]
	assert.Equal(t, domain.ActivityTraining, entry.Kind)
	assert.Equal(t, domain.SkillCriticalThinking, entry.Skill)
	assert.InDelta(t, 100, entry.Score, 0.001)
	assert.Equal(t, 40, entry.XP)

	require.Len(t, f.events.appended, 1)
	assert.Equal(t, domain.EventTypeGame, f.events.appended[0].Type)
}

func TestRecordTrainingRejectsUnknownSkill(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.RecordTraining(context.Background(), f.userID, TrainingInput{
		Skill: domain.SkillKind("memory"),
		Score: 80,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSkillKind)
	assert.Empty(t, f.activity.recorded)
}

func TestRecordRestorativeAppliesGain(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(50)

	var saved *domain.RecoveryState
	f.recovery.UpsertFn = func(ctx context.Context, state *domain.RecoveryState) error {
		saved = state
		return nil
	}

	updated, err := f.svc.RecordRestorative(context.Background(), f.userID, RestorativeInput{
		Kind:    domain.ActivityDetox,
		Minutes: 30,
	})
	require.NoError(t, err)

	// No decay at the fixed clock, so 50 + 0.12×30 = 53.6.
	require.NotNil(t, updated)
	assert.InDelta(t, 53.6, updated.Value, 0.001)
	assert.Equal(t, updated, saved)

	require.Len(t, f.activity.recorded, 1)
	assert.Equal(t, domain.ActivityDetox, f.activity.recorded[0].Kind)

	require.Len(t, f.events.appended, 1)
	assert.Equal(t, domain.EventTypeDetox, f.events.appended[0].Type)
}

func TestRecordRestorativeWalkingHalvesMinutes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(50)

	updated, err := f.svc.RecordRestorative(context.Background(), f.userID, RestorativeInput{
		Kind:    domain.ActivityWalking,
		Minutes: 30,
	})
	require.NoError(t, err)

	// Walking counts at half weight: 50 + 0.12×(0.5×30) = 51.8.
	require.NotNil(t, updated)
	assert.InDelta(t, 51.8, updated.Value, 0.001)
}

func TestRecordRestorativeWithoutBaselineStillLogs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	updated, err := f.svc.RecordRestorative(context.Background(), f.userID, RestorativeInput{
		Kind:    domain.ActivityDetox,
		Minutes: 20,
	})
	require.NoError(t, err)

	assert.Nil(t, updated, "no gain before onboarding seeds a baseline")
	require.Len(t, f.activity.recorded, 1)
}

func TestRecordRestorativeRejectsNonRestorativeKind(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.RecordRestorative(context.Background(), f.userID, RestorativeInput{
		Kind:    domain.ActivityReading,
		Minutes: 20,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidActivityKind)
}

func TestRecordTask(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.svc.RecordTask(context.Background(), f.userID, TaskInput{
		Kind:    domain.ActivityReading,
		Minutes: 15,
	})
	require.NoError(t, err)

	require.Len(t, f.activity.recorded, 1)
	assert.Equal(t, domain.ActivityReading, f.activity.recorded[0].Kind)

	require.Len(t, f.events.appended, 1)
	assert.Equal(t, domain.EventTypeTask, f.events.appended[0].Type)
}

func TestRecordTaskRejectsNonTaskKind(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.svc.RecordTask(context.Background(), f.userID, TaskInput{
		Kind:    domain.ActivityDetox,
		Minutes: 15,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidActivityKind)
	assert.Empty(t, f.activity.recorded)
}

func TestRecordAppEventDebounces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)

	err := f.svc.RecordAppEvent(context.Background(), f.userID, domain.EventTypeAppOpen, nil)
	require.NoError(t, err)

	// Same user, same type, same instant: suppressed.
	err = f.svc.RecordAppEvent(context.Background(), f.userID, domain.EventTypeAppOpen, nil)
	require.NoError(t, err)

	assert.Len(t, f.events.appended, 1)
}

func TestRecordAppEventCapturesMetrics(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedRecovery(60)

	err := f.svc.RecordAppEvent(context.Background(), f.userID, domain.EventTypeAppOpen, nil)
	require.NoError(t, err)

	require.Len(t, f.events.appended, 1)
	capture := f.events.appended[0].Metrics
	require.NotNil(t, capture.Recovery)
	assert.InDelta(t, 60, *capture.Recovery, 0.001)
	require.NotNil(t, capture.Sharpness)
}

func TestRecordAppEventRejectsUnknownType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.svc.RecordAppEvent(context.Background(), f.userID, domain.EventType("login"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEventType)
	assert.Empty(t, f.events.appended)
}

func TestRecordAppEventSurvivesCaptureFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.skills.GetAllFn = func(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error) {
		return nil, errors.New("connection refused")
	}

	err := f.svc.RecordAppEvent(context.Background(), f.userID, domain.EventTypeAppOpen, nil)
	require.NoError(t, err)

	require.Len(t, f.events.appended, 1)
	assert.Nil(t, f.events.appended[0].Metrics.Recovery, "capture failure records a bare event")
}

func TestOverviewUsesPlanTaskTarget(t *testing.T) {
	t.Parallel()

	reasoningFor := func(t *testing.T, planID plan.ID) float64 {
		t.Helper()

		f := newFixture(t)
		f.seedRecovery(60)
		f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: f.userID, Email: "user@example.com", Timezone: "UTC", Plan: string(planID)}, nil
		}
		f.activity.TasksFn = func(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.TaskCompletion, error) {
			return []domain.TaskCompletion{
				{Kind: domain.ActivityReading, CompletedAt: f.now.Add(-time.Hour)},
			}, nil
		}

		overview, err := f.svc.Overview(context.Background(), f.userID)
		require.NoError(t, err)
		return overview.Metrics.Reasoning
	}

	// One completion covers more of the starter plan's weekly task target
	// than the intensive plan's, so the same activity reads higher there.
	starter := reasoningFor(t, plan.Starter)
	intensive := reasoningFor(t, plan.Intensive)
	assert.Greater(t, starter, intensive)
}
