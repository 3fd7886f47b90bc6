package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillKind(t *testing.T) {
	t.Parallel()

	for _, kind := range AllSkillKinds {
		assert.True(t, kind.Valid())
		assert.NotEqual(t, string(kind), kind.Label(), "every known skill has a display label")
	}

	assert.False(t, SkillKind("memory").Valid())
	assert.Equal(t, "memory", SkillKind("memory").Label())
}

func TestSkillStateValidate(t *testing.T) {
	t.Parallel()

	state, err := NewSkillState(uuid.New(), SkillInsight)
	require.NoError(t, err)
	assert.Equal(t, NeutralSkillValue, state.Value)
	assert.True(t, state.LastActivityAt.IsZero())

	testCases := []struct {
		name     string
		mutate   func(*SkillState)
		expected error
	}{
		{"empty user", func(s *SkillState) { s.UserID = uuid.Nil }, ErrEmptySkillUserID},
		{"unknown kind", func(s *SkillState) { s.Kind = "memory" }, ErrInvalidSkillKind},
		{"negative value", func(s *SkillState) { s.Value = -1 }, ErrSkillValueRange},
		{"value above 100", func(s *SkillState) { s.Value = 101 }, ErrSkillValueRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bad := *state
			tc.mutate(&bad)
			assert.ErrorIs(t, bad.Validate(), tc.expected)
		})
	}
}

func TestSkillSetDefaults(t *testing.T) {
	t.Parallel()

	set := SkillSet{}
	assert.Equal(t, NeutralSkillValue, set.Value(SkillAttentionEfficiency))
	assert.True(t, set.LastActivityAt(SkillAttentionEfficiency).IsZero())

	set[SkillAttentionEfficiency] = &SkillState{Kind: SkillAttentionEfficiency, Value: 72}
	assert.Equal(t, 72.0, set.Value(SkillAttentionEfficiency))
}

func TestRecoveryStateValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	state, err := NewRecoveryState(uuid.New(), 45, now)
	require.NoError(t, err)
	assert.True(t, state.HasBaseline)

	_, err = NewRecoveryState(uuid.Nil, 45, now)
	assert.ErrorIs(t, err, ErrEmptyRecoveryUserID)

	_, err = NewRecoveryState(uuid.New(), 120, now)
	assert.ErrorIs(t, err, ErrRecoveryValueRange)
}

func TestDailySnapshot(t *testing.T) {
	t.Parallel()
	date := LocalDate{Year: 2025, Month: 6, Day: 10}

	value := 38.0
	snapshot, err := NewDailySnapshot(uuid.New(), date, &value, 2)
	require.NoError(t, err)
	assert.False(t, snapshot.IsPlaceholder())
	assert.True(t, snapshot.IsLowRecovery())

	placeholder, err := NewDailySnapshot(uuid.New(), date, nil, 0)
	require.NoError(t, err)
	assert.True(t, placeholder.IsPlaceholder())
	assert.False(t, placeholder.IsLowRecovery(), "a placeholder never counts as low recovery")

	healthy := 40.0
	boundary, err := NewDailySnapshot(uuid.New(), date, &healthy, 0)
	require.NoError(t, err)
	assert.False(t, boundary.IsLowRecovery(), "threshold itself is not low")

	_, err = NewDailySnapshot(uuid.New(), LocalDate{}, &value, 0)
	assert.ErrorIs(t, err, ErrEmptySnapshotDate)

	_, err = NewDailySnapshot(uuid.New(), date, &value, -1)
	assert.ErrorIs(t, err, ErrNegativeStreak)
}

func TestIntradayEventValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	event, err := NewIntradayEvent(uuid.New(), now, EventTypeGame, MetricCapture{}, nil)
	require.NoError(t, err)
	assert.Equal(t, EventTypeGame, event.Type)

	_, err = NewIntradayEvent(uuid.New(), now, EventType("meditation"), MetricCapture{}, nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = NewIntradayEvent(uuid.Nil, now, EventTypeGame, MetricCapture{}, nil)
	assert.ErrorIs(t, err, ErrEmptyEventUserID)
}

func TestActivityEntryValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	entry, err := NewActivityEntry(uuid.New(), ActivityDetox, now, 45, 0)
	require.NoError(t, err)
	assert.Equal(t, ActivityDetox, entry.Kind)

	_, err = NewActivityEntry(uuid.New(), ActivityKind("napping"), now, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidActivityKind)

	_, err = NewActivityEntry(uuid.New(), ActivityWalking, now, -5, 0)
	assert.ErrorIs(t, err, ErrNegativeMinutes)

	_, err = NewActivityEntry(uuid.New(), ActivityTraining, now, 10, -1)
	assert.ErrorIs(t, err, ErrNegativeXP)
}
