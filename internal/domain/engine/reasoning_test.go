package engine

import (
	"math"
	"testing"
	"time"

	"github.com/lunafield/cortex-api/internal/domain"
)

func TestReasoningQualityBounds(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		inputs ReasoningInputs
	}{
		{
			name:   "empty history",
			inputs: ReasoningInputs{SlowAggregate: 50},
		},
		{
			name: "perfect recent history",
			inputs: ReasoningInputs{
				SlowAggregate: 100,
				RecentScores:  []float64{100, 100, 100},
				Tasks: []domain.TaskCompletion{
					{Kind: domain.ActivityReading, CompletedAt: now},
					{Kind: domain.ActivityReading, CompletedAt: now},
					{Kind: domain.ActivityReading, CompletedAt: now},
					{Kind: domain.ActivityReading, CompletedAt: now},
					{Kind: domain.ActivityReading, CompletedAt: now},
				},
				LastGameAt: now,
				LastTaskAt: now,
			},
		},
		{
			name: "worst case",
			inputs: ReasoningInputs{
				SlowAggregate: 0,
				RecentScores:  []float64{0, 0, 0},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReasoningQuality(tc.inputs, now, params)
			if got < 0 || got > 100 {
				t.Errorf("RQ escaped [0,100]: %v", got)
			}
		})
	}
}

func TestReasoningQualityNoHistoryReadsAsSkill(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// With no recent scores and no tasks the component weights fold back
	// into S2; only the inactivity factor applies.
	got := ReasoningQuality(ReasoningInputs{SlowAggregate: 60}, now, params)
	expected := 60 * params.RQInactivityFactor
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestReasoningQualityMonotonicInActivity(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	base := ReasoningInputs{
		SlowAggregate: 60,
		RecentScores:  []float64{70, 75},
		Tasks: []domain.TaskCompletion{
			{Kind: domain.ActivityReading, CompletedAt: now.AddDate(0, 0, -2)},
		},
		LastGameAt: now.AddDate(0, 0, -2),
		LastTaskAt: now.AddDate(0, 0, -2),
	}
	baseRQ := ReasoningQuality(base, now, params)

	t.Run("an extra high score cannot lower RQ", func(t *testing.T) {
		more := base
		more.RecentScores = append(append([]float64{}, base.RecentScores...), 90)
		more.LastGameAt = now
		if got := ReasoningQuality(more, now, params); got < baseRQ {
			t.Errorf("extra high-quality game lowered RQ: %v < %v", got, baseRQ)
		}
	})

	t.Run("the first task completion cannot lower RQ", func(t *testing.T) {
		none := base
		none.Tasks = nil
		noneRQ := ReasoningQuality(none, now, params)

		one := base
		one.Tasks = []domain.TaskCompletion{
			{Kind: domain.ActivityReading, CompletedAt: now},
		}
		one.LastTaskAt = now
		if got := ReasoningQuality(one, now, params); got < noneRQ {
			t.Errorf("first task lowered RQ: %v < %v", got, noneRQ)
		}
	})

	t.Run("an extra task completion cannot lower RQ", func(t *testing.T) {
		more := base
		more.Tasks = append(append([]domain.TaskCompletion{}, base.Tasks...),
			domain.TaskCompletion{Kind: domain.ActivityListening, CompletedAt: now})
		more.LastTaskAt = now
		if got := ReasoningQuality(more, now, params); got < baseRQ {
			t.Errorf("extra task lowered RQ: %v < %v", got, baseRQ)
		}
	})
}

func TestReasoningQualityPlanTarget(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	base := ReasoningInputs{
		SlowAggregate: 50,
		Tasks: []domain.TaskCompletion{
			{Kind: domain.ActivityReading, CompletedAt: now},
		},
		LastTaskAt: now,
	}

	// One completion fills a one-task week entirely but only a fifth of the
	// default five-task target, so the easier plan scores higher.
	easy := base
	easy.WeeklyTaskTarget = 1
	easyRQ := ReasoningQuality(easy, now, params)

	defaultRQ := ReasoningQuality(base, now, params)

	// easy: 0.8×50 + 0.20×100 = 60; default: 0.8×50 + 0.20×(0.8×50+0.2×100) = 52.
	if math.Abs(easyRQ-60) > 1e-9 {
		t.Errorf("Expected 60 for the filled one-task target, got %v", easyRQ)
	}
	if math.Abs(defaultRQ-52) > 1e-9 {
		t.Errorf("Expected 52 against the default target, got %v", defaultRQ)
	}
}

func TestReasoningQualityRecencyWeighting(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	recentHigh := ReasoningInputs{
		SlowAggregate: 50,
		RecentScores:  []float64{30, 90}, // newest is high
		LastGameAt:    now,
	}
	recentLow := ReasoningInputs{
		SlowAggregate: 50,
		RecentScores:  []float64{90, 30}, // newest is low
		LastGameAt:    now,
	}

	high := ReasoningQuality(recentHigh, now, params)
	low := ReasoningQuality(recentLow, now, params)
	if high <= low {
		t.Errorf("recent high score should outweigh older one: %v <= %v", high, low)
	}
}

func TestReasoningQualityWindowBounds(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("recent scores are bounded to the newest ten", func(t *testing.T) {
		scores := []float64{0, 0, 0, 0, 0} // old entries beyond the window
		for i := 0; i < 10; i++ {
			scores = append(scores, 80)
		}

		inputs := ReasoningInputs{SlowAggregate: 80, RecentScores: scores, LastGameAt: now}
		got := ReasoningQuality(inputs, now, params)

		// All ten counted entries are 80, so the blend sits at 80.
		if got != 80 {
			t.Errorf("Expected 80, got %v", got)
		}
	})

	t.Run("tasks outside the trailing window do not count", func(t *testing.T) {
		inWindow := ReasoningInputs{
			SlowAggregate: 50,
			Tasks: []domain.TaskCompletion{
				{Kind: domain.ActivityReading, CompletedAt: now.AddDate(0, 0, -1)},
			},
			LastTaskAt: now.AddDate(0, 0, -1),
		}
		stale := ReasoningInputs{
			SlowAggregate: 50,
			Tasks: []domain.TaskCompletion{
				{Kind: domain.ActivityReading, CompletedAt: now.AddDate(0, 0, -20)},
			},
			LastTaskAt: now.AddDate(0, 0, -1),
		}

		if a, b := ReasoningQuality(inWindow, now, params), ReasoningQuality(stale, now, params); a <= b {
			t.Errorf("in-window task should score above stale task: %v <= %v", a, b)
		}
	})
}
