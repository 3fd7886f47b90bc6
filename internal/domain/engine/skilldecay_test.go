package engine

import (
	"testing"
	"time"
)

func TestInactivityDecay(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	testCases := []struct {
		name     string
		last     time.Time
		expected float64
	}{
		{
			name:     "never trained accrues no decay",
			last:     time.Time{},
			expected: 0,
		},
		{
			name:     "recent activity accrues no decay",
			last:     daysAgo(5),
			expected: 0,
		},
		{
			name:     "just inside the threshold accrues no decay",
			last:     daysAgo(29),
			expected: 0,
		},
		{
			name:     "threshold crossed applies the base amount",
			last:     daysAgo(30),
			expected: 3,
		},
		{
			name:     "one completed interval adds one decrement",
			last:     daysAgo(45),
			expected: 5, // 3 + 2
		},
		{
			name:     "three completed intervals",
			last:     daysAgo(75),
			expected: 9, // 3 + 3×2
		},
		{
			name:     "window cap binds inside the first 90 days",
			last:     daysAgo(120),
			expected: 10, // nominal 3 + 6×2 = 15, capped
		},
		{
			name:     "cap scales with elapsed windows",
			last:     daysAgo(30 + 95),
			expected: 15, // second window opened: nominal 3+12=15 ≤ 20 cap
		},
		{
			name:     "second window boundary stays inside the doubled cap",
			last:     daysAgo(30 + 180),
			expected: 20, // nominal 3 + 12×2 = 27, two windows cap at 20
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InactivityDecay(tc.last, now, params)
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestInactivityDecayIsIdempotent(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -50)

	first := InactivityDecay(last, now, params)
	second := InactivityDecay(last, now, params)
	if first != second {
		t.Errorf("same elapsed interval produced different decay: %v then %v", first, second)
	}
}

func TestApplyInactivityDecayFloorsAtZero(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := now.AddDate(0, 0, -80)

	got := ApplyInactivityDecay(2, last, now, params)
	if got != 0 {
		t.Errorf("Expected decay to floor at 0, got %v", got)
	}

	// A skill inside the activity window is untouched.
	got = ApplyInactivityDecay(2, now.AddDate(0, 0, -10), now, params)
	if got != 2 {
		t.Errorf("Expected no decay inside the activity window, got %v", got)
	}
}
