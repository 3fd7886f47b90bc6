package engine

import (
	"github.com/lunafield/cortex-api/internal/domain"
)

// SnapshotAction names the outcome of a snapshot transition decision.
type SnapshotAction string

const (
	// SnapshotSkip means no write should happen: either today's snapshot is
	// already committed with a real value, or no real Recovery value is
	// known yet and committing would persist a misleading zero.
	SnapshotSkip SnapshotAction = "skip"

	// SnapshotCommit means a new snapshot row for today should be written.
	SnapshotCommit SnapshotAction = "commit"

	// SnapshotCorrect means today's stored snapshot is a placeholder and a
	// real value is now available: the one sanctioned second write for a
	// day, with the streak recomputed.
	SnapshotCorrect SnapshotAction = "correct"
)

// SnapshotPlanInput carries the state the snapshot transition reads.
type SnapshotPlanInput struct {
	Today    domain.LocalDate
	Recovery *float64 // Current Recovery value; nil while no baseline exists

	// Latest is the most recent stored snapshot with date ≤ today, nil when
	// the user has none.
	Latest *domain.DailySnapshot

	// PriorToToday is the most recent snapshot strictly before today. Only
	// consulted when Latest is today's row and a correction has to
	// recompute the streak; callers may leave it nil otherwise.
	PriorToToday *domain.DailySnapshot
}

// SnapshotPlan is the decided transition. Value and Streak are meaningful
// only when Action is not SnapshotSkip.
type SnapshotPlan struct {
	Action SnapshotAction
	Date   domain.LocalDate
	Value  float64
	Streak int
}

// PlanSnapshot runs the per-day snapshot state machine:
//
//	stored date == today, real value     → skip (idempotent no-op)
//	stored date == today, placeholder    → correction write, streak recomputed
//	stored date == yesterday             → streak continues: low ? streak+1 : 0
//	gap or no prior snapshot             → streak restarts: low ? 1 : 0
//
// A nil Recovery always skips: a snapshot must never be committed before a
// real Recovery value is known. The plan is pure; the store's conditional
// upsert enforces the same rules atomically against concurrent sessions.
func PlanSnapshot(input SnapshotPlanInput) SnapshotPlan {
	if input.Recovery == nil {
		return SnapshotPlan{Action: SnapshotSkip}
	}

	value := *input.Recovery
	isLow := value < domain.LowRecoveryThreshold

	if input.Latest != nil && input.Latest.Date.Equal(input.Today) {
		if !input.Latest.IsPlaceholder() {
			return SnapshotPlan{Action: SnapshotSkip}
		}

		return SnapshotPlan{
			Action: SnapshotCorrect,
			Date:   input.Today,
			Value:  value,
			Streak: nextStreak(input.PriorToToday, input.Today, isLow),
		}
	}

	return SnapshotPlan{
		Action: SnapshotCommit,
		Date:   input.Today,
		Value:  value,
		Streak: nextStreak(input.Latest, input.Today, isLow),
	}
}

// nextStreak applies the streak continuity rules given the most recent
// snapshot strictly before today.
func nextStreak(prior *domain.DailySnapshot, today domain.LocalDate, isLow bool) int {
	if !isLow {
		return 0
	}

	if prior == nil || today.DaysSince(prior.Date) > 1 {
		return 1
	}

	return prior.LowRecoveryStreak + 1
}
