package engine

import (
	"time"

	"github.com/lunafield/cortex-api/internal/domain"
)

// ReasoningInputs carries everything the Reasoning Quality calculator reads.
type ReasoningInputs struct {
	// SlowAggregate is the persistent S2 skill value.
	SlowAggregate float64

	// RecentScores is the bounded chronological window (oldest first) of
	// recent slow-system exercise scores, each in [0,100]. Entries beyond
	// RQMaxRecentScores are dropped from the oldest end.
	RecentScores []float64

	// Tasks are the reading/listening completions inside the trailing task
	// window.
	Tasks []domain.TaskCompletion

	// WeeklyTaskTarget is the plan's expected completions per week. Zero
	// falls back to Params.RQTasksPerWeek.
	WeeklyTaskTarget float64

	// LastGameAt and LastTaskAt are the timestamps of the most recent
	// slow-system exercise and content task. Zero when none has occurred.
	LastGameAt time.Time
	LastTaskAt time.Time
}

// ReasoningQuality blends the persistent S2 value, a recency-weighted
// average of recent exercise scores, and a frequency score from task
// completions into a single [0,100] scalar.
//
// Components that have no data yet fold their blend weight back into the S2
// term, so a user with no history reads as their skill value rather than
// being dragged toward zero. The task term folds back continuously: it
// blends from S2 toward the full-frequency score as completions fill the
// weekly target, so the first completion moves it the same direction every
// later one does. An overall decay factor applies once when neither a game
// nor a task has occurred within the inactivity window.
//
// The binding contracts are monotonicity (recent high-quality activity can
// only raise the score relative to an identical history with less activity)
// and boundedness; the blend weights themselves are tuning parameters on
// Params.
func ReasoningQuality(inputs ReasoningInputs, now time.Time, params *Params) float64 {
	skillWeight := params.RQSkillWeight
	recentWeight := params.RQRecentWeight
	taskWeight := params.RQTaskWeight

	scores := inputs.RecentScores
	if len(scores) > params.RQMaxRecentScores {
		scores = scores[len(scores)-params.RQMaxRecentScores:]
	}

	var recentTerm float64
	if len(scores) == 0 {
		skillWeight += recentWeight
	} else {
		recentTerm = recentWeight * recencyWeightedAverage(scores, params.RQRecencyDiscount)
	}

	target := inputs.WeeklyTaskTarget
	if target <= 0 {
		target = params.RQTasksPerWeek
	}
	fill := taskTargetFill(inputs.Tasks, target, now, params)
	taskTerm := taskWeight * ((1-fill)*inputs.SlowAggregate + 100*fill)

	value := skillWeight*inputs.SlowAggregate + recentTerm + taskTerm

	if isReasoningIdle(inputs, now, params) {
		value *= params.RQInactivityFactor
	}

	return clamp(value, 0, 100)
}

// recencyWeightedAverage averages the chronological score list with older
// entries discounted by a fixed per-step factor: the newest entry has weight
// 1, the one before it discount, then discount², and so on.
func recencyWeightedAverage(scores []float64, discount float64) float64 {
	var sum, weightSum float64
	weight := 1.0

	for i := len(scores) - 1; i >= 0; i-- {
		sum += scores[i] * weight
		weightSum += weight
		weight *= discount
	}

	return sum / weightSum
}

// taskTargetFill reports how much of the weekly task target the trailing
// window's type-weighted completions cover, in [0,1].
func taskTargetFill(tasks []domain.TaskCompletion, target float64, now time.Time, params *Params) float64 {
	cutoff := now.AddDate(0, 0, -params.RQTaskWindowDays)

	var weighted float64
	for _, task := range tasks {
		if task.CompletedAt.Before(cutoff) {
			continue
		}
		if w, ok := params.RQTaskKindWeights[task.Kind]; ok {
			weighted += w
		}
	}

	return clamp(weighted/target, 0, 1)
}

// isReasoningIdle reports whether neither a slow-system game nor a task has
// occurred within the inactivity window.
func isReasoningIdle(inputs ReasoningInputs, now time.Time, params *Params) bool {
	cutoff := now.AddDate(0, 0, -params.RQInactivityDays)

	gameRecent := !inputs.LastGameAt.IsZero() && !inputs.LastGameAt.Before(cutoff)
	taskRecent := !inputs.LastTaskAt.IsZero() && !inputs.LastTaskAt.Before(cutoff)

	return !gameRecent && !taskRecent
}
