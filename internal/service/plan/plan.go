// Package plan defines the training plan catalog. A plan sets the weekly
// behavioral targets the composite index's engagement component is measured
// against; unknown plan IDs are a loud error rather than a silent default so
// a client-side typo cannot quietly change a user's targets.
package plan

import (
	"errors"
	"fmt"
)

// ErrUnknownPlan indicates a plan ID outside the catalog.
var ErrUnknownPlan = errors.New("unknown training plan")

// ID names a training plan.
type ID string

// The plan catalog.
const (
	Starter   ID = "starter"
	Standard  ID = "standard"
	Intensive ID = "intensive"
)

// Targets are a plan's weekly behavioral goals.
type Targets struct {
	// WeeklyXP is the training XP expected over a trailing 7-day window.
	WeeklyXP int

	// WeeklyRecoveryMinutes is the combined detox and walking minutes
	// expected over the same window.
	WeeklyRecoveryMinutes float64

	// WeeklyTasks is the expected reading/listening completions per week,
	// used by the Reasoning Quality task-frequency component.
	WeeklyTasks int
}

var catalog = map[ID]Targets{
	Starter:   {WeeklyXP: 300, WeeklyRecoveryMinutes: 90, WeeklyTasks: 3},
	Standard:  {WeeklyXP: 600, WeeklyRecoveryMinutes: 150, WeeklyTasks: 5},
	Intensive: {WeeklyXP: 1000, WeeklyRecoveryMinutes: 240, WeeklyTasks: 7},
}

// Valid reports whether the plan ID is in the catalog.
func (id ID) Valid() bool {
	_, ok := catalog[id]
	return ok
}

// TargetsFor looks up the weekly targets for a plan.
// Returns ErrUnknownPlan for IDs outside the catalog.
func TargetsFor(id ID) (Targets, error) {
	targets, ok := catalog[id]
	if !ok {
		return Targets{}, fmt.Errorf("%w: %q", ErrUnknownPlan, id)
	}
	return targets, nil
}

// All returns the catalog's plan IDs in ascending intensity order.
func All() []ID {
	return []ID{Starter, Standard, Intensive}
}
