package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// ActivityStore defines the interface for behavioral activity persistence.
type ActivityStore interface {
	// Record saves a new activity entry.
	// Returns validation errors from the domain ActivityEntry if data is invalid.
	Record(ctx context.Context, entry *domain.ActivityEntry) error

	// WeeklyTotals aggregates training XP, detox minutes and walk minutes
	// for entries at or after the given cutoff. Missing kinds aggregate
	// to zero; the result is never nil on success.
	WeeklyTotals(ctx context.Context, userID uuid.UUID, since time.Time) (*domain.WeeklyActivity, error)

	// TaskCompletionsSince retrieves reading and listening completions at or
	// after the cutoff, ordered oldest first. Returns an empty slice when
	// there are none.
	TaskCompletionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.TaskCompletion, error)

	// RecentSlowGameScores retrieves the scores of the user's most recent
	// training entries for the slow-system skills (critical thinking and
	// insight), at most limit of them, ordered oldest first.
	RecentSlowGameScores(ctx context.Context, userID uuid.UUID, limit int) ([]float64, error)

	// LastSlowGameAt retrieves the occurrence time of the user's most
	// recent slow-system training entry. Returns the zero time, without an
	// error, when the user has none.
	LastSlowGameAt(ctx context.Context, userID uuid.UUID) (time.Time, error)

	// WithTx returns a new ActivityStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) ActivityStore
}
