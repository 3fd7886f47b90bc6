package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// SnapshotStore defines the interface for daily snapshot persistence.
//
// The store enforces the one-snapshot-per-user-per-day invariant at the
// database level. Commit is the only write path; there is no unconditional
// update, so a day's recovery value can never be overwritten once recorded.
type SnapshotStore interface {
	// GetByDate retrieves the user's snapshot for the given local date.
	// Returns ErrSnapshotNotFound if no snapshot exists for that day.
	GetByDate(ctx context.Context, userID uuid.UUID, date domain.LocalDate) (*domain.DailySnapshot, error)

	// GetLatest retrieves the user's most recent snapshot across all days.
	// Returns ErrSnapshotNotFound if the user has no snapshots at all.
	GetLatest(ctx context.Context, userID uuid.UUID) (*domain.DailySnapshot, error)

	// GetLatestBefore retrieves the most recent snapshot strictly earlier
	// than the given local date.
	// Returns ErrSnapshotNotFound if no earlier snapshot exists.
	GetLatestBefore(ctx context.Context, userID uuid.UUID, date domain.LocalDate) (*domain.DailySnapshot, error)

	// ListRange retrieves the user's snapshots with dates in [from, to],
	// ordered oldest first. Returns an empty slice when the range is empty.
	ListRange(ctx context.Context, userID uuid.UUID, from, to domain.LocalDate) ([]*domain.DailySnapshot, error)

	// Commit writes the snapshot for its (user, date) key in a single
	// statement. A missing row is inserted. An existing row is updated only
	// while its recovery value is still NULL, so a placeholder can be
	// corrected but a recorded snapshot is immutable. The returned bool
	// reports whether a row was actually written; false means a concurrent
	// writer already recorded that day.
	Commit(ctx context.Context, snapshot *domain.DailySnapshot) (bool, error)

	// WithTx returns a new SnapshotStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) SnapshotStore
}
