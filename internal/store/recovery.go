package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// RecoveryStore defines the interface for recovery state persistence.
type RecoveryStore interface {
	// Get retrieves the user's recovery state.
	// Returns ErrRecoveryStateNotFound if the user has never been seeded
	// with a baseline, which callers treat as "recovery untracked".
	Get(ctx context.Context, userID uuid.UUID) (*domain.RecoveryState, error)

	// Upsert saves a recovery state, inserting the row on first write and
	// replacing the value and update timestamp on subsequent writes.
	// Returns validation errors from the domain RecoveryState if data is invalid.
	Upsert(ctx context.Context, state *domain.RecoveryState) error

	// WithTx returns a new RecoveryStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) RecoveryStore
}
