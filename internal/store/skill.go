package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// SkillStore defines the interface for skill state persistence.
type SkillStore interface {
	// GetAll retrieves every skill state tracked for the user, keyed by
	// skill kind. Untracked skills are simply absent from the returned set;
	// an empty set is not an error.
	GetAll(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error)

	// Get retrieves a single skill state.
	// Returns ErrSkillStateNotFound if the user has no row for the kind.
	Get(ctx context.Context, userID uuid.UUID, kind domain.SkillKind) (*domain.SkillState, error)

	// Upsert saves a skill state, inserting the row on first write and
	// replacing the value and activity timestamp on subsequent writes.
	// Returns validation errors from the domain SkillState if data is invalid.
	Upsert(ctx context.Context, state *domain.SkillState) error

	// WithTx returns a new SkillStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) SkillStore
}
