package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/platform/logger"
	"github.com/lunafield/cortex-api/internal/store"
)

// PostgresRecoveryStore implements the store.RecoveryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresRecoveryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRecoveryStore creates a new PostgreSQL implementation of the
// RecoveryStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresRecoveryStore(db store.DBTX, logger *slog.Logger) *PostgresRecoveryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRecoveryStore{
		db:     db,
		logger: logger.With(slog.String("component", "recovery_store")),
	}
}

// Ensure PostgresRecoveryStore implements store.RecoveryStore interface
var _ store.RecoveryStore = (*PostgresRecoveryStore)(nil)

// Get implements store.RecoveryStore.Get
// Returns store.ErrRecoveryStateNotFound if no baseline has been seeded.
func (s *PostgresRecoveryStore) Get(ctx context.Context, userID uuid.UUID) (*domain.RecoveryState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, value, has_baseline, last_update_at, updated_at
		FROM recovery_states
		WHERE user_id = $1
	`

	var state domain.RecoveryState
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&state.UserID,
		&state.Value,
		&state.HasBaseline,
		&state.LastUpdateAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("recovery state not found",
				slog.String("user_id", userID.String()))
			return nil, store.ErrRecoveryStateNotFound
		}
		log.Error("failed to get recovery state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return &state, nil
}

// Upsert implements store.RecoveryStore.Upsert
// First write inserts the row; later writes replace value and timestamps.
func (s *PostgresRecoveryStore) Upsert(ctx context.Context, state *domain.RecoveryState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("recovery state validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return err
	}

	state.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO recovery_states (user_id, value, has_baseline, last_update_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET value = EXCLUDED.value,
		    has_baseline = EXCLUDED.has_baseline,
		    last_update_at = EXCLUDED.last_update_at,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.Value,
		state.HasBaseline,
		state.LastUpdateAt,
		state.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert recovery state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return MapError(err)
	}

	log.Debug("recovery state upserted",
		slog.String("user_id", state.UserID.String()),
		slog.Float64("value", state.Value))
	return nil
}

// WithTx implements store.RecoveryStore.WithTx
// It returns a new RecoveryStore instance running on the given transaction.
func (s *PostgresRecoveryStore) WithTx(tx *sql.Tx) store.RecoveryStore {
	return &PostgresRecoveryStore{
		db:     tx,
		logger: s.logger,
	}
}
