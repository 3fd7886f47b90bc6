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

// PostgresSkillStore implements the store.SkillStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSkillStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSkillStore creates a new PostgreSQL implementation of the
// SkillStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresSkillStore(db store.DBTX, logger *slog.Logger) *PostgresSkillStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSkillStore{
		db:     db,
		logger: logger.With(slog.String("component", "skill_store")),
	}
}

// Ensure PostgresSkillStore implements store.SkillStore interface
var _ store.SkillStore = (*PostgresSkillStore)(nil)

// GetAll implements store.SkillStore.GetAll
// Untracked skills are absent from the returned set.
func (s *PostgresSkillStore) GetAll(ctx context.Context, userID uuid.UUID) (domain.SkillSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, kind, value, last_activity_at, updated_at
		FROM skill_states
		WHERE user_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query skill states",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	set := make(domain.SkillSet, len(domain.AllSkillKinds))
	for rows.Next() {
		state, err := scanSkillState(rows)
		if err != nil {
			log.Error("failed to scan skill state row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		set[state.Kind] = state
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating skill state rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return set, nil
}

// Get implements store.SkillStore.Get
// Returns store.ErrSkillStateNotFound if the user has no row for the kind.
func (s *PostgresSkillStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.SkillKind,
) (*domain.SkillState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, kind, value, last_activity_at, updated_at
		FROM skill_states
		WHERE user_id = $1 AND kind = $2
	`

	var state domain.SkillState
	var kindStr string
	var lastActivity sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, string(kind)).Scan(
		&state.UserID,
		&kindStr,
		&state.Value,
		&lastActivity,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSkillStateNotFound
		}
		log.Error("failed to get skill state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("kind", string(kind)))
		return nil, MapError(err)
	}

	state.Kind = domain.SkillKind(kindStr)
	if lastActivity.Valid {
		state.LastActivityAt = lastActivity.Time
	}

	return &state, nil
}

// Upsert implements store.SkillStore.Upsert
// First write inserts the row; later writes replace value and timestamps.
func (s *PostgresSkillStore) Upsert(ctx context.Context, state *domain.SkillState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("skill state validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("kind", string(state.Kind)))
		return err
	}

	state.UpdatedAt = time.Now().UTC()

	// The zero time persists as NULL so "never trained" survives round trips.
	var lastActivity sql.NullTime
	if !state.LastActivityAt.IsZero() {
		lastActivity = sql.NullTime{Time: state.LastActivityAt, Valid: true}
	}

	query := `
		INSERT INTO skill_states (user_id, kind, value, last_activity_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, kind) DO UPDATE
		SET value = EXCLUDED.value,
		    last_activity_at = EXCLUDED.last_activity_at,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		string(state.Kind),
		state.Value,
		lastActivity,
		state.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert skill state",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()),
			slog.String("kind", string(state.Kind)))
		return MapError(err)
	}

	log.Debug("skill state upserted",
		slog.String("user_id", state.UserID.String()),
		slog.String("kind", string(state.Kind)),
		slog.Float64("value", state.Value))
	return nil
}

// WithTx implements store.SkillStore.WithTx
// It returns a new SkillStore instance running on the given transaction.
func (s *PostgresSkillStore) WithTx(tx *sql.Tx) store.SkillStore {
	return &PostgresSkillStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanSkillState reads one skill state row from a rows cursor.
func scanSkillState(rows *sql.Rows) (*domain.SkillState, error) {
	var state domain.SkillState
	var kindStr string
	var lastActivity sql.NullTime

	err := rows.Scan(
		&state.UserID,
		&kindStr,
		&state.Value,
		&lastActivity,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	state.Kind = domain.SkillKind(kindStr)
	if lastActivity.Valid {
		state.LastActivityAt = lastActivity.Time
	}

	return &state, nil
}
