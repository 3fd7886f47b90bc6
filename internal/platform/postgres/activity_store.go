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

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the
// ActivityStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Record implements store.ActivityStore.Record
func (s *PostgresActivityStore) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("activity entry validation failed during record",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	var skill sql.NullString
	if entry.Skill != "" {
		skill = sql.NullString{String: string(entry.Skill), Valid: true}
	}

	query := `
		INSERT INTO activity_entries
			(id, user_id, kind, occurred_at, minutes, xp, skill, score, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		string(entry.Kind),
		entry.OccurredAt,
		entry.Minutes,
		entry.XP,
		skill,
		entry.Score,
		nullBytes(entry.Detail),
	)

	if err != nil {
		log.Error("failed to record activity entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return MapError(err)
	}

	log.Debug("activity entry recorded",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("kind", string(entry.Kind)))
	return nil
}

// WeeklyTotals implements store.ActivityStore.WeeklyTotals
// Kinds with no entries aggregate to zero.
func (s *PostgresActivityStore) WeeklyTotals(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (*domain.WeeklyActivity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COALESCE(SUM(xp) FILTER (WHERE kind = 'training'), 0),
			COALESCE(SUM(minutes) FILTER (WHERE kind = 'detox'), 0),
			COALESCE(SUM(minutes) FILTER (WHERE kind = 'walking'), 0)
		FROM activity_entries
		WHERE user_id = $1 AND occurred_at >= $2
	`

	var totals domain.WeeklyActivity
	err := s.db.QueryRowContext(ctx, query, userID, since).Scan(
		&totals.TrainingXP,
		&totals.DetoxMinutes,
		&totals.WalkMinutes,
	)
	if err != nil {
		log.Error("failed to aggregate weekly activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return &totals, nil
}

// TaskCompletionsSince implements store.ActivityStore.TaskCompletionsSince
// Completions are returned oldest first.
func (s *PostgresActivityStore) TaskCompletionsSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.TaskCompletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT kind, occurred_at
		FROM activity_entries
		WHERE user_id = $1 AND occurred_at >= $2 AND kind IN ('reading', 'listening')
		ORDER BY occurred_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to query task completions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	completions := []domain.TaskCompletion{}
	for rows.Next() {
		var kind string
		var completion domain.TaskCompletion
		if err := rows.Scan(&kind, &completion.CompletedAt); err != nil {
			log.Error("failed to scan task completion row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		completion.Kind = domain.ActivityKind(kind)
		completions = append(completions, completion)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task completion rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return completions, nil
}

// RecentSlowGameScores implements store.ActivityStore.RecentSlowGameScores
// The newest limit scores are selected, then returned oldest first so the
// caller can apply recency discounting from the end of the slice.
func (s *PostgresActivityStore) RecentSlowGameScores(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT score FROM (
			SELECT score, occurred_at
			FROM activity_entries
			WHERE user_id = $1 AND kind = 'training' AND skill IN ('critical_thinking', 'insight')
			ORDER BY occurred_at DESC
			LIMIT $2
		) recent
		ORDER BY occurred_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to query recent game scores",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	scores := []float64{}
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			log.Error("failed to scan game score row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		scores = append(scores, score)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating game score rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return scores, nil
}

// LastSlowGameAt implements store.ActivityStore.LastSlowGameAt
// The zero time, with no error, means the user has no slow-system entries.
func (s *PostgresActivityStore) LastSlowGameAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT occurred_at
		FROM activity_entries
		WHERE user_id = $1 AND kind = 'training' AND skill IN ('critical_thinking', 'insight')
		ORDER BY occurred_at DESC
		LIMIT 1
	`

	var at time.Time
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		log.Error("failed to get last slow game time",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return time.Time{}, MapError(err)
	}

	return at, nil
}

// WithTx implements store.ActivityStore.WithTx
// It returns a new ActivityStore instance running on the given transaction.
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
