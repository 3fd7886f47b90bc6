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

// PostgresSnapshotStore implements the store.SnapshotStore interface
// using a PostgreSQL database as the storage backend.
//
// The daily_snapshots table has a primary key on (user_id, snapshot_date),
// and Commit is written as a single conditional upsert against it. That makes
// the once-per-day rule hold under concurrent callers without any advisory
// locking: whichever writer lands first wins, and the loser's conflicting
// update is suppressed by the WHERE clause rather than overwriting the day.
type PostgresSnapshotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSnapshotStore creates a new PostgreSQL implementation of the
// SnapshotStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresSnapshotStore(db store.DBTX, logger *slog.Logger) *PostgresSnapshotStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSnapshotStore{
		db:     db,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}
}

// Ensure PostgresSnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*PostgresSnapshotStore)(nil)

const snapshotColumns = `user_id, snapshot_date, recovery_value, low_recovery_streak, created_at, updated_at`

// GetByDate implements store.SnapshotStore.GetByDate
// Returns store.ErrSnapshotNotFound if no snapshot exists for that day.
func (s *PostgresSnapshotStore) GetByDate(
	ctx context.Context,
	userID uuid.UUID,
	date domain.LocalDate,
) (*domain.DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = $1 AND snapshot_date = $2
	`
	return s.getOne(ctx, query, userID, date.String())
}

// GetLatest implements store.SnapshotStore.GetLatest
// Returns store.ErrSnapshotNotFound if the user has no snapshots at all.
func (s *PostgresSnapshotStore) GetLatest(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = $1
		ORDER BY snapshot_date DESC
		LIMIT 1
	`
	return s.getOne(ctx, query, userID)
}

// GetLatestBefore implements store.SnapshotStore.GetLatestBefore
// Returns store.ErrSnapshotNotFound if no earlier snapshot exists.
func (s *PostgresSnapshotStore) GetLatestBefore(
	ctx context.Context,
	userID uuid.UUID,
	date domain.LocalDate,
) (*domain.DailySnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = $1 AND snapshot_date < $2
		ORDER BY snapshot_date DESC
		LIMIT 1
	`
	return s.getOne(ctx, query, userID, date.String())
}

// ListRange implements store.SnapshotStore.ListRange
// Snapshots are returned oldest first.
func (s *PostgresSnapshotStore) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to domain.LocalDate,
) ([]*domain.DailySnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + snapshotColumns + `
		FROM daily_snapshots
		WHERE user_id = $1 AND snapshot_date >= $2 AND snapshot_date <= $3
		ORDER BY snapshot_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		log.Error("failed to query snapshots",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	snapshots := []*domain.DailySnapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshotRow(rows.Scan)
		if err != nil {
			log.Error("failed to scan snapshot row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating snapshot rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return snapshots, nil
}

// Commit implements store.SnapshotStore.Commit
//
// The statement inserts the day's row, and on conflict updates it only while
// the stored recovery_value is still NULL. A snapshot that already holds a
// real value is therefore immutable no matter how many concurrent writers
// race on the same day. The returned bool reports whether this call's row
// made it in.
func (s *PostgresSnapshotStore) Commit(ctx context.Context, snapshot *domain.DailySnapshot) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := snapshot.Validate(); err != nil {
		log.Warn("snapshot validation failed during commit",
			slog.String("error", err.Error()),
			slog.String("user_id", snapshot.UserID.String()),
			slog.String("date", snapshot.Date.String()))
		return false, err
	}

	snapshot.UpdatedAt = time.Now().UTC()

	var value sql.NullFloat64
	if snapshot.RecoveryValue != nil {
		value = sql.NullFloat64{Float64: *snapshot.RecoveryValue, Valid: true}
	}

	query := `
		INSERT INTO daily_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, snapshot_date) DO UPDATE
		SET recovery_value = EXCLUDED.recovery_value,
		    low_recovery_streak = EXCLUDED.low_recovery_streak,
		    updated_at = EXCLUDED.updated_at
		WHERE daily_snapshots.recovery_value IS NULL
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		snapshot.UserID,
		snapshot.Date.String(),
		value,
		snapshot.LowRecoveryStreak,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to commit snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", snapshot.UserID.String()),
			slog.String("date", snapshot.Date.String()))
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	committed := rowsAffected > 0
	if committed {
		log.Info("snapshot committed",
			slog.String("user_id", snapshot.UserID.String()),
			slog.String("date", snapshot.Date.String()),
			slog.Bool("placeholder", snapshot.IsPlaceholder()),
			slog.Int("low_recovery_streak", snapshot.LowRecoveryStreak))
	} else {
		log.Debug("snapshot commit suppressed, day already recorded",
			slog.String("user_id", snapshot.UserID.String()),
			slog.String("date", snapshot.Date.String()))
	}

	return committed, nil
}

// WithTx implements store.SnapshotStore.WithTx
// It returns a new SnapshotStore instance running on the given transaction.
func (s *PostgresSnapshotStore) WithTx(tx *sql.Tx) store.SnapshotStore {
	return &PostgresSnapshotStore{
		db:     tx,
		logger: s.logger,
	}
}

// getOne runs a single-row snapshot query, mapping sql.ErrNoRows to
// store.ErrSnapshotNotFound.
func (s *PostgresSnapshotStore) getOne(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.DailySnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, query, args...)
	snapshot, err := scanSnapshotRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSnapshotNotFound
		}
		log.Error("failed to get snapshot",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return snapshot, nil
}

// scanSnapshotRow reads one snapshot row through the given scan function,
// converting the DATE column and nullable recovery value back to their
// domain representations.
func scanSnapshotRow(scan func(dest ...any) error) (*domain.DailySnapshot, error) {
	var snapshot domain.DailySnapshot
	var date time.Time
	var value sql.NullFloat64

	err := scan(
		&snapshot.UserID,
		&date,
		&value,
		&snapshot.LowRecoveryStreak,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot.Date = domain.LocalDate{Year: date.Year(), Month: date.Month(), Day: date.Day()}
	if value.Valid {
		v := value.Float64
		snapshot.RecoveryValue = &v
	}

	return &snapshot, nil
}
