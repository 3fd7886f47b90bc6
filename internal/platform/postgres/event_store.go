package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
	"github.com/lunafield/cortex-api/internal/platform/logger"
	"github.com/lunafield/cortex-api/internal/store"
)

// PostgresEventStore implements the store.EventStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEventStore creates a new PostgreSQL implementation of the
// EventStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresEventStore(db store.DBTX, logger *slog.Logger) *PostgresEventStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "event_store")),
	}
}

// Ensure PostgresEventStore implements store.EventStore interface
var _ store.EventStore = (*PostgresEventStore)(nil)

// Append implements store.EventStore.Append
// Returns store.ErrInvalidEntity when the user ID has no matching user row.
func (s *PostgresEventStore) Append(ctx context.Context, event *domain.IntradayEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("event validation failed during append",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	query := `
		INSERT INTO intraday_events
			(id, user_id, occurred_at, event_type, recovery, sharpness, readiness, reasoning, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.UserID,
		event.OccurredAt,
		string(event.Type),
		nullFloat(event.Metrics.Recovery),
		nullFloat(event.Metrics.Sharpness),
		nullFloat(event.Metrics.Readiness),
		nullFloat(event.Metrics.Reasoning),
		nullBytes(event.Detail),
	)

	if err != nil {
		log.Error("failed to append intraday event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.String("user_id", event.UserID.String()))
		return MapError(err)
	}

	log.Debug("intraday event appended",
		slog.String("event_id", event.ID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("type", string(event.Type)))
	return nil
}

// ListRange implements store.EventStore.ListRange
// Events are returned oldest first; the range is [from, to).
func (s *PostgresEventStore) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]*domain.IntradayEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, occurred_at, event_type, recovery, sharpness, readiness, reasoning, detail
		FROM intraday_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		log.Error("failed to query intraday events",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	events := []*domain.IntradayEvent{}
	for rows.Next() {
		var event domain.IntradayEvent
		var eventType string
		var recovery, sharpness, readiness, reasoning sql.NullFloat64
		var detail []byte

		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.OccurredAt,
			&eventType,
			&recovery,
			&sharpness,
			&readiness,
			&reasoning,
			&detail,
		)
		if err != nil {
			log.Error("failed to scan intraday event row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}

		event.Type = domain.EventType(eventType)
		event.Metrics = domain.MetricCapture{
			Recovery:  floatPtr(recovery),
			Sharpness: floatPtr(sharpness),
			Readiness: floatPtr(readiness),
			Reasoning: floatPtr(reasoning),
		}
		event.Detail = detail
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating intraday event rows",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return events, nil
}

// WithTx implements store.EventStore.WithTx
// It returns a new EventStore instance running on the given transaction.
func (s *PostgresEventStore) WithTx(tx *sql.Tx) store.EventStore {
	return &PostgresEventStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullFloat converts an optional metric to its SQL representation.
func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// floatPtr converts a scanned nullable column back to an optional metric.
func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// nullBytes maps an empty payload to NULL rather than an empty JSON value.
func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
