package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// EventStore defines the interface for intraday event persistence.
// Events are append-only; nothing in the system updates or deletes one.
type EventStore interface {
	// Append saves a new intraday event.
	// Returns validation errors from the domain IntradayEvent if data is invalid.
	Append(ctx context.Context, event *domain.IntradayEvent) error

	// ListRange retrieves the user's events with occurrence times in
	// [from, to), ordered oldest first. Returns an empty slice when the
	// range is empty.
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.IntradayEvent, error)

	// WithTx returns a new EventStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) EventStore
}
