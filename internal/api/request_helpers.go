package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/api/shared"
	"github.com/lunafield/cortex-api/internal/domain"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireUserID extracts the authenticated user ID or writes a 401 and
// reports false.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// parseOccurredAt parses an optional RFC 3339 timestamp from a request
// body. An empty string returns the zero time, which the service replaces
// with its own clock.
func parseOccurredAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: occurred_at must be RFC 3339", domain.ErrInvalidFormat)
	}
	return t, nil
}

// parseDateRange reads the from/to query parameters as ISO calendar dates.
// Both are required for snapshot range queries.
func parseDateRange(r *http.Request) (domain.LocalDate, domain.LocalDate, error) {
	from, err := domain.ParseLocalDate(r.URL.Query().Get("from"))
	if err != nil {
		return domain.LocalDate{}, domain.LocalDate{}, err
	}
	to, err := domain.ParseLocalDate(r.URL.Query().Get("to"))
	if err != nil {
		return domain.LocalDate{}, domain.LocalDate{}, err
	}
	return from, to, nil
}

// parseTimeRange reads the from/to query parameters as RFC 3339 timestamps.
// Both are required for event range queries.
func parseTimeRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be RFC 3339", domain.ErrInvalidFormat)
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be RFC 3339", domain.ErrInvalidFormat)
	}
	return from, to, nil
}
