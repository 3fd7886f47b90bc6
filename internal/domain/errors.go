package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidSkillKind is returned when a skill name is not one of the
	// four known skills.
	ErrInvalidSkillKind = errors.New("invalid skill kind")

	// ErrInvalidEventType is returned when an intraday event carries an
	// unknown event type tag.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrInvalidActivityKind is returned when an activity entry carries an
	// unknown activity kind.
	ErrInvalidActivityKind = errors.New("invalid activity kind")

	// ErrValueOutOfRange is returned when a metric value falls outside the
	// [0,100] band all engine scalars live in.
	ErrValueOutOfRange = errors.New("metric value out of range")

	// ErrInvalidTimezone is returned when a client-supplied IANA timezone
	// name cannot be resolved.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
