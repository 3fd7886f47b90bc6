// Package wearable bridges external wearable data sources into the scoring
// engine. Physiological readings are strictly optional input; when no
// provider is configured, or a provider has nothing for the user, readiness
// falls back to its behavioral components.
package wearable

import (
	"context"

	"github.com/google/uuid"
	"github.com/lunafield/cortex-api/internal/domain"
)

// Provider fetches the latest physiological sample for a user.
type Provider interface {
	// Latest returns the most recent sample, or (nil, nil) when the
	// provider has no data for the user. Errors are reserved for transport
	// failures; "no data" is not an error.
	Latest(ctx context.Context, userID uuid.UUID) (*domain.PhysioSample, error)
}

// NoopProvider is the Provider used when no wearable integration is
// configured. It never has data.
type NoopProvider struct{}

// Ensure NoopProvider implements Provider
var _ Provider = (*NoopProvider)(nil)

// NewNoopProvider creates a provider that always reports no data.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

// Latest implements Provider.Latest.
func (p *NoopProvider) Latest(ctx context.Context, userID uuid.UUID) (*domain.PhysioSample, error) {
	return nil, nil
}

// StaticProvider serves a fixed sample, useful for tests and for manual
// entry flows where the client posts its own readings.
type StaticProvider struct {
	Sample *domain.PhysioSample
}

// Ensure StaticProvider implements Provider
var _ Provider = (*StaticProvider)(nil)

// Latest implements Provider.Latest.
func (p *StaticProvider) Latest(ctx context.Context, userID uuid.UUID) (*domain.PhysioSample, error) {
	return p.Sample, nil
}
