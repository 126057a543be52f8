package ports

import (
	"context"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// DirectionsProvider fetches candidate routes between two places.
// Any transport or provider failure is reported as domain.ErrProviderUnavailable.
type DirectionsProvider interface {
	Routes(ctx context.Context, origin, destination string) ([]domain.Route, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishAssessment(ctx context.Context, event *domain.AssessmentEvent) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
