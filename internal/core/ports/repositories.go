package ports

import (
	"context"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// ZoneRepository is a read-only zone catalog.
type ZoneRepository interface {
	// List returns every zone, or only those of category when it is non-nil.
	List(ctx context.Context, category *domain.ZoneCategory) ([]domain.Zone, error)
	// InBounds returns zones whose center lies inside the box.
	InBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error)
}
