// Package memory holds zone catalogs that live entirely in process memory.
package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Catalog is an immutable in-memory zone catalog. It implements
// ports.ZoneRepository and is safe for concurrent reads.
type Catalog struct {
	zones []domain.Zone
}

// NewCatalog validates zones and returns a catalog holding a private copy.
// Duplicate IDs are rejected.
func NewCatalog(zones []domain.Zone) (*Catalog, error) {
	seen := make(map[string]bool, len(zones))
	var errs []error
	for i, z := range zones {
		if err := z.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("zone %d: %w", i, err))
			continue
		}
		if seen[z.ID] {
			errs = append(errs, fmt.Errorf("zone %d: duplicate id %q", i, z.ID))
		}
		seen[z.ID] = true
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid zone catalog: %w", errors.Join(errs...))
	}

	own := make([]domain.Zone, len(zones))
	copy(own, zones)
	for i := range own {
		own[i].Distance = nil
	}
	return &Catalog{zones: own}, nil
}

// List returns every zone, or only those of category.
func (c *Catalog) List(_ context.Context, category *domain.ZoneCategory) ([]domain.Zone, error) {
	return domain.FilterZones(c.zones, category), nil
}

// InBounds returns zones whose center lies inside b.
func (c *Catalog) InBounds(_ context.Context, b domain.Bounds) ([]domain.Zone, error) {
	var out []domain.Zone
	for _, z := range c.zones {
		if b.Contains(z.Center) {
			out = append(out, z)
		}
	}
	return out, nil
}

// Len reports the number of zones.
func (c *Catalog) Len() int { return len(c.zones) }
