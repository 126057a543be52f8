package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
	"github.com/samirrijal/saferoute/internal/pkg/metrics"
)

// MaxNearbyRadius caps Nearby lookups, in meters.
const MaxNearbyRadius = 50000

// ZoneService fronts the zone catalog with a read-through cache.
type ZoneService struct {
	zones ports.ZoneRepository
	cache ports.CacheService
	ttl   int
}

// NewZoneService creates a new ZoneService. cache may be nil.
func NewZoneService(zones ports.ZoneRepository, cache ports.CacheService, ttlSeconds int) *ZoneService {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &ZoneService{zones: zones, cache: cache, ttl: ttlSeconds}
}

// List returns the catalog, optionally restricted to one category.
func (s *ZoneService) List(ctx context.Context, category *domain.ZoneCategory) ([]domain.Zone, error) {
	key := zoneListKey(category)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var zones []domain.Zone
			if err := json.Unmarshal(data, &zones); err == nil {
				metrics.CacheHits.WithLabelValues("zones").Inc()
				return zones, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
		metrics.CacheMisses.WithLabelValues("zones").Inc()
	}

	zones, err := s.zones.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(zones); err == nil {
			_ = s.cache.Set(ctx, key, data, s.ttl)
		}
	}
	return zones, nil
}

// InvalidateCatalog evicts every cached listing. Call it after the catalog
// has been rewritten.
func (s *ZoneService) InvalidateCatalog(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	var errs []error
	if err := s.cache.Delete(ctx, zoneListKey(nil)); err != nil {
		errs = append(errs, err)
	}
	for _, cat := range domain.ZoneCategories {
		if err := s.cache.Delete(ctx, zoneListKey(&cat)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalidate zone cache: %w", err)
	}
	return nil
}

func zoneListKey(category *domain.ZoneCategory) string {
	if category == nil {
		return "zones:list:all"
	}
	return "zones:list:" + string(*category)
}

// Nearby returns zones whose center is within radiusMeters of p along the
// great circle, nearest first, with Distance populated.
func (s *ZoneService) Nearby(ctx context.Context, p domain.GeoPoint, radiusMeters float64) ([]domain.Zone, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !(radiusMeters > 0) || radiusMeters > MaxNearbyRadius {
		return nil, fmt.Errorf("%w: radius must be in (0, %d] meters", domain.ErrInvalidInput, MaxNearbyRadius)
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(p.Lat, p.Lon, radiusMeters)
	candidates, err := s.zones.InBounds(ctx, domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon})
	if err != nil {
		return nil, fmt.Errorf("zones in bounds: %w", err)
	}

	out := make([]domain.Zone, 0, len(candidates))
	for _, z := range candidates {
		d := geospatial.Haversine(p.Lat, p.Lon, z.Center.Lat, z.Center.Lon)
		if d > radiusMeters {
			continue
		}
		z.Distance = &d
		out = append(out, z)
	}
	sort.SliceStable(out, func(i, j int) bool { return *out[i].Distance < *out[j].Distance })
	return out, nil
}
