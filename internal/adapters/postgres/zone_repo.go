package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// ZoneRepo implements ports.ZoneRepository over the zones table. The table
// is maintained by an external risk-data feed; this service only reads it.
type ZoneRepo struct {
	db *DB
}

// NewZoneRepo creates a new ZoneRepo.
func NewZoneRepo(db *DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

const zoneColumns = `
	zone_id, COALESCE(name, ''), category, radius_meters,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lon`

// List returns every active zone, or only those of category.
func (r *ZoneRepo) List(ctx context.Context, category *domain.ZoneCategory) ([]domain.Zone, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category == nil {
		rows, err = r.db.Pool.Query(ctx, `SELECT `+zoneColumns+` FROM zones WHERE active ORDER BY zone_id`)
	} else {
		rows, err = r.db.Pool.Query(ctx, `SELECT `+zoneColumns+` FROM zones WHERE active AND category = $1 ORDER BY zone_id`, string(*category))
	}
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	return scanZones(rows)
}

// InBounds returns active zones whose center falls inside b, using the
// GiST index on location.
func (r *ZoneRepo) InBounds(ctx context.Context, b domain.Bounds) ([]domain.Zone, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+zoneColumns+`
		FROM zones
		WHERE active
		  AND location::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY zone_id
	`, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
	if err != nil {
		return nil, fmt.Errorf("query zones in bounds: %w", err)
	}
	return scanZones(rows)
}

// Upsert writes zones in one batch. Only cmd/migrate seeding uses it.
func (r *ZoneRepo) Upsert(ctx context.Context, zones []domain.Zone) error {
	batch := &pgx.Batch{}
	for _, z := range zones {
		batch.Queue(`
			INSERT INTO zones (zone_id, name, category, radius_meters, location)
			VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography)
			ON CONFLICT (zone_id) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category,
			    radius_meters = EXCLUDED.radius_meters, location = EXCLUDED.location,
			    active = TRUE, updated_at = now()
		`, z.ID, z.Name, string(z.Category), z.RadiusMeters, z.Center.Lon, z.Center.Lat)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range zones {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func scanZones(rows pgx.Rows) ([]domain.Zone, error) {
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		var (
			z   domain.Zone
			cat string
		)
		if err := rows.Scan(&z.ID, &z.Name, &cat, &z.RadiusMeters, &z.Center.Lat, &z.Center.Lon); err != nil {
			return nil, err
		}
		z.Category = domain.ZoneCategory(cat)
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("invalid zone row: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
