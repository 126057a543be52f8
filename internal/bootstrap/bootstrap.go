// Package bootstrap builds the core services from configuration. Every
// binary wires the same zone source, directions client and scorer.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samirrijal/saferoute/internal/adapters/directions"
	"github.com/samirrijal/saferoute/internal/adapters/geojson"
	"github.com/samirrijal/saferoute/internal/adapters/memory"
	"github.com/samirrijal/saferoute/internal/adapters/postgres"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/scoring"
	"github.com/samirrijal/saferoute/internal/pkg/config"
)

// ZoneStore is the zone catalog selected by zones.source.
type ZoneStore struct {
	Repo ports.ZoneRepository
	// DB is set only for the postgres source.
	DB *postgres.DB
}

// Close releases the database pool, if any.
func (z *ZoneStore) Close() {
	if z.DB != nil {
		z.DB.Close()
	}
}

// OpenZones opens the configured zone catalog.
func OpenZones(ctx context.Context, cfg *config.Config) (*ZoneStore, error) {
	switch cfg.Zones.Source {
	case config.ZoneSourceStatic, "":
		catalog := memory.StaticCatalog()
		slog.Info("zone catalog loaded", "source", config.ZoneSourceStatic, "zones", catalog.Len())
		return &ZoneStore{Repo: catalog}, nil

	case config.ZoneSourceGeoJSON:
		catalog, err := geojson.LoadFile(cfg.Zones.File)
		if err != nil {
			return nil, err
		}
		slog.Info("zone catalog loaded", "source", config.ZoneSourceGeoJSON, "file", cfg.Zones.File, "zones", catalog.Len())
		return &ZoneStore{Repo: catalog}, nil

	case config.ZoneSourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		slog.Info("zone catalog connected", "source", config.ZoneSourcePostgres, "host", cfg.Database.Host)
		return &ZoneStore{Repo: postgres.NewZoneRepo(db), DB: db}, nil

	default:
		return nil, fmt.Errorf("unknown zone source %q", cfg.Zones.Source)
	}
}

// Directions builds the directions provider. It returns nil when no API key
// is configured so callers report the provider as unavailable.
func Directions(cfg config.DirectionsConfig) ports.DirectionsProvider {
	if cfg.APIKey == "" {
		slog.Warn("directions api key not configured, route planning disabled")
		return nil
	}
	return directions.NewClient(cfg.APIKey,
		directions.WithBaseURL(cfg.BaseURL),
		directions.WithMode(cfg.Mode),
		directions.WithTimeout(time.Duration(cfg.Timeout)*time.Second),
		directions.WithRateLimit(cfg.RateLimit),
	)
}

// Scorer builds a scorer from the configured weights.
func Scorer(cfg config.ScoringConfig) (*scoring.Scorer, error) {
	return scoring.New(cfg.Weights(), scoring.WithWorkers(cfg.Workers))
}
