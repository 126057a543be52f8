package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/saferoute/internal/adapters/geojson"
	"github.com/samirrijal/saferoute/internal/adapters/memory"
	"github.com/samirrijal/saferoute/internal/adapters/postgres"
	"github.com/samirrijal/saferoute/internal/adapters/valkey"
	"github.com/samirrijal/saferoute/internal/core/usecases"
	"github.com/samirrijal/saferoute/internal/pkg/config"
)

var upFiles = []string{
	"migrations/001_init_extensions.sql",
	"migrations/002_zones.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down|seed>")
	}

	cfg, err := config.Load("saferoute-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		runMigrations(ctx, db)
	case "down":
		if _, err := db.Pool.Exec(ctx, "DROP TABLE IF EXISTS zones"); err != nil {
			log.Fatalf("drop zones: %v", err)
		}
		log.Println("zones table dropped")
	case "seed":
		seed(ctx, db, cfg.Zones.File)
		evictZoneCache(ctx, db, cfg.Valkey.Addr)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, db *postgres.DB) {
	for _, f := range upFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}

// seed loads zones from a GeoJSON file, or the built-in catalog when no file
// is configured.
func seed(ctx context.Context, db *postgres.DB, file string) {
	catalog := memory.StaticCatalog()
	if file != "" {
		c, err := geojson.LoadFile(file)
		if err != nil {
			log.Fatalf("load %s: %v", file, err)
		}
		catalog = c
	}

	zones, err := catalog.List(ctx, nil)
	if err != nil {
		log.Fatalf("list zones: %v", err)
	}
	if err := postgres.NewZoneRepo(db).Upsert(ctx, zones); err != nil {
		log.Fatalf("upsert zones: %v", err)
	}
	log.Printf("seeded %d zones", len(zones))
}

// evictZoneCache drops cached zone listings so the API serves the new
// catalog immediately instead of after the TTL.
func evictZoneCache(ctx context.Context, db *postgres.DB, addr string) {
	vc, err := valkey.New(addr, "saferoute")
	if err != nil {
		log.Printf("valkey unavailable, cached zones expire on their own: %v", err)
		return
	}
	defer vc.Close()

	svc := usecases.NewZoneService(postgres.NewZoneRepo(db), vc, 0)
	if err := svc.InvalidateCatalog(ctx); err != nil {
		log.Printf("evict zone cache: %v", err)
		return
	}
	log.Println("zone cache evicted")
}
