package memory

import (
	"context"
	"math"
	"testing"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

func TestStaticCatalog(t *testing.T) {
	c := StaticCatalog()
	ctx := context.Background()

	all, err := c.List(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(staticZones) {
		t.Fatalf("expected %d zones, got %d", len(staticZones), len(all))
	}

	cat := domain.ZoneHighRisk
	risky, _ := c.List(ctx, &cat)
	if len(risky) != 2 {
		t.Fatalf("expected 2 high-risk zones, got %d", len(risky))
	}
	want := map[domain.GeoPoint]bool{{Lat: 13.07, Lon: 80.21}: true, {Lat: 13.06, Lon: 80.25}: true}
	for _, z := range risky {
		if !want[z.Center] {
			t.Errorf("unexpected high-risk center %+v", z.Center)
		}
	}

	for _, category := range domain.ZoneCategories {
		if zs, _ := c.List(ctx, &category); len(zs) == 0 {
			t.Errorf("no sample zone for category %s", category)
		}
	}
}

func TestNewCatalog_Rejects(t *testing.T) {
	good := domain.Zone{ID: "a", Center: domain.GeoPoint{Lat: 1, Lon: 1}, RadiusMeters: 10, Category: domain.ZoneCrowded}

	bad := good
	bad.Center.Lon = math.Inf(-1)
	if _, err := NewCatalog([]domain.Zone{good, bad}); err == nil {
		t.Error("expected error for non-finite center")
	}
	if _, err := NewCatalog([]domain.Zone{good, good}); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestCatalog_InBounds(t *testing.T) {
	c := StaticCatalog()
	zs, err := c.InBounds(context.Background(), domain.Bounds{MinLat: 13.065, MinLon: 80.205, MaxLat: 13.075, MaxLon: 80.215})
	if err != nil {
		t.Fatal(err)
	}
	if len(zs) != 1 || zs[0].ID != "hr-kodambakkam" {
		t.Errorf("unexpected zones in bounds: %+v", zs)
	}
}

func TestCatalog_IsolatedFromCaller(t *testing.T) {
	src := []domain.Zone{{ID: "a", Center: domain.GeoPoint{Lat: 1, Lon: 1}, RadiusMeters: 10, Category: domain.ZoneCrowded}}
	c, err := NewCatalog(src)
	if err != nil {
		t.Fatal(err)
	}
	src[0].Category = domain.ZoneHighRisk

	got, _ := c.List(context.Background(), nil)
	if got[0].Category != domain.ZoneCrowded {
		t.Error("catalog must not alias the caller's slice")
	}
	got[0].ID = "mutated"
	again, _ := c.List(context.Background(), nil)
	if again[0].ID != "a" {
		t.Error("List must return a copy")
	}
}
