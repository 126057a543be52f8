package geospatial

import (
	"math"
	"testing"
)

func TestPlanarDegrees(t *testing.T) {
	if d := PlanarDegrees(13.07, 80.21, 13.07, 80.21); d != 0 {
		t.Errorf("expected 0 for identical points, got %v", d)
	}
	d := PlanarDegrees(0, 0, 0.003, 0.004)
	if math.Abs(d-0.005) > 1e-12 {
		t.Errorf("expected 0.005, got %v", d)
	}
	if PlanarDegrees(1, 2, 3, 4) != PlanarDegrees(3, 4, 1, 2) {
		t.Error("distance should be symmetric")
	}
}

func TestPlanarDegrees_IgnoresLatitudeShrink(t *testing.T) {
	// 0.01 degrees of longitude is the same planar distance at the equator
	// and at 60N, even though the ground distance halves.
	eq := PlanarDegrees(0, 0, 0, 0.01)
	north := PlanarDegrees(60, 0, 60, 0.01)
	if math.Abs(eq-north) > 1e-12 {
		t.Errorf("planar distance should not depend on latitude: %v vs %v", eq, north)
	}
	if Haversine(60, 0, 60, 0.01) >= Haversine(0, 0, 0, 0.01) {
		t.Error("haversine should shrink with latitude")
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	d := Haversine(0, 0, 1, 0)
	if d < 111000 || d > 111400 {
		t.Errorf("expected ~111.2 km, got %.0f m", d)
	}
}

func TestBoundingBox_ContainsCenter(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(13.07, 80.21, 1000)
	if !(minLat < 13.07 && maxLat > 13.07 && minLon < 80.21 && maxLon > 80.21) {
		t.Errorf("box does not contain its center: %v %v %v %v", minLat, minLon, maxLat, maxLon)
	}
}

func TestBoundingBox_ClampsAtPole(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(90, 10, 5000)
	if maxLat != 90 || minLat >= 90 {
		t.Errorf("unexpected latitude range %v..%v", minLat, maxLat)
	}
	if minLon != -180 || maxLon != 180 {
		t.Errorf("expected full longitude range at the pole, got %v..%v", minLon, maxLon)
	}
}
