// Package geojson reads zone catalogs from GeoJSON and renders scored
// routes and zones as GeoJSON for map clients.
package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/samirrijal/saferoute/internal/adapters/memory"
	"github.com/samirrijal/saferoute/internal/core/domain"
)

// LoadFile reads a FeatureCollection of Point features and builds a
// validated in-memory catalog from it.
func LoadFile(path string) (*memory.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geojson: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	zones, err := DecodeZones(f)
	if err != nil {
		return nil, eris.Wrapf(err, "geojson: load %s", path)
	}
	return memory.NewCatalog(zones)
}

// DecodeZones parses zones from a FeatureCollection. Each feature must be a
// Point carrying "category" and "radius_meters" properties; "name" and "id"
// are optional. Coordinates are GeoJSON order (lon, lat).
func DecodeZones(r io.Reader) ([]domain.Zone, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: read")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geojson: parse feature collection")
	}

	zones := make([]domain.Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		z, err := featureToZone(i, f)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func featureToZone(i int, f *geojson.Feature) (domain.Zone, error) {
	pt, ok := f.Geometry.(*geom.Point)
	if !ok {
		return domain.Zone{}, eris.Errorf("geojson: feature %d: geometry must be a Point", i)
	}

	catRaw, _ := f.Properties["category"].(string)
	cat, err := domain.ParseZoneCategory(catRaw)
	if err != nil {
		return domain.Zone{}, eris.Wrapf(err, "geojson: feature %d", i)
	}

	radius, ok := f.Properties["radius_meters"].(float64)
	if !ok {
		return domain.Zone{}, eris.Errorf("geojson: feature %d: radius_meters must be a number", i)
	}

	id := f.ID
	if id == "" {
		if s, ok := f.Properties["id"].(string); ok {
			id = s
		}
	}
	if id == "" {
		id = fmt.Sprintf("zone-%d", i)
	}
	name, _ := f.Properties["name"].(string)

	return domain.Zone{
		ID:           id,
		Name:         name,
		Center:       domain.GeoPoint{Lat: pt.Y(), Lon: pt.X()},
		RadiusMeters: radius,
		Category:     cat,
	}, nil
}

// EncodeZones renders zones as a FeatureCollection of Points.
func EncodeZones(zones []domain.Zone) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(zones))}
	for _, z := range zones {
		props := map[string]interface{}{
			"name":          z.Name,
			"category":      string(z.Category),
			"radius_meters": z.RadiusMeters,
		}
		if z.Distance != nil {
			props["distance"] = *z.Distance
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         z.ID,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{z.Center.Lon, z.Center.Lat}),
			Properties: props,
		})
	}
	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: encode zones")
	}
	return data, nil
}

// EncodeRoutes renders scored routes as LineStrings styled by tier, plus a
// Point feature per route at its score marker.
func EncodeRoutes(routes []domain.ScoredRoute) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, 2*len(routes))}
	for _, sr := range routes {
		props := map[string]interface{}{
			"rank":     sr.Rank,
			"summary":  sr.Route.Summary,
			"fallback": sr.Fallback,
		}
		if sr.Assessment != nil {
			props["score"] = sr.Assessment.Score
			props["tier"] = string(sr.Tier)
			props["color"] = sr.Color
			props["label"] = sr.Label
			props["well_lit_delta"] = sr.Assessment.WellLitDelta
			props["crowded_count"] = sr.Assessment.CrowdedCount
			props["high_risk_count"] = sr.Assessment.HighRiskCount
		}
		if sr.Error != "" {
			props["error"] = sr.Error
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         fmt.Sprintf("route-%d", sr.Route.Index),
			Geometry:   routeGeometry(sr.Route.Waypoints),
			Properties: props,
		})

		if sr.MarkerPosition != nil {
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:       fmt.Sprintf("marker-%d", sr.Route.Index),
				Geometry: geom.NewPointFlat(geom.XY, []float64{sr.MarkerPosition.Lon, sr.MarkerPosition.Lat}),
				Properties: map[string]interface{}{
					"label": sr.Label,
					"color": sr.Color,
				},
			})
		}
	}
	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: encode routes")
	}
	return data, nil
}

// routeGeometry returns a LineString for two or more waypoints. A single
// waypoint becomes a Point and an empty route has no geometry, since a
// LineString needs at least two positions.
func routeGeometry(waypoints []domain.GeoPoint) geom.T {
	switch len(waypoints) {
	case 0:
		return nil
	case 1:
		return geom.NewPointFlat(geom.XY, []float64{waypoints[0].Lon, waypoints[0].Lat})
	}
	flat := make([]float64, 0, 2*len(waypoints))
	for _, wp := range waypoints {
		flat = append(flat, wp.Lon, wp.Lat)
	}
	return geom.NewLineStringFlat(geom.XY, flat)
}
