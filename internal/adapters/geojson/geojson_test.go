package geojson

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

const catalogJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"id": "hr-1",
			"geometry": {"type": "Point", "coordinates": [80.21, 13.07]},
			"properties": {"category": "HighRisk", "radius_meters": 1000, "name": "Underpass"}
		},
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [80.234, 13.04]},
			"properties": {"category": "crowded", "radius_meters": 700}
		}
	]
}`

func TestDecodeZones(t *testing.T) {
	zones, err := DecodeZones(strings.NewReader(catalogJSON))
	require.NoError(t, err)
	require.Len(t, zones, 2)

	assert.Equal(t, "hr-1", zones[0].ID)
	assert.Equal(t, "Underpass", zones[0].Name)
	assert.Equal(t, domain.ZoneHighRisk, zones[0].Category)
	assert.Equal(t, domain.GeoPoint{Lat: 13.07, Lon: 80.21}, zones[0].Center)
	assert.Equal(t, 1000.0, zones[0].RadiusMeters)

	assert.Equal(t, "zone-1", zones[1].ID)
	assert.Equal(t, domain.ZoneCrowded, zones[1].Category)
}

func TestDecodeZones_Rejects(t *testing.T) {
	tests := map[string]string{
		"not a point": `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"category":"crowded","radius_meters":5}}]}`,
		"bad category": `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"category":"flooded","radius_meters":5}}]}`,
		"no radius":    `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"category":"crowded"}}]}`,
		"not json":     `{`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeZones(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_ValidatesCatalog(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "zones.geojson")
	require.NoError(t, os.WriteFile(good, []byte(catalogJSON), 0o600))
	c, err := LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	bad := filepath.Join(dir, "bad.geojson")
	require.NoError(t, os.WriteFile(bad, []byte(strings.Replace(catalogJSON, `"radius_meters": 700`, `"radius_meters": 0`, 1)), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.geojson"))
	assert.Error(t, err)
}

func TestEncodeRoutes(t *testing.T) {
	marker := domain.GeoPoint{Lat: 13.07, Lon: 80.21}
	routes := []domain.ScoredRoute{
		{
			Rank:           1,
			Route:          domain.Route{Index: 0, Waypoints: []domain.GeoPoint{{Lat: 13.06, Lon: 80.2}, marker}},
			Assessment:     &domain.SafetyAssessment{Score: 70, HighRiskCount: 1},
			Tier:           domain.TierModerate,
			Color:          "#FFA500",
			Label:          "Score: 70",
			MarkerPosition: &marker,
		},
	}

	data, err := EncodeRoutes(routes)
	require.NoError(t, err)

	var out struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "FeatureCollection", out.Type)
	require.Len(t, out.Features, 2)

	line := out.Features[0]
	assert.Equal(t, "LineString", line.Geometry.Type)
	assert.JSONEq(t, `[[80.2,13.06],[80.21,13.07]]`, string(line.Geometry.Coordinates))
	assert.Equal(t, "#FFA500", line.Properties["color"])
	assert.Equal(t, float64(70), line.Properties["score"])

	pt := out.Features[1]
	assert.Equal(t, "Point", pt.Geometry.Type)
	assert.Equal(t, "Score: 70", pt.Properties["label"])
}

func TestEncodeRoutes_ShortRoutes(t *testing.T) {
	routes := []domain.ScoredRoute{
		{Rank: 1, Route: domain.Route{Index: 0, Waypoints: []domain.GeoPoint{{Lat: 13.07, Lon: 80.21}}}},
		{Rank: 2, Route: domain.Route{Index: 1}, Error: "route has no waypoints"},
	}

	data, err := EncodeRoutes(routes)
	require.NoError(t, err)

	var out struct {
		Features []struct {
			ID       string          `json:"id"`
			Geometry json.RawMessage `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Features, 2)

	assert.Equal(t, "route-0", out.Features[0].ID)
	assert.JSONEq(t, `{"type":"Point","coordinates":[80.21,13.07]}`, string(out.Features[0].Geometry))

	assert.Equal(t, "route-1", out.Features[1].ID)
	assert.Equal(t, "null", string(out.Features[1].Geometry))
}

func TestEncodeZones_RoundTrip(t *testing.T) {
	zones, err := DecodeZones(strings.NewReader(catalogJSON))
	require.NoError(t, err)

	data, err := EncodeZones(zones)
	require.NoError(t, err)

	again, err := DecodeZones(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, zones, again)
}
