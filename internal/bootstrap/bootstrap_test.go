package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/saferoute/internal/core/scoring"
	"github.com/samirrijal/saferoute/internal/pkg/config"
)

const zonesGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"id": "hr-1",
			"geometry": {"type": "Point", "coordinates": [80.21, 13.07]},
			"properties": {"category": "high_risk", "radius_meters": 1000}
		}
	]
}`

func TestOpenZones_Static(t *testing.T) {
	store, err := OpenZones(context.Background(), &config.Config{Zones: config.ZonesConfig{Source: config.ZoneSourceStatic}})
	require.NoError(t, err)
	defer store.Close()

	zones, err := store.Repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, zones)
	assert.Nil(t, store.DB)
}

func TestOpenZones_GeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(path, []byte(zonesGeoJSON), 0o600))

	store, err := OpenZones(context.Background(), &config.Config{
		Zones: config.ZonesConfig{Source: config.ZoneSourceGeoJSON, File: path},
	})
	require.NoError(t, err)

	zones, err := store.Repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, 13.07, zones[0].Center.Lat)
}

func TestOpenZones_Errors(t *testing.T) {
	_, err := OpenZones(context.Background(), &config.Config{Zones: config.ZonesConfig{Source: "s3"}})
	assert.Error(t, err)

	_, err = OpenZones(context.Background(), &config.Config{
		Zones: config.ZonesConfig{Source: config.ZoneSourceGeoJSON, File: filepath.Join(t.TempDir(), "missing.geojson")},
	})
	assert.Error(t, err)
}

func TestDirections_NoKey(t *testing.T) {
	assert.Nil(t, Directions(config.DirectionsConfig{}))
	assert.NotNil(t, Directions(config.DirectionsConfig{APIKey: "k", Mode: "walking", Timeout: 5, RateLimit: 1}))
}

func TestScorer(t *testing.T) {
	w := scoring.DefaultWeights()
	s, err := Scorer(config.ScoringConfig{
		ProximityThreshold: w.ProximityThreshold,
		HighRiskPenalty:    40,
		LowLightDelta:      w.LowLightDelta,
		CrowdedBonus:       w.CrowdedBonus,
		FallbackScore:      w.FallbackScore,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, s.Weights().HighRiskPenalty)

	_, err = Scorer(config.ScoringConfig{ProximityThreshold: -1})
	assert.Error(t, err)
}
