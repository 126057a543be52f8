package geospatial

import "math"

// DefaultProximityDegrees is the reference proximity threshold in coordinate
// degrees, roughly 1.1 km at the equator.
const DefaultProximityDegrees = 0.01

// PlanarDegrees returns the Euclidean distance between two points treated as
// planar (lat, lon) pairs, in degrees. It is not a geodesic distance: a
// degree of longitude shrinks with latitude. Proximity thresholds used with
// it are expressed in the same degree units.
func PlanarDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Hypot(lat1-lat2, lon1-lon2)
}
