package domain

// Route is one candidate path returned by a directions provider. Waypoints
// are the end locations of the route's steps, in travel order.
type Route struct {
	Index           int        `json:"index"`
	Summary         string     `json:"summary,omitempty"`
	Waypoints       []GeoPoint `json:"waypoints"`
	DistanceMeters  int        `json:"distance_meters,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
}

// MarkerPosition is where a route's score label is drawn: the middle
// waypoint. ok is false for an empty route.
func (r Route) MarkerPosition() (GeoPoint, bool) {
	if len(r.Waypoints) == 0 {
		return GeoPoint{}, false
	}
	return r.Waypoints[len(r.Waypoints)/2], true
}
