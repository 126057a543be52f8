package domain

import "errors"

var (
	// ErrMalformedWaypoint marks a waypoint with non-finite or out-of-range
	// coordinates. Batch callers recover with a neutral score.
	ErrMalformedWaypoint = errors.New("malformed waypoint")

	// ErrEmptyRoute marks a route with no waypoints.
	ErrEmptyRoute = errors.New("route has no waypoints")

	// ErrProviderUnavailable covers every directions-provider failure for a
	// whole request.
	ErrProviderUnavailable = errors.New("directions provider unavailable")

	// ErrInvalidInput marks a caller mistake such as a missing origin.
	ErrInvalidInput = errors.New("invalid input")
)
