package telemetry

// Span names.
const (
	SpanPlanSafeRoutes = "safety.plan_safe_routes"
	SpanScoreRoutes    = "safety.score_routes"
	SpanFetchRoutes    = "directions.fetch_routes"
	SpanListZones      = "zones.list"
)

// Span attribute keys.
const (
	AttrRouteCount    = "saferoute.route_count"
	AttrZoneCount     = "saferoute.zone_count"
	AttrFallbackCount = "saferoute.fallback_count"
	AttrBestScore     = "saferoute.best_score"
	AttrCacheHit      = "saferoute.cache_hit"
	AttrTravelMode    = "saferoute.travel_mode"
)
