package memory

import "github.com/samirrijal/saferoute/internal/core/domain"

// staticZones is the built-in sample catalog for Chennai. The two high-risk
// zones are the reference danger points; the rest give the low-light and
// crowded categories something to match.
var staticZones = []domain.Zone{
	{ID: "hr-kodambakkam", Name: "Kodambakkam underpass", Center: domain.GeoPoint{Lat: 13.07, Lon: 80.21}, RadiusMeters: 1000, Category: domain.ZoneHighRisk},
	{ID: "hr-mylapore", Name: "Mylapore back lanes", Center: domain.GeoPoint{Lat: 13.06, Lon: 80.25}, RadiusMeters: 1000, Category: domain.ZoneHighRisk},
	{ID: "ll-adyar-creek", Name: "Adyar creek road", Center: domain.GeoPoint{Lat: 13.01, Lon: 80.26}, RadiusMeters: 800, Category: domain.ZoneLowLight},
	{ID: "ll-vadapalani", Name: "Vadapalani service road", Center: domain.GeoPoint{Lat: 13.05, Lon: 80.21}, RadiusMeters: 600, Category: domain.ZoneLowLight},
	{ID: "cr-t-nagar", Name: "T. Nagar market", Center: domain.GeoPoint{Lat: 13.04, Lon: 80.234}, RadiusMeters: 700, Category: domain.ZoneCrowded},
	{ID: "cr-central", Name: "Chennai Central", Center: domain.GeoPoint{Lat: 13.083, Lon: 80.275}, RadiusMeters: 900, Category: domain.ZoneCrowded},
}

// StaticCatalog returns the built-in sample catalog.
func StaticCatalog() *Catalog {
	c, err := NewCatalog(staticZones)
	if err != nil {
		panic(err) // the sample data is constant
	}
	return c
}
