package domain

import (
	"fmt"
	"strings"
)

// ZoneCategory classifies how a zone affects route safety.
type ZoneCategory string

const (
	ZoneHighRisk ZoneCategory = "high_risk"
	ZoneLowLight ZoneCategory = "low_light"
	ZoneCrowded  ZoneCategory = "crowded"
)

// ZoneCategories lists every known category in display order.
var ZoneCategories = []ZoneCategory{ZoneHighRisk, ZoneLowLight, ZoneCrowded}

// ParseZoneCategory accepts the canonical names plus the CamelCase and
// hyphenated spellings used by external risk feeds.
func ParseZoneCategory(s string) (ZoneCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "high_risk", "highrisk", "danger":
		return ZoneHighRisk, nil
	case "low_light", "lowlight", "dark":
		return ZoneLowLight, nil
	case "crowded", "crowd":
		return ZoneCrowded, nil
	}
	return "", fmt.Errorf("unknown zone category %q", s)
}

// Valid reports whether c is one of the known categories.
func (c ZoneCategory) Valid() bool {
	switch c {
	case ZoneHighRisk, ZoneLowLight, ZoneCrowded:
		return true
	}
	return false
}

// Zone is a geographic area with a safety-relevant classification.
// Zones are created when a catalog is loaded and never mutated afterwards.
type Zone struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Center       GeoPoint     `json:"center"`
	RadiusMeters float64      `json:"radius_meters"`
	Category     ZoneCategory `json:"category"`
	Distance     *float64     `json:"distance,omitempty"` // computed field
}

// Validate checks the catalog invariants for a single zone.
func (z Zone) Validate() error {
	if err := z.Center.Validate(); err != nil {
		return fmt.Errorf("zone %q center: %w", z.ID, err)
	}
	if !(z.RadiusMeters > 0) {
		return fmt.Errorf("zone %q radius must be positive, got %v", z.ID, z.RadiusMeters)
	}
	if !z.Category.Valid() {
		return fmt.Errorf("zone %q has unknown category %q", z.ID, z.Category)
	}
	return nil
}

// FilterZones returns the zones matching category, or all of them when
// category is nil. The input slice is never modified.
func FilterZones(zones []Zone, category *ZoneCategory) []Zone {
	if category == nil {
		out := make([]Zone, len(zones))
		copy(out, zones)
		return out
	}
	var out []Zone
	for _, z := range zones {
		if z.Category == *category {
			out = append(out, z)
		}
	}
	return out
}

// Factor is a legend entry naming what a zone category contributes.
type Factor struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Category ZoneCategory `json:"category"`
}

// Factors lists the legend factors in display order.
var Factors = []Factor{
	{Key: "well_lit", Label: "Well-lit areas", Category: ZoneLowLight},
	{Key: "crowded", Label: "Crowded areas", Category: ZoneCrowded},
	{Key: "high_risk", Label: "High-risk areas", Category: ZoneHighRisk},
}
