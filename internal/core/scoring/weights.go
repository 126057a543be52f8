package scoring

import (
	"fmt"
	"strings"

	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

// Reference weights.
const (
	DefaultHighRiskPenalty = 30
	DefaultLowLightDelta   = -1
	DefaultCrowdedBonus    = 10
	DefaultFallbackScore   = 50

	MaxScore = 100
	MinScore = 0
)

// Weights tunes how much each zone category moves a route's assessment.
// ProximityThreshold is in coordinate degrees (see geospatial.PlanarDegrees).
type Weights struct {
	ProximityThreshold float64 `json:"proximity_threshold"`
	HighRiskPenalty    int     `json:"high_risk_penalty"`
	LowLightDelta      int     `json:"low_light_delta"`
	CrowdedBonus       int     `json:"crowded_bonus"`
	FallbackScore      int     `json:"fallback_score"`
}

// DefaultWeights returns the reference tuning.
func DefaultWeights() Weights {
	return Weights{
		ProximityThreshold: geospatial.DefaultProximityDegrees,
		HighRiskPenalty:    DefaultHighRiskPenalty,
		LowLightDelta:      DefaultLowLightDelta,
		CrowdedBonus:       DefaultCrowdedBonus,
		FallbackScore:      DefaultFallbackScore,
	}
}

// Validate checks that the weights can produce a bounded score.
func (w Weights) Validate() error {
	var errs []string
	if !(w.ProximityThreshold > 0) {
		errs = append(errs, fmt.Sprintf("proximity_threshold must be positive, got %v", w.ProximityThreshold))
	}
	if w.HighRiskPenalty < 0 {
		errs = append(errs, fmt.Sprintf("high_risk_penalty must not be negative, got %d", w.HighRiskPenalty))
	}
	if w.CrowdedBonus < 0 {
		errs = append(errs, fmt.Sprintf("crowded_bonus must not be negative, got %d", w.CrowdedBonus))
	}
	if w.FallbackScore < MinScore || w.FallbackScore > MaxScore {
		errs = append(errs, fmt.Sprintf("fallback_score must be %d-%d, got %d", MinScore, MaxScore, w.FallbackScore))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid scoring weights: %s", strings.Join(errs, "; "))
	}
	return nil
}
