package domain

import (
	"fmt"
	"time"
)

// SafetyAssessment is the explainable score for one route.
type SafetyAssessment struct {
	Score         int `json:"score"`
	WellLitDelta  int `json:"well_lit_delta"`
	CrowdedCount  int `json:"crowded_count"`
	HighRiskCount int `json:"high_risk_count"`
}

// SafetyTier is the visual bucket a score falls into.
type SafetyTier string

const (
	TierSafe     SafetyTier = "safe"
	TierModerate SafetyTier = "moderate"
	TierUnsafe   SafetyTier = "unsafe"
)

// Tier boundaries. Every surface that colors a route goes through TierFor.
const (
	SafeMinScore     = 80
	ModerateMinScore = 50
)

// TierInfo describes one legend entry.
type TierInfo struct {
	Tier     SafetyTier `json:"tier"`
	Label    string     `json:"label"`
	Color    string     `json:"color"`
	MinScore int        `json:"min_score"`
	MaxScore int        `json:"max_score"`
}

// Tiers is the legend, best tier first.
var Tiers = []TierInfo{
	{Tier: TierSafe, Label: "Very Safe", Color: "#00FF00", MinScore: SafeMinScore, MaxScore: 100},
	{Tier: TierModerate, Label: "Moderately Safe", Color: "#FFA500", MinScore: ModerateMinScore, MaxScore: SafeMinScore - 1},
	{Tier: TierUnsafe, Label: "Less Safe", Color: "#FF0000", MinScore: 0, MaxScore: ModerateMinScore - 1},
}

// TierFor maps a score to its tier.
func TierFor(score int) TierInfo {
	switch {
	case score >= SafeMinScore:
		return Tiers[0]
	case score >= ModerateMinScore:
		return Tiers[1]
	default:
		return Tiers[2]
	}
}

// ScoreLabel is the marker text rendered next to a route.
func ScoreLabel(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// RouteResult is the outcome of scoring one route inside a batch.
// Assessment is nil only when the route could not be scored at all.
type RouteResult struct {
	Index      int
	Assessment *SafetyAssessment
	Fallback   bool
	Err        error
}

// ScoredRoute is a route with its assessment and presentation data,
// ready for a map client.
type ScoredRoute struct {
	Rank           int               `json:"rank"`
	Route          Route             `json:"route"`
	Assessment     *SafetyAssessment `json:"assessment,omitempty"`
	Tier           SafetyTier        `json:"tier,omitempty"`
	Color          string            `json:"color,omitempty"`
	Label          string            `json:"label,omitempty"`
	MarkerPosition *GeoPoint         `json:"marker_position,omitempty"`
	Fallback       bool              `json:"fallback"`
	Error          string            `json:"error,omitempty"`
}

// AssessmentEvent is published after a batch of candidate routes is scored.
type AssessmentEvent struct {
	ID          string        `json:"id"`
	Time        time.Time     `json:"time"`
	Origin      string        `json:"origin,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Routes      []ScoredRoute `json:"routes"`
}
