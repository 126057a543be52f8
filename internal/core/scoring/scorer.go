// Package scoring computes route safety assessments from a route's waypoints
// and a zone catalog. Everything here is pure: no I/O, no clocks, no shared
// mutable state.
package scoring

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/pkg/geospatial"
)

// Scorer applies a fixed set of weights. A Scorer is safe for concurrent use.
type Scorer struct {
	weights Weights
	workers int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWorkers bounds how many routes ScoreBatch scores at once.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scorer) {
		s.workers = n
	}
}

// New creates a Scorer after validating the weights.
func New(w Weights, opts ...Option) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{weights: w}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s, nil
}

// NewDefault creates a Scorer with the reference weights.
func NewDefault() *Scorer {
	s, _ := New(DefaultWeights())
	return s
}

// Weights returns the scorer's tuning.
func (s *Scorer) Weights() Weights { return s.weights }

// Score assesses one route against zones.
//
// Each (waypoint, zone) pair closer than the proximity threshold contributes
// once; a waypoint may trigger several zones and a zone may be triggered by
// several waypoints. The final score is clamped to [0, 100].
func (s *Scorer) Score(route domain.Route, zones []domain.Zone) (domain.SafetyAssessment, error) {
	if len(route.Waypoints) == 0 {
		return domain.SafetyAssessment{}, domain.ErrEmptyRoute
	}
	for i, wp := range route.Waypoints {
		if err := wp.Validate(); err != nil {
			return domain.SafetyAssessment{}, fmt.Errorf("%w: waypoint %d: %v", domain.ErrMalformedWaypoint, i, err)
		}
	}

	a := domain.SafetyAssessment{}
	score := MaxScore
	for _, wp := range route.Waypoints {
		for _, z := range zones {
			if geospatial.PlanarDegrees(wp.Lat, wp.Lon, z.Center.Lat, z.Center.Lon) >= s.weights.ProximityThreshold {
				continue
			}
			switch z.Category {
			case domain.ZoneHighRisk:
				score -= s.weights.HighRiskPenalty
				a.HighRiskCount++
			case domain.ZoneLowLight:
				a.WellLitDelta += s.weights.LowLightDelta
			case domain.ZoneCrowded:
				score += s.weights.CrowdedBonus
				a.CrowdedCount++
			}
		}
	}
	a.Score = clamp(score)
	return a, nil
}

// Fallback is the neutral assessment substituted for a malformed route.
func (s *Scorer) Fallback() domain.SafetyAssessment {
	return domain.SafetyAssessment{Score: s.weights.FallbackScore}
}

// ScoreBatch scores every route concurrently and returns one result per
// route, in input order. A malformed route gets the fallback assessment; an
// empty route gets only its error. Neither stops the other routes.
func (s *Scorer) ScoreBatch(routes []domain.Route, zones []domain.Zone) []domain.RouteResult {
	results := make([]domain.RouteResult, len(routes))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range routes {
		g.Go(func() error {
			results[i] = s.scoreOne(i, routes[i], zones)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Scorer) scoreOne(i int, route domain.Route, zones []domain.Zone) domain.RouteResult {
	res := domain.RouteResult{Index: i}
	a, err := s.Score(route, zones)
	switch {
	case err == nil:
		res.Assessment = &a
	case isMalformed(err):
		fb := s.Fallback()
		res.Assessment = &fb
		res.Fallback = true
		res.Err = err
	default:
		res.Err = err
	}
	return res
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
