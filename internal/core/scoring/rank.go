package scoring

import (
	"errors"
	"sort"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// Present attaches tier, color, label and marker data to each batch result.
// results must be the output of ScoreBatch for routes.
func Present(routes []domain.Route, results []domain.RouteResult) []domain.ScoredRoute {
	out := make([]domain.ScoredRoute, len(results))
	for i, res := range results {
		sr := domain.ScoredRoute{
			Route:      routes[res.Index],
			Assessment: res.Assessment,
			Fallback:   res.Fallback,
		}
		if res.Err != nil {
			sr.Error = res.Err.Error()
		}
		if res.Assessment != nil {
			tier := domain.TierFor(res.Assessment.Score)
			sr.Tier = tier.Tier
			sr.Color = tier.Color
			sr.Label = domain.ScoreLabel(res.Assessment.Score)
			if pos, ok := sr.Route.MarkerPosition(); ok {
				sr.MarkerPosition = &pos
			}
		}
		out[i] = sr
	}
	return out
}

// Rank orders scored routes safest first. Ties keep provider order and
// routes without an assessment go last. Rank numbers start at 1.
func Rank(scored []domain.ScoredRoute) []domain.ScoredRoute {
	out := make([]domain.ScoredRoute, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Assessment, out[j].Assessment
		switch {
		case ai == nil:
			return false
		case aj == nil:
			return true
		default:
			return ai.Score > aj.Score
		}
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func isMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedWaypoint)
}
