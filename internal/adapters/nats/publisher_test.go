package natsadapter

import (
	"testing"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

func TestSubjectFor(t *testing.T) {
	safe := &domain.AssessmentEvent{Routes: []domain.ScoredRoute{
		{Assessment: &domain.SafetyAssessment{Score: 90}, Tier: domain.TierSafe},
		{Assessment: &domain.SafetyAssessment{Score: 40}, Tier: domain.TierUnsafe},
	}}
	if got := SubjectFor(safe); got != "saferoute.assessments.safe" {
		t.Errorf("unexpected subject %q", got)
	}

	empty := &domain.AssessmentEvent{}
	if got := SubjectFor(empty); got != "saferoute.assessments.none" {
		t.Errorf("unexpected subject %q", got)
	}

	unscored := &domain.AssessmentEvent{Routes: []domain.ScoredRoute{{Error: "route has no waypoints"}}}
	if got := SubjectFor(unscored); got != "saferoute.assessments.none" {
		t.Errorf("unexpected subject %q", got)
	}
}
