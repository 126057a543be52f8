package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

// Application error types surfaced to the workflow.
const (
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeProviderUnavailable = "ProviderUnavailable"
)

// PlannerActivities holds the activity implementations for SafeRouteWorkflow.
type PlannerActivities struct {
	Safety    *usecases.SafetyService
	Publisher ports.EventPublisher
}

// FetchCandidateRoutes asks the directions provider for alternatives once.
func (a *PlannerActivities) FetchCandidateRoutes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	routes, err := a.Safety.FetchRoutes(ctx, origin, destination)
	if err != nil {
		return nil, classify(err)
	}
	return routes, nil
}

// ScoreCandidateRoutes scores and ranks routes against the zone catalog.
func (a *PlannerActivities) ScoreCandidateRoutes(ctx context.Context, routes []domain.Route) ([]domain.ScoredRoute, error) {
	scored, err := a.Safety.ScoreRoutes(ctx, routes)
	if err != nil {
		return nil, classify(err)
	}
	return scored, nil
}

// PublishAssessment emits the finished assessment. Without a publisher it
// only logs.
func (a *PlannerActivities) PublishAssessment(ctx context.Context, event *domain.AssessmentEvent) error {
	if a.Publisher == nil {
		activity.GetLogger(ctx).Info("no publisher configured, dropping assessment", "event_id", event.ID)
		return nil
	}
	return a.Publisher.PublishAssessment(ctx, event)
}

// classify turns caller and provider failures into non-retryable errors so
// Temporal never re-asks the provider.
func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, domain.ErrProviderUnavailable):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProviderUnavailable, err)
	default:
		return err
	}
}
