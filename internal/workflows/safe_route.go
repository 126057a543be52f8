package workflows

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// PlanInput is the input for SafeRouteWorkflow.
type PlanInput struct {
	Origin      string
	Destination string
}

// SafeRouteWorkflow fetches candidate routes, scores them and publishes the
// assessment. The provider is asked exactly once; publishing may retry since
// the event ID deduplicates on the stream.
func SafeRouteWorkflow(ctx workflow.Context, input PlanInput) (*domain.AssessmentEvent, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting safe route workflow", "origin", input.Origin, "destination", input.Destination)

	once := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	var routes []domain.Route
	if err := workflow.ExecuteActivity(once, "FetchCandidateRoutes", input.Origin, input.Destination).Get(ctx, &routes); err != nil {
		return nil, err
	}

	var id string
	if err := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return uuid.NewString()
	}).Get(&id); err != nil {
		return nil, err
	}

	event := &domain.AssessmentEvent{
		ID:          id,
		Time:        workflow.Now(ctx).UTC(),
		Origin:      input.Origin,
		Destination: input.Destination,
		Routes:      []domain.ScoredRoute{},
	}

	if len(routes) > 0 {
		if err := workflow.ExecuteActivity(once, "ScoreCandidateRoutes", routes).Get(ctx, &event.Routes); err != nil {
			return nil, err
		}
	}

	publish := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
	if err := workflow.ExecuteActivity(publish, "PublishAssessment", event).Get(ctx, nil); err != nil {
		logger.Warn("publish assessment failed", "event_id", event.ID, "error", err)
	}

	logger.Info("Safe route workflow finished", "event_id", event.ID, "routes", len(event.Routes))
	return event, nil
}

// Plan starts SafeRouteWorkflow on taskQueue and waits for the result.
func Plan(ctx context.Context, c client.Client, taskQueue string, input PlanInput) (*domain.AssessmentEvent, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "safe-route-" + uuid.NewString(),
		TaskQueue: taskQueue,
	}, SafeRouteWorkflow, input)
	if err != nil {
		return nil, err
	}

	var event domain.AssessmentEvent
	if err := run.Get(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
