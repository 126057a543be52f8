package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/saferoute/internal/adapters/memory"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/scoring"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

type fakeDirections struct {
	mu     sync.Mutex
	routes []domain.Route
	err    error
	calls  int
}

func (f *fakeDirections) Routes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.routes, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.AssessmentEvent
}

func (p *recordingPublisher) PublishAssessment(ctx context.Context, e *domain.AssessmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type SafeRouteWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env       *testsuite.TestWorkflowEnvironment
	dir       *fakeDirections
	publisher *recordingPublisher
}

func TestSafeRouteWorkflow(t *testing.T) {
	suite.Run(t, new(SafeRouteWorkflowSuite))
}

func (s *SafeRouteWorkflowSuite) SetupTest() {
	catalog, err := memory.NewCatalog([]domain.Zone{
		{ID: "hr-1", Center: domain.GeoPoint{Lat: 13.07, Lon: 80.21}, RadiusMeters: 1000, Category: domain.ZoneHighRisk},
		{ID: "cr-1", Center: domain.GeoPoint{Lat: 13.04, Lon: 80.23}, RadiusMeters: 800, Category: domain.ZoneCrowded},
	})
	require.NoError(s.T(), err)

	s.dir = &fakeDirections{}
	s.publisher = &recordingPublisher{}
	zones := usecases.NewZoneService(catalog, nil, 0)
	safety := usecases.NewSafetyService(s.dir, zones, scoring.NewDefault())

	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterWorkflow(SafeRouteWorkflow)
	s.env.RegisterActivity(&PlannerActivities{Safety: safety, Publisher: s.publisher})
}

func (s *SafeRouteWorkflowSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *SafeRouteWorkflowSuite) TestRanksAndPublishes() {
	s.dir.routes = []domain.Route{
		{Summary: "risky", Waypoints: []domain.GeoPoint{{Lat: 13.07, Lon: 80.21}}},
		{Summary: "clear", Waypoints: []domain.GeoPoint{{Lat: 13.2, Lon: 80.1}}},
	}

	s.env.ExecuteWorkflow(SafeRouteWorkflow, PlanInput{Origin: "Guindy", Destination: "Adyar"})
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())

	var event domain.AssessmentEvent
	s.Require().NoError(s.env.GetWorkflowResult(&event))
	s.NotEmpty(event.ID)
	s.Equal("Guindy", event.Origin)
	s.Require().Len(event.Routes, 2)
	s.Equal("clear", event.Routes[0].Route.Summary)
	s.Equal(100, event.Routes[0].Assessment.Score)
	s.Equal(70, event.Routes[1].Assessment.Score)
	s.Equal(domain.TierModerate, event.Routes[1].Tier)

	s.Equal(1, s.dir.calls)
	s.Require().Len(s.publisher.events, 1)
	s.Equal(event.ID, s.publisher.events[0].ID)
}

func (s *SafeRouteWorkflowSuite) TestProviderDownIsNotRetried() {
	s.dir.err = errors.New("connection refused")

	s.env.ExecuteWorkflow(SafeRouteWorkflow, PlanInput{Origin: "Guindy", Destination: "Adyar"})
	s.Require().True(s.env.IsWorkflowCompleted())

	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	var appErr *temporal.ApplicationError
	s.Require().True(errors.As(err, &appErr), "got %v", err)
	s.Equal(ErrTypeProviderUnavailable, appErr.Type())

	s.Equal(1, s.dir.calls)
	s.Empty(s.publisher.events)
}

func (s *SafeRouteWorkflowSuite) TestZeroResultsSkipsScoring() {
	s.dir.routes = []domain.Route{}

	s.env.ExecuteWorkflow(SafeRouteWorkflow, PlanInput{Origin: "Guindy", Destination: "Atlantis"})
	s.Require().True(s.env.IsWorkflowCompleted())
	s.Require().NoError(s.env.GetWorkflowError())

	var event domain.AssessmentEvent
	s.Require().NoError(s.env.GetWorkflowResult(&event))
	s.Empty(event.Routes)
	s.Len(s.publisher.events, 1)
}

func TestClassify(t *testing.T) {
	err := classify(errors.Join(domain.ErrInvalidInput, errors.New("origin missing")))
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, ErrTypeInvalidInput, appErr.Type())
	require.True(t, appErr.NonRetryable())

	plain := errors.New("boom")
	require.Equal(t, plain, classify(plain))
}
