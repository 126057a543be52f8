package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/scoring"
	"github.com/samirrijal/saferoute/internal/core/usecases"
)

// --- Mock DirectionsProvider ---

type mockDirections struct {
	routesFn func(ctx context.Context, origin, destination string) ([]domain.Route, error)
	calls    int
}

func (m *mockDirections) Routes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	m.calls++
	if m.routesFn != nil {
		return m.routesFn(ctx, origin, destination)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []*domain.AssessmentEvent
	err    error
}

func (m *mockPublisher) PublishAssessment(ctx context.Context, e *domain.AssessmentEvent) error {
	m.events = append(m.events, e)
	return m.err
}

func newSafetyService(dir *mockDirections, opts ...usecases.SafetyOption) *usecases.SafetyService {
	repo := &mockZoneRepo{
		listFn: func(ctx context.Context, category *domain.ZoneCategory) ([]domain.Zone, error) {
			return sampleZones, nil
		},
	}
	zones := usecases.NewZoneService(repo, nil, 0)
	if dir == nil {
		// A nil *mockDirections would be a non-nil interface.
		return usecases.NewSafetyService(nil, zones, scoring.NewDefault(), opts...)
	}
	return usecases.NewSafetyService(dir, zones, scoring.NewDefault(), opts...)
}

// Three alternatives: one through both danger zones, one through one, one clear.
func candidateRoutes() []domain.Route {
	return []domain.Route{
		{Summary: "via both", Waypoints: []domain.GeoPoint{{Lat: 13.07, Lon: 80.21}, {Lat: 13.06, Lon: 80.25}}},
		{Summary: "via one", Waypoints: []domain.GeoPoint{{Lat: 13.07, Lon: 80.21}, {Lat: 13.10, Lon: 80.30}}},
		{Summary: "clear", Waypoints: []domain.GeoPoint{{Lat: 13.20, Lon: 80.10}, {Lat: 13.21, Lon: 80.11}}},
	}
}

func TestSafetyService_PlanSafeRoutes(t *testing.T) {
	dir := &mockDirections{
		routesFn: func(ctx context.Context, origin, destination string) ([]domain.Route, error) {
			if origin != "Guindy" || destination != "Adyar" {
				t.Errorf("unexpected endpoints %q -> %q", origin, destination)
			}
			return candidateRoutes(), nil
		},
	}
	pub := &mockPublisher{}
	fixed := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := newSafetyService(dir, usecases.WithPublisher(pub), usecases.WithClock(func() time.Time { return fixed }))

	event, err := svc.PlanSafeRoutes(context.Background(), " Guindy ", "Adyar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == "" || !event.Time.Equal(fixed) {
		t.Errorf("unexpected event header: %+v", event)
	}
	if len(event.Routes) != 3 {
		t.Fatalf("expected 3 routes, got %d", len(event.Routes))
	}

	wantOrder := []string{"clear", "via one", "via both"}
	wantScore := []int{100, 70, 40}
	for i, r := range event.Routes {
		if r.Route.Summary != wantOrder[i] {
			t.Errorf("rank %d: expected %q, got %q", i+1, wantOrder[i], r.Route.Summary)
		}
		if r.Assessment == nil || r.Assessment.Score != wantScore[i] {
			t.Errorf("rank %d: expected score %d, got %+v", i+1, wantScore[i], r.Assessment)
		}
		if r.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, r.Rank)
		}
	}
	if event.Routes[2].Color != "#FF0000" || event.Routes[0].Color != "#00FF00" {
		t.Errorf("unexpected colors: %s, %s", event.Routes[0].Color, event.Routes[2].Color)
	}

	if len(pub.events) != 1 || pub.events[0].ID != event.ID {
		t.Errorf("expected the event to be published once, got %d", len(pub.events))
	}
}

func TestSafetyService_PlanSafeRoutes_MissingEndpoint(t *testing.T) {
	dir := &mockDirections{}
	svc := newSafetyService(dir)
	_, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "  ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if dir.calls != 0 {
		t.Error("provider must not be called without both endpoints")
	}
}

func TestSafetyService_PlanSafeRoutes_ProviderDown(t *testing.T) {
	dir := &mockDirections{
		routesFn: func(ctx context.Context, origin, destination string) ([]domain.Route, error) {
			return nil, errors.New("connection refused")
		},
	}
	pub := &mockPublisher{}
	svc := newSafetyService(dir, usecases.WithPublisher(pub))

	_, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "Adyar")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if dir.calls != 1 {
		t.Errorf("expected exactly one provider call (no retries), got %d", dir.calls)
	}
	if len(pub.events) != 0 {
		t.Error("nothing should be published when the provider fails")
	}
}

func TestSafetyService_PlanSafeRoutes_ProviderTimeoutKeepsCause(t *testing.T) {
	dir := &mockDirections{
		routesFn: func(ctx context.Context, origin, destination string) ([]domain.Route, error) {
			return nil, context.DeadlineExceeded
		},
	}
	svc := newSafetyService(dir)

	_, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "Adyar")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected the deadline to stay in the chain, got %v", err)
	}
}

func TestSafetyService_PlanSafeRoutes_NoProvider(t *testing.T) {
	svc := newSafetyService(nil)
	_, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "Adyar")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSafetyService_PlanSafeRoutes_Cached(t *testing.T) {
	dir := &mockDirections{
		routesFn: func(ctx context.Context, origin, destination string) ([]domain.Route, error) {
			return candidateRoutes(), nil
		},
	}
	cache := newMemCache()
	svc := newSafetyService(dir, usecases.WithRouteCache(cache, 30))

	first, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "Adyar")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.PlanSafeRoutes(context.Background(), "guindy", "ADYAR")
	if err != nil {
		t.Fatal(err)
	}
	if dir.calls != 1 {
		t.Errorf("expected cached second call, provider calls = %d", dir.calls)
	}
	if second.ID != first.ID {
		t.Errorf("expected cached event %s, got %s", first.ID, second.ID)
	}
	if cache.ttls["routes:safe:guindy|adyar"] != 30 {
		t.Errorf("expected ttl 30, got %v", cache.ttls)
	}
}

func TestSafetyService_PlanSafeRoutes_PublishFailureIsNotFatal(t *testing.T) {
	dir := &mockDirections{
		routesFn: func(ctx context.Context, origin, destination string) ([]domain.Route, error) {
			return candidateRoutes(), nil
		},
	}
	svc := newSafetyService(dir, usecases.WithPublisher(&mockPublisher{err: errors.New("nats down")}))
	if _, err := svc.PlanSafeRoutes(context.Background(), "Guindy", "Adyar"); err != nil {
		t.Fatalf("publish failure should not fail the request: %v", err)
	}
}

func TestSafetyService_ScoreRoutes_Fallback(t *testing.T) {
	svc := newSafetyService(nil)
	routes := []domain.Route{
		{Summary: "bad", Waypoints: []domain.GeoPoint{{Lat: math.NaN(), Lon: 80.21}}},
		{Summary: "risky", Waypoints: []domain.GeoPoint{{Lat: 13.07, Lon: 80.21}}},
		{Summary: "empty"},
	}

	scored, err := svc.ScoreRoutes(context.Background(), routes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("expected 3 results, got %d", len(scored))
	}
	if scored[0].Route.Summary != "risky" || scored[0].Assessment.Score != 70 {
		t.Errorf("expected risky first with 70, got %+v", scored[0])
	}
	if scored[1].Route.Summary != "bad" || !scored[1].Fallback || scored[1].Assessment.Score != 50 {
		t.Errorf("expected fallback 50 for malformed route, got %+v", scored[1])
	}
	if scored[2].Route.Summary != "empty" || scored[2].Assessment != nil || scored[2].Error == "" {
		t.Errorf("expected unscored empty route last, got %+v", scored[2])
	}
	if routes[1].Index != 0 {
		t.Error("ScoreRoutes must not modify the caller's routes")
	}
}

func TestSafetyService_ScoreRoutes_NoRoutes(t *testing.T) {
	svc := newSafetyService(nil)
	if _, err := svc.ScoreRoutes(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
