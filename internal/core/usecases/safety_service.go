package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/ports"
	"github.com/samirrijal/saferoute/internal/core/scoring"
	"github.com/samirrijal/saferoute/internal/pkg/metrics"
	"github.com/samirrijal/saferoute/internal/pkg/telemetry"
)

// SafetyService plans and scores candidate routes.
type SafetyService struct {
	directions ports.DirectionsProvider
	zones      *ZoneService
	scorer     *scoring.Scorer
	publisher  ports.EventPublisher
	cache      ports.CacheService
	routeTTL   int
	now        func() time.Time
}

// SafetyOption configures a SafetyService.
type SafetyOption func(*SafetyService)

// WithPublisher publishes an AssessmentEvent for every planned request.
func WithPublisher(p ports.EventPublisher) SafetyOption {
	return func(s *SafetyService) { s.publisher = p }
}

// WithRouteCache caches planned results for ttlSeconds.
func WithRouteCache(c ports.CacheService, ttlSeconds int) SafetyOption {
	return func(s *SafetyService) {
		s.cache = c
		s.routeTTL = ttlSeconds
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) SafetyOption {
	return func(s *SafetyService) { s.now = now }
}

// NewSafetyService creates a new SafetyService. directions may be nil, in
// which case PlanSafeRoutes always reports the provider as unavailable.
func NewSafetyService(directions ports.DirectionsProvider, zones *ZoneService, scorer *scoring.Scorer, opts ...SafetyOption) *SafetyService {
	s := &SafetyService{
		directions: directions,
		zones:      zones,
		scorer:     scorer,
		routeTTL:   120,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scorer exposes the configured scorer.
func (s *SafetyService) Scorer() *scoring.Scorer { return s.scorer }

// PlanSafeRoutes asks the directions provider for alternatives between
// origin and destination, scores each against the zone catalog and returns
// them safest first.
func (s *SafetyService) PlanSafeRoutes(ctx context.Context, origin, destination string) (*domain.AssessmentEvent, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: both origin and destination are required", domain.ErrInvalidInput)
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPlanSafeRoutes)
	defer span.End()

	cacheKey := "routes:safe:" + strings.ToLower(origin) + "|" + strings.ToLower(destination)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var event domain.AssessmentEvent
			if err := json.Unmarshal(data, &event); err == nil {
				metrics.CacheHits.WithLabelValues("routes").Inc()
				span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				return &event, nil
			}
			_ = s.cache.Delete(ctx, cacheKey)
		}
		metrics.CacheMisses.WithLabelValues("routes").Inc()
	}

	routes, err := s.fetchRoutes(ctx, origin, destination)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directions provider unavailable")
		return nil, err
	}

	zones, err := s.zones.List(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	event := &domain.AssessmentEvent{
		ID:          uuid.NewString(),
		Time:        s.now().UTC(),
		Origin:      origin,
		Destination: destination,
		Routes:      s.assess(ctx, routes, zones),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAssessment(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish assessment failed", "event_id", event.ID, "error", err)
		}
	}
	if s.cache != nil {
		if data, err := json.Marshal(event); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.routeTTL)
		}
	}
	return event, nil
}

// FetchRoutes calls the directions provider once. It never retries.
func (s *SafetyService) FetchRoutes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	origin, destination = strings.TrimSpace(origin), strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: both origin and destination are required", domain.ErrInvalidInput)
	}
	return s.fetchRoutes(ctx, origin, destination)
}

func (s *SafetyService) fetchRoutes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	if s.directions == nil {
		metrics.ProviderRequests.WithLabelValues("unconfigured").Inc()
		return nil, fmt.Errorf("%w: no directions provider configured", domain.ErrProviderUnavailable)
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanFetchRoutes)
	defer span.End()

	start := time.Now()
	routes, err := s.directions.Routes(ctx, origin, destination)
	metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "directions provider failed", "origin", origin, "destination", destination, "error", err)
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
		}
		span.RecordError(err)
		return nil, err
	}
	metrics.ProviderRequests.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int(telemetry.AttrRouteCount, len(routes)))
	return routes, nil
}

// ScoreRoutes scores caller-supplied routes against the zone catalog and
// returns them safest first.
func (s *SafetyService) ScoreRoutes(ctx context.Context, routes []domain.Route) ([]domain.ScoredRoute, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: at least one route is required", domain.ErrInvalidInput)
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanScoreRoutes)
	defer span.End()

	zones, err := s.zones.List(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return s.assess(ctx, routes, zones), nil
}

// assess scores, presents and ranks routes. Routes are re-indexed in input
// order so ties keep provider order.
func (s *SafetyService) assess(ctx context.Context, routes []domain.Route, zones []domain.Zone) []domain.ScoredRoute {
	indexed := make([]domain.Route, len(routes))
	copy(indexed, routes)
	for i := range indexed {
		indexed[i].Index = i
	}

	start := time.Now()
	results := s.scorer.ScoreBatch(indexed, zones)
	metrics.BatchDuration.Observe(time.Since(start).Seconds())

	fallbacks := 0
	for _, res := range results {
		switch {
		case res.Fallback:
			fallbacks++
			metrics.ScoringFailures.WithLabelValues("malformed_waypoint").Inc()
			slog.WarnContext(ctx, "route scored with fallback", "route", res.Index, "error", res.Err)
		case res.Err != nil:
			metrics.ScoringFailures.WithLabelValues("empty_route").Inc()
			slog.WarnContext(ctx, "route not scored", "route", res.Index, "error", res.Err)
		}
		if res.Assessment != nil {
			metrics.ObserveScore(string(domain.TierFor(res.Assessment.Score).Tier), res.Assessment.Score)
		}
	}

	ranked := scoring.Rank(scoring.Present(indexed, results))

	attrs := []attribute.KeyValue{
		attribute.Int(telemetry.AttrRouteCount, len(routes)),
		attribute.Int(telemetry.AttrZoneCount, len(zones)),
		attribute.Int(telemetry.AttrFallbackCount, fallbacks),
	}
	if len(ranked) > 0 && ranked[0].Assessment != nil {
		attrs = append(attrs, attribute.Int(telemetry.AttrBestScore, ranked[0].Assessment.Score))
	}
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
	return ranked
}
