package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
// Object fields resolve through the domain types' json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"center":        &graphql.Field{Type: geoPointType},
			"radius_meters": &graphql.Field{Type: graphql.Float},
			"category":      &graphql.Field{Type: graphql.String},
			"distance":      &graphql.Field{Type: graphql.Float},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"index":            &graphql.Field{Type: graphql.Int},
			"summary":          &graphql.Field{Type: graphql.String},
			"waypoints":        &graphql.Field{Type: graphql.NewList(geoPointType)},
			"distance_meters":  &graphql.Field{Type: graphql.Int},
			"duration_seconds": &graphql.Field{Type: graphql.Int},
		},
	})

	assessmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SafetyAssessment",
		Fields: graphql.Fields{
			"score":           &graphql.Field{Type: graphql.Int},
			"well_lit_delta":  &graphql.Field{Type: graphql.Int},
			"crowded_count":   &graphql.Field{Type: graphql.Int},
			"high_risk_count": &graphql.Field{Type: graphql.Int},
		},
	})

	scoredRouteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ScoredRoute",
		Fields: graphql.Fields{
			"rank":            &graphql.Field{Type: graphql.Int},
			"route":           &graphql.Field{Type: routeType},
			"assessment":      &graphql.Field{Type: assessmentType},
			"tier":            &graphql.Field{Type: graphql.String},
			"color":           &graphql.Field{Type: graphql.String},
			"label":           &graphql.Field{Type: graphql.String},
			"marker_position": &graphql.Field{Type: geoPointType},
			"fallback":        &graphql.Field{Type: graphql.Boolean},
			"error":           &graphql.Field{Type: graphql.String},
		},
	})

	assessmentEventType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Assessment",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"time":        &graphql.Field{Type: graphql.DateTime},
			"origin":      &graphql.Field{Type: graphql.String},
			"destination": &graphql.Field{Type: graphql.String},
			"routes":      &graphql.Field{Type: graphql.NewList(scoredRouteType)},
		},
	})

	tierType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tier",
		Fields: graphql.Fields{
			"tier":      &graphql.Field{Type: graphql.String},
			"label":     &graphql.Field{Type: graphql.String},
			"color":     &graphql.Field{Type: graphql.String},
			"min_score": &graphql.Field{Type: graphql.Int},
			"max_score": &graphql.Field{Type: graphql.Int},
		},
	})

	factorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Factor",
		Fields: graphql.Fields{
			"key":      &graphql.Field{Type: graphql.String},
			"label":    &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{Type: graphql.String},
		},
	})

	legendType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Legend",
		Fields: graphql.Fields{
			"tiers":   &graphql.Field{Type: graphql.NewList(tierType)},
			"factors": &graphql.Field{Type: graphql.NewList(factorType)},
		},
	})

	geoPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GeoPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	routeInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RouteInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"summary":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"waypoints": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(geoPointInput)))},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "List the zone catalog, optionally by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var category *domain.ZoneCategory
					if raw, ok := p.Args["category"].(string); ok && raw != "" {
						cat, err := domain.ParseZoneCategory(raw)
						if err != nil {
							return nil, err
						}
						category = &cat
					}
					return deps.Zones.List(p.Context, category)
				},
			},
			"nearbyZones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "Zones within radius meters of a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Zones.Nearby(p.Context, pt, p.Args["radius"].(float64))
				},
			},
			"safeRoutes": &graphql.Field{
				Type:        assessmentEventType,
				Description: "Fetch alternatives between two places and rank them by safety",
				Args: graphql.FieldConfigArgument{
					"origin":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"destination": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Safety.PlanSafeRoutes(p.Context, p.Args["origin"].(string), p.Args["destination"].(string))
				},
			},
			"scoreRoutes": &graphql.Field{
				Type:        graphql.NewList(scoredRouteType),
				Description: "Score caller-supplied routes, safest first",
				Args: graphql.FieldConfigArgument{
					"routes": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(routeInput)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					routes, err := routesFromArgs(p.Args["routes"])
					if err != nil {
						return nil, err
					}
					return deps.Safety.ScoreRoutes(p.Context, routes)
				},
			},
			"legend": &graphql.Field{
				Type:        legendType,
				Description: "Score tiers and the factors that move a score",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return map[string]interface{}{
						"tiers":   domain.Tiers,
						"factors": domain.Factors,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// routesFromArgs converts the coerced [RouteInput!]! argument.
func routesFromArgs(arg interface{}) ([]domain.Route, error) {
	list, ok := arg.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: routes must be a list", domain.ErrInvalidInput)
	}
	if len(list) > maxScoreRoutes {
		return nil, fmt.Errorf("%w: too many routes (max %d)", domain.ErrInvalidInput, maxScoreRoutes)
	}
	routes := make([]domain.Route, 0, len(list))
	for _, item := range list {
		in, _ := item.(map[string]interface{})
		r := domain.Route{Waypoints: []domain.GeoPoint{}}
		r.Summary, _ = in["summary"].(string)
		wps, _ := in["waypoints"].([]interface{})
		for _, w := range wps {
			wp, _ := w.(map[string]interface{})
			lat, _ := wp["lat"].(float64)
			lon, _ := wp["lon"].(float64)
			r.Waypoints = append(r.Waypoints, domain.GeoPoint{Lat: lat, Lon: lon})
		}
		routes = append(routes, r)
	}
	return routes, nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
