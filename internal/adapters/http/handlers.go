package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/saferoute/internal/adapters/geojson"
	"github.com/samirrijal/saferoute/internal/core/domain"
	"github.com/samirrijal/saferoute/internal/core/scoring"
)

// maxScoreRoutes caps a single POST /v1/routes/score batch.
const maxScoreRoutes = 50

const formatGeoJSON = "geojson"

// ListZonesHandler returns the zone catalog, optionally filtered by category.
// ?format=geojson returns a FeatureCollection instead of a paginated list.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var category *domain.ZoneCategory
		if raw := c.Query("category"); raw != "" {
			cat, err := domain.ParseZoneCategory(raw)
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			category = &cat
		}

		zones, err := deps.Zones.List(c.UserContext(), category)
		if err != nil {
			return errFromDomain(c, err)
		}

		if c.Query("format") == formatGeoJSON {
			return sendGeoJSON(c, geojson.EncodeZones, zones)
		}

		// Apply offset/limit pagination on the full list
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(zones)
		page := []domain.Zone{}
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			page = zones[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// NearbyZonesHandler returns zones within radius meters of a point, nearest first.
func NearbyZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := requiredFloat(c, "lat")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		lon, err := requiredFloat(c, "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius, err := optionalFloat(c, "radius", 1000)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		zones, err := deps.Zones.Nearby(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon}, radius)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(zones)
	}
}

type scoreRoutesRequest struct {
	Routes []domain.Route `json:"routes"`
}

// ScoreRoutesHandler scores caller-supplied routes without calling the
// directions provider.
func ScoreRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scoreRoutesRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Routes) == 0 {
			return errBadRequest(c, "routes must contain at least one route")
		}
		if len(req.Routes) > maxScoreRoutes {
			return errBadRequest(c, "too many routes (max "+strconv.Itoa(maxScoreRoutes)+")")
		}

		scored, err := deps.Safety.ScoreRoutes(c.UserContext(), req.Routes)
		if err != nil {
			return errFromDomain(c, err)
		}

		if c.Query("format") == formatGeoJSON {
			return sendGeoJSON(c, geojson.EncodeRoutes, scored)
		}
		return c.JSON(fiber.Map{"routes": scored})
	}
}

// SafeRoutesHandler fetches alternatives between origin and destination and
// returns them scored, safest first.
func SafeRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := strings.TrimSpace(c.Query("origin"))
		destination := strings.TrimSpace(c.Query("destination"))
		if origin == "" || destination == "" {
			return errBadRequest(c, "origin and destination are required")
		}
		if len(origin) > 200 || len(destination) > 200 {
			return errBadRequest(c, "origin and destination must be at most 200 characters")
		}

		event, err := deps.Safety.PlanSafeRoutes(c.UserContext(), origin, destination)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "private, max-age=60")
		if c.Query("format") == formatGeoJSON {
			return sendGeoJSON(c, geojson.EncodeRoutes, event.Routes)
		}
		return c.JSON(event)
	}
}

// LegendHandler describes the tiers, factors and weights a client needs to
// render a score legend.
func LegendHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		weights := scoring.DefaultWeights()
		if deps.Safety != nil {
			weights = deps.Safety.Scorer().Weights()
		}

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"tiers":   domain.Tiers,
			"factors": domain.Factors,
			"weights": weights,
		})
	}
}

func requiredFloat(c *fiber.Ctx, name string) (float64, error) {
	if c.Query(name) == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	return optionalFloat(c, name, 0)
}

// optionalFloat returns def when the parameter is absent and an error when it
// is present but not a number.
func optionalFloat(c *fiber.Ctx, name string, def float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be a number")
	}
	return v, nil
}

func sendGeoJSON[T any](c *fiber.Ctx, encode func(T) ([]byte, error), v T) error {
	data, err := encode(v)
	if err != nil {
		return errFromDomain(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(data)
}
