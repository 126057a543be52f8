// Package directions fetches candidate routes from the Google Directions API.
package directions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

// DefaultBaseURL is the Directions API JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

const defaultTimeout = 10 * time.Second

// Provider statuses that carry no routes but are not failures.
const statusZeroResults = "ZERO_RESULTS"

type directionsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Routes       []googleRoute `json:"routes"`
}

type googleRoute struct {
	Summary string      `json:"summary"`
	Legs    []googleLeg `json:"legs"`
}

type googleLeg struct {
	Distance googleValue  `json:"distance"`
	Duration googleValue  `json:"duration"`
	Steps    []googleStep `json:"steps"`
}

type googleStep struct {
	EndLocation struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"end_location"`
}

type googleValue struct {
	Value int `json:"value"`
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMode sets the travel mode (driving, walking, bicycling, transit).
func WithMode(mode string) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

// WithTimeout bounds a single provider request. It applies to a copy of the
// HTTP client, so a client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit sets the requests-per-second budget for the API key.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client implements ports.DirectionsProvider. It makes exactly one request
// per call and never retries.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	mode       string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a Directions client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		mode:    "driving",
		limiter: rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	switch {
	case c.timeout > 0:
		hc.Timeout = c.timeout
	case hc.Timeout == 0:
		hc.Timeout = defaultTimeout
	}
	c.httpClient = &hc
	return c
}

// Routes returns every alternative the provider suggests, in provider order.
// Waypoints are the end locations of every step of every leg. A ZERO_RESULTS
// answer yields an empty slice; any other failure wraps
// domain.ErrProviderUnavailable.
func (c *Client) Routes(ctx context.Context, origin, destination string) ([]domain.Route, error) {
	if c.apiKey == "" {
		return nil, unavailable(eris.New("directions: api key not configured"))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, unavailable(eris.Wrap(err, "directions: rate limit"))
	}

	params := url.Values{
		"origin":       {origin},
		"destination":  {destination},
		"mode":         {c.mode},
		"alternatives": {"true"},
		"key":          {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, unavailable(eris.Wrap(err, "directions: build request"))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unavailable(eris.Wrap(err, "directions: request"))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(eris.Errorf("directions: provider returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable(eris.Wrap(err, "directions: read body"))
	}

	var dr directionsResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, unavailable(eris.Wrap(err, "directions: parse response"))
	}

	switch dr.Status {
	case "OK":
	case statusZeroResults:
		return []domain.Route{}, nil
	default:
		return nil, unavailable(eris.Errorf("directions: provider status %s: %s", dr.Status, dr.ErrorMessage))
	}

	routes := make([]domain.Route, 0, len(dr.Routes))
	for i, gr := range dr.Routes {
		routes = append(routes, toRoute(i, gr))
	}
	return routes, nil
}

func toRoute(i int, gr googleRoute) domain.Route {
	r := domain.Route{Index: i, Summary: gr.Summary, Waypoints: []domain.GeoPoint{}}
	for _, leg := range gr.Legs {
		r.DistanceMeters += leg.Distance.Value
		r.DurationSeconds += leg.Duration.Value
		for _, st := range leg.Steps {
			r.Waypoints = append(r.Waypoints, domain.GeoPoint{Lat: st.EndLocation.Lat, Lon: st.EndLocation.Lng})
		}
	}
	return r
}

// providerError keeps the eris chain for logging while matching
// domain.ErrProviderUnavailable under errors.Is.
type providerError struct {
	cause error
}

func (e *providerError) Error() string {
	return domain.ErrProviderUnavailable.Error() + ": " + e.cause.Error()
}

func (e *providerError) Unwrap() []error {
	return []error{domain.ErrProviderUnavailable, e.cause}
}

func unavailable(cause error) error {
	return &providerError{cause: cause}
}
