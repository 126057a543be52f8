package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/saferoute/internal/core/usecases"
)

// Pinger is a backing service the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Zones  *usecases.ZoneService
	Safety *usecases.SafetyService
	NATS   *nats.Conn
	// DB is set only when the zone catalog lives in Postgres.
	DB    Pinger
	Cache Pinger
	// RequestTimeout bounds each /v1 request. Zero means 15s.
	RequestTimeout time.Duration
	Version        string
	// OpenAPIPath is served at /docs/openapi.yaml. Empty means api/openapi.yaml.
	OpenAPIPath string
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return d.RequestTimeout
}
