package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// localsRequestID is where the requestid middleware stores the ID.
const localsRequestID = "requestid"

type ctxKey int

const loggerKey ctxKey = iota

// requestID returns the ID assigned to the current request, or "".
func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsRequestID).(string)
	return id
}

// RequestIDLogMiddleware stores a request-scoped *slog.Logger carrying the
// request ID in the user context, so services logging with LoggerFromCtx
// tag every line with it.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := requestID(c)
		if id == "" {
			return c.Next()
		}
		logger := slog.Default().With("request_id", id)
		c.SetUserContext(context.WithValue(c.UserContext(), loggerKey, logger))
		return c.Next()
	}
}

// LoggerFromCtx returns the request logger, or slog.Default outside a request.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
