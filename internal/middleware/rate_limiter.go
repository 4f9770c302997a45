package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultHandshakeRate caps WebSocket handshakes per client IP per minute.
// Connections are long-lived, so a client opening more than this is stuck
// in a reconnect loop or probing.
const DefaultHandshakeRate = 10

// RateLimiter limits requests to perMinute per client IP, backed by an
// in-memory store. State is per-process, matching the single-instance
// deployment model.
func RateLimiter(perMinute float64) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(perMinute)),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	})
}
