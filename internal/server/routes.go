package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/agora/internal/middleware"
)

// RegisterRoutes sets up the framework-level routes: health check and the
// WebSocket entry point. Module routes are mounted during Boot.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(middleware.DefaultHandshakeRate)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	s.E.GET("/ws", s.WebSocketBridge().Handler(), rateLimiter)
}
