package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/agora/internal/app"
	"github.com/nfrund/agora/internal/config"
	"github.com/nfrund/agora/internal/logging"
	"github.com/nfrund/agora/internal/middleware"
	"github.com/nfrund/agora/internal/module"
	"github.com/nfrund/agora/internal/registry"
	"github.com/nfrund/agora/internal/websocket"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Deps     *app.Dependencies
	Registry *registry.Registry

	modules []module.Module
	cancel  context.CancelFunc
}

// New creates a new Server instance with all core services wired up.
func New() *Server {
	logging.New() // Initialize the structured logger
	cfg := config.New()

	deps, err := app.NewDependencies(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to initialize core services", "error", err)
		os.Exit(1)
	}

	reg := registry.New(cfg)
	deps.Populate(reg)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	return &Server{
		E:        e,
		Cfg:      cfg,
		Deps:     deps,
		Registry: reg,
		modules:  app.NewModules(),
	}
}

// Boot registers every module's services, then boots each module with its
// own route group. Modules run their background subscribers under a
// context that is canceled during shutdown.
func (s *Server) Boot() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, m := range s.modules {
		if err := m.Register(s.Registry); err != nil {
			cancel()
			return err
		}
		slog.Info("Registered module", "module", m.Name())
	}

	s.RegisterRoutes()

	for _, m := range s.modules {
		group := s.E.Group("/api/" + m.Name())
		if err := m.Boot(ctx, group, s.Registry); err != nil {
			cancel()
			return err
		}
		slog.Info("Booted module", "module", m.Name())
	}

	return nil
}

// WebSocketBridge builds the transport bridge over the core services. Split
// out so tests can mount it on their own echo instance.
func (s *Server) WebSocketBridge() *websocket.Bridge {
	return websocket.NewBridge(s.Deps.Hub, s.Deps.Presence, s.Deps.Typing, s.Deps.Publisher)
}
