package server

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown blocks until an interrupt or terminate signal is received.
func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}

// Shutdown tears the application down: module shutdown hooks first, then
// the subscriber context, the HTTP listener and finally the core services.
func (s *Server) Shutdown(ctx context.Context) {
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}

	s.Deps.Close(ctx)
	slog.Info("Shutdown complete")
}
