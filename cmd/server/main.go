package main

import (
	"log/slog"
	"os"

	"github.com/nfrund/agora/internal/server"
)

func main() {
	// Create a new server instance.
	s := server.New()

	// Register module services, routes and background subscribers.
	if err := s.Boot(); err != nil {
		slog.Error("Failed to boot application", "error", err)
		os.Exit(1)
	}

	// Start the server and block until shutdown.
	s.Start(s.Cfg.GetAddr())
}
