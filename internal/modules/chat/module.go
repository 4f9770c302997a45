// Package chat implements the message coordination feature: reactions,
// read receipts and the soft-delete/restore lifecycle, plus the fan-out of
// coordination events to room subscribers.
package chat

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/agora/internal/module"
	"github.com/nfrund/agora/internal/modules/chat/topics"
	"github.com/nfrund/agora/internal/registry"
)

// ServiceKey locates the chat Service in the registry for other modules.
var ServiceKey = registry.Key[Service]("chat.service")

// Module implements the module.Module interface for the chat feature.
type Module struct {
	module.BaseModule
}

// New creates a new instance of the chat module.
func New() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// Register builds the chat service from the core services and shares it
// through the registry.
func (m *Module) Register(reg *registry.Registry) error {
	if err := topics.Register(); err != nil {
		return err
	}

	store := registry.MustGet(reg, registry.MessageStoreKey)
	directory := registry.MustGet(reg, registry.UserDirectoryKey)
	publisher := registry.MustGet(reg, registry.PublisherKey)

	svc := NewService(store, directory, publisher,
		WithRestoreWindow(reg.Config().GetRestoreWindow()))
	registry.Set(reg, ServiceKey, svc)
	return nil
}

// Boot starts the fan-out subscriber and mounts the HTTP routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	slog.Info("Booting chat module")

	fanout := NewSubscriber(
		registry.MustGet(reg, registry.SubscriberKey),
		registry.MustGet(reg, registry.HubKey),
	)
	fanout.Start(ctx)

	NewHandler(registry.MustGet(reg, ServiceKey)).RegisterRoutes(g)
	return nil
}

// Shutdown is called on application termination. The fan-out subscriber
// stops with the boot context, so there is nothing left to tear down here.
func (m *Module) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down chat module")
	return nil
}
