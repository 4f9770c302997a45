package app

import (
	"context"
	"log/slog"

	"github.com/nfrund/agora/internal/config"
	"github.com/nfrund/agora/internal/database"
	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/hub"
	"github.com/nfrund/agora/internal/presence"
	"github.com/nfrund/agora/internal/pubsub"
	"github.com/nfrund/agora/internal/registry"
	"github.com/nfrund/agora/internal/typing"
	"github.com/surrealdb/surrealdb.go"
)

// Dependencies holds the core services shared by every module. This struct
// is built once at startup and handed to the server, which publishes each
// service into the registry for the modules to consume.
type Dependencies struct {
	DB            *surrealdb.DB
	Publisher     pubsub.Publisher
	Subscriber    pubsub.Subscriber
	Hub           *hub.Hub
	Presence      *presence.Registry
	Typing        *typing.Tracker
	MessageStore  domain.MessageStore
	UserDirectory domain.UserDirectory

	tracingCleanup func()
}

// NewDependencies wires up the core services from configuration: database
// connection, pub/sub bus (with optional tracing), fan-out hub, presence
// registry and typing tracker.
func NewDependencies(ctx context.Context, cfg config.Provider) (*Dependencies, error) {
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bridge := pubsub.NewWatermillBridge()

	var publisher pubsub.Publisher = bridge
	tracingCfg := pubsub.LoadTracingConfigFromEnv()
	tracer, cleanup, err := pubsub.SetupOTel(ctx, tracingCfg)
	if err != nil {
		slog.Warn("Tracing setup failed, continuing without tracing", "error", err)
		cleanup = func() {}
	} else if tracingCfg.Enabled {
		publisher = pubsub.NewTracingPublisher(bridge, tracer)
	}

	return &Dependencies{
		DB:             db,
		Publisher:      publisher,
		Subscriber:     bridge,
		Hub:            hub.New(),
		Presence:       presence.NewRegistry(publisher),
		Typing:         typing.NewTracker(publisher, typing.WithTTL(cfg.GetTypingTTL())),
		MessageStore:   database.NewSurrealMessageStore(db, cfg.GetDBNs(), cfg.GetDBDb()),
		UserDirectory:  database.NewSurrealUserStore(db, cfg.GetDBNs(), cfg.GetDBDb()),
		tracingCleanup: cleanup,
	}, nil
}

// Populate registers the core services under their shared keys.
func (d *Dependencies) Populate(reg *registry.Registry) {
	registry.Set(reg, registry.DBKey, d.DB)
	registry.Set(reg, registry.PublisherKey, d.Publisher)
	registry.Set(reg, registry.SubscriberKey, d.Subscriber)
	registry.Set(reg, registry.HubKey, d.Hub)
	registry.Set(reg, registry.PresenceKey, d.Presence)
	registry.Set(reg, registry.TypingKey, d.Typing)
	registry.Set(reg, registry.MessageStoreKey, d.MessageStore)
	registry.Set(reg, registry.UserDirectoryKey, d.UserDirectory)
}

// Close releases the core services in reverse dependency order.
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.Publisher.Close(); err != nil {
		slog.Error("Failed to close publisher", "error", err)
	}
	if d.tracingCleanup != nil {
		d.tracingCleanup()
	}
	if d.DB != nil {
		d.DB.Close(ctx)
	}
}
