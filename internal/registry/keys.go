package registry

import (
	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/hub"
	"github.com/nfrund/agora/internal/presence"
	"github.com/nfrund/agora/internal/pubsub"
	"github.com/nfrund/agora/internal/typing"
	"github.com/surrealdb/surrealdb.go"
)

// Keys for the core services shared across modules. Module-owned services
// define their keys in their own package.
var (
	DBKey            = Key[*surrealdb.DB]("core.db")
	PublisherKey     = Key[pubsub.Publisher]("core.publisher")
	SubscriberKey    = Key[pubsub.Subscriber]("core.subscriber")
	HubKey           = Key[*hub.Hub]("core.hub")
	PresenceKey      = Key[*presence.Registry]("core.presence")
	TypingKey        = Key[*typing.Tracker]("core.typing")
	MessageStoreKey  = Key[domain.MessageStore]("core.messageStore")
	UserDirectoryKey = Key[domain.UserDirectory]("core.userDirectory")
)
