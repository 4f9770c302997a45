package chat

import (
	"context"
	"log/slog"

	"github.com/nfrund/agora/internal/hub"
	"github.com/nfrund/agora/internal/modules/chat/events"
	"github.com/nfrund/agora/internal/modules/chat/topics"
	"github.com/nfrund/agora/internal/presence"
	"github.com/nfrund/agora/internal/pubsub"
	"github.com/nfrund/agora/internal/typing"
	"github.com/nfrund/agora/internal/websocket"
)

// Subscriber listens for coordination events on the pub/sub bus, wraps each
// one in a wire envelope, and fans it out to the event's room via the Hub.
// Delivery is best-effort: subscribers that are gone by publish time are
// skipped, and nothing is replayed for late joiners.
type Subscriber struct {
	subscriber pubsub.Subscriber
	hub        *hub.Hub
}

// NewSubscriber creates a Subscriber over the given bus and hub.
func NewSubscriber(sub pubsub.Subscriber, h *hub.Hub) *Subscriber {
	return &Subscriber{subscriber: sub, hub: h}
}

// Start attaches all topic handlers. Each subscription runs until the
// context is canceled.
func (s *Subscriber) Start(ctx context.Context) {
	slog.Info("Starting chat fan-out subscriber")

	listen(ctx, s, pubsub.NewEvent[presence.Update](presence.TopicRoomUpdated),
		func(p presence.Update) (string, websocket.Event, any) {
			return p.Room, websocket.EventPresenceUpdate, p
		})

	listen(ctx, s, pubsub.NewEvent[typing.Update](typing.TopicRoomUpdated),
		func(p typing.Update) (string, websocket.Event, any) {
			return p.Room, websocket.EventTypingUpdate, p
		})

	listen(ctx, s, pubsub.NewEvent[events.MessageCreated](topics.MessageCreated),
		func(p events.MessageCreated) (string, websocket.Event, any) {
			return p.Room, websocket.EventMessageCreated, p
		})

	listen(ctx, s, pubsub.NewEvent[events.ReactionUpdated](topics.ReactionUpdated),
		func(p events.ReactionUpdated) (string, websocket.Event, any) {
			return p.Room, websocket.EventReactionUpdate, p
		})

	listen(ctx, s, pubsub.NewEvent[events.ReceiptUpdated](topics.ReceiptUpdated),
		func(p events.ReceiptUpdated) (string, websocket.Event, any) {
			return p.Room, websocket.EventReadReceiptUpdate, p
		})

	listen(ctx, s, pubsub.NewEvent[events.MessageDeleted](topics.MessageDeleted),
		func(p events.MessageDeleted) (string, websocket.Event, any) {
			return p.Room, websocket.EventMessageDeleted, p
		})

	listen(ctx, s, pubsub.NewEvent[events.MessageRestored](topics.MessageRestored),
		func(p events.MessageRestored) (string, websocket.Event, any) {
			return p.Room, websocket.EventMessageRestored, p
		})
}

// listen wires one typed topic to the hub. The route function extracts the
// destination room and wire event kind from the payload.
func listen[T any](ctx context.Context, s *Subscriber, event pubsub.Event[T], route func(T) (string, websocket.Event, any)) {
	go func() {
		err := pubsub.SubscribeTyped(ctx, s.subscriber, event, func(ctx context.Context, payload T) error {
			room, kind, body := route(payload)
			if room == "" {
				return nil
			}

			data, err := websocket.NewEnvelope(kind, room, body)
			if err != nil {
				return err
			}
			s.hub.Publish(room, data)
			return nil
		})
		if err != nil && err != context.Canceled {
			slog.Error("Chat fan-out subscriber stopped with error", "topic", event.Name(), "error", err)
		}
	}()
}
