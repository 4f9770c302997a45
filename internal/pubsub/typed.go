package pubsub

import (
	"context"
	"encoding/json"

	"github.com/nfrund/agora/internal/topicmgr"
)

// Event[T] wraps a topic name and provides type-safe publishing: the
// compiler guarantees that the payload published on a topic matches the
// payload type subscribers decode. This replaces dynamically-keyed callback
// maps with a fixed, enumerable set of event variants.
type Event[T any] struct {
	topic topicmgr.Topic
}

// NewEvent creates a typed event over an already-defined topic.
func NewEvent[T any](topic topicmgr.Topic) Event[T] {
	return Event[T]{topic: topic}
}

// Name returns the underlying topic name.
func (e Event[T]) Name() string {
	return e.topic.Name()
}

// Publish sends a typed event. The compiler ensures payload matches T.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		Payload: data,
	})
}

// SubscribeTyped attaches a typed handler to the event's topic. Payloads
// that fail to decode are logged and dropped by the underlying bridge.
func SubscribeTyped[T any](ctx context.Context, s Subscriber, event Event[T], handler func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		return handler(ctx, payload)
	})
}
