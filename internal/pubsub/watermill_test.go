package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/agora/internal/topicmgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_PublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	err := bridge.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:   "test.topic",
		UserID:  "alice",
		Payload: []byte(`{"hello":"world"}`),
		Metadata: map[string]string{
			"timestamp": "2024-01-01T00:00:00Z",
		},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "alice", msg.UserID)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "2024-01-01T00:00:00Z", msg.Metadata["timestamp"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestWatermillBridge_PreservesPublishOrder(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const count = 20
	received := make(chan string, count)
	err := bridge.Subscribe(ctx, "test.order", func(ctx context.Context, msg Message) error {
		received <- string(msg.Payload)
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		require.NoError(t, bridge.Publish(ctx, Message{
			Topic:   "test.order",
			Payload: []byte{byte('a' + i)},
		}))
	}

	for i := 0; i < count; i++ {
		select {
		case got := <-received:
			assert.Equal(t, string(rune('a'+i)), got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

type typedPayload struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

func TestTypedPublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[typedPayload](testTopic{"test.typed"})

	received := make(chan typedPayload, 1)
	err := SubscribeTyped(ctx, bridge, event, func(ctx context.Context, p typedPayload) error {
		received <- p
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, bridge, event, typedPayload{
		Room:  "general",
		Users: []string{"alice", "bob"},
	}))

	select {
	case got := <-received:
		assert.Equal(t, "general", got.Room)
		assert.Equal(t, []string{"alice", "bob"}, got.Users)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for typed payload")
	}
}

// testTopic is a minimal Topic for tests that avoids the shared registry.
type testTopic struct {
	name string
}

func (tt testTopic) Name() string               { return tt.name }
func (tt testTopic) Module() string             { return "" }
func (tt testTopic) Description() string        { return "" }
func (tt testTopic) Example() string            { return "" }
func (tt testTopic) Scope() topicmgr.TopicScope { return topicmgr.ScopeModule }
