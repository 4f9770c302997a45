package topicmgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	topic := DefineModule(TopicConfig{
		Name:        "chat.message.created",
		Description: "A message was persisted",
	})

	require.NoError(t, reg.Register(topic))

	got, ok := reg.Get("chat.message.created")
	require.True(t, ok)
	assert.Equal(t, "chat.message.created", got.Name())
	assert.Equal(t, "chat", got.Module(), "module should derive from the first name segment")
	assert.Equal(t, ScopeModule, got.Scope())
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := NewRegistry()

	topic := DefineFramework(TopicConfig{Name: "ws.client.ready"})
	require.NoError(t, reg.Register(topic))

	err := reg.Register(topic)
	require.Error(t, err)

	var topicErr *TopicError
	require.ErrorAs(t, err, &topicErr)
	assert.Equal(t, ErrorDuplicateRegistration, topicErr.Type)
}

func TestRegistry_ListByModule(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(DefineModule(TopicConfig{Name: "chat.reaction.updated"})))
	require.NoError(t, reg.Register(DefineModule(TopicConfig{Name: "chat.receipt.updated"})))
	require.NoError(t, reg.Register(DefineModule(TopicConfig{Name: "presence.room.updated"})))

	assert.Len(t, reg.ListByModule("chat"), 2)
	assert.Len(t, reg.ListByModule("presence"), 1)
	assert.Equal(t, 3, reg.Count())
}

func TestRegistry_RejectsInvalidTopics(t *testing.T) {
	reg := NewRegistry()

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(DefineFramework(TopicConfig{Name: ""})))
}
