// Package topics defines the pub/sub topics owned by the chat module.
package topics

import (
	"errors"

	"github.com/nfrund/agora/internal/topicmgr"
)

var (
	// MessageCreated is published after a new message is persisted.
	MessageCreated = topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "chat.message.created",
		Description: "Published when a new chat message is persisted",
		Example:     `{"room":"general","message":{"id":"message:abc","body":"hello"}}`,
	})

	// ReactionUpdated is published whenever a message's reaction set changes.
	ReactionUpdated = topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "chat.reaction.updated",
		Description: "Published when a reaction is added to or removed from a message",
		Example:     `{"room":"general","messageId":"message:abc","reactions":[{"emoji":"👍","userId":"alice"}]}`,
	})

	// ReceiptUpdated is published whenever a message's seen-by set grows.
	ReceiptUpdated = topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "chat.receipt.updated",
		Description: "Published when a user marks a message as seen",
		Example:     `{"room":"general","messageId":"message:abc","seenBy":["alice"],"seenAt":"2024-06-01T12:00:00Z"}`,
	})

	// MessageDeleted is published when a message is soft-deleted.
	MessageDeleted = topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "chat.message.deleted",
		Description: "Published when a sender soft-deletes their message",
		Example:     `{"room":"general","messageId":"message:abc","placeholderBody":"This message was deleted"}`,
	})

	// MessageRestored is published when a deleted message is restored.
	MessageRestored = topicmgr.DefineModule(topicmgr.TopicConfig{
		Name:        "chat.message.restored",
		Description: "Published when a soft-deleted message is restored within the window",
		Example:     `{"room":"general","message":{"id":"message:abc","body":"hello"}}`,
	})
)

// Register registers all chat topics with the topic manager. Duplicate
// registrations are skipped so tests can call it repeatedly.
func Register() error {
	manager := topicmgr.Default()

	all := []topicmgr.Topic{
		MessageCreated,
		ReactionUpdated,
		ReceiptUpdated,
		MessageDeleted,
		MessageRestored,
	}

	for _, topic := range all {
		if err := manager.Register(topic); err != nil {
			var topicErr *topicmgr.TopicError
			if errors.As(err, &topicErr) && topicErr.Type == topicmgr.ErrorDuplicateRegistration {
				continue
			}
			return err
		}
	}
	return nil
}
