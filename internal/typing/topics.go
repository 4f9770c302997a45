package typing

import (
	"errors"

	"github.com/nfrund/agora/internal/topicmgr"
)

// Framework topics for the typing indicator tracker.

var (
	// TopicRoomUpdated is published whenever a room's typing set changes.
	TopicRoomUpdated = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "typing.room.updated",
		Description: "Published when a user starts or stops typing in a room",
		Example:     `{"room":"community:general","users":["alice"]}`,
	})
)

// Update is the payload published on TopicRoomUpdated. Users holds the
// usernames currently typing, sorted.
type Update struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// RegisterTopics registers all typing framework topics with the topic
// manager. It is idempotent: duplicate registrations are skipped.
func RegisterTopics() error {
	manager := topicmgr.Default()

	for _, topic := range []topicmgr.Topic{TopicRoomUpdated} {
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
