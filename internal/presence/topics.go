package presence

import (
	"errors"

	"github.com/nfrund/agora/internal/topicmgr"
)

// Framework topics for the presence registry.

var (
	// TopicRoomUpdated is published whenever a room's participant set changes.
	TopicRoomUpdated = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "presence.room.updated",
		Description: "Published when a user joins or leaves a room",
		Example:     `{"room":"community:general","users":["alice","bob"]}`,
	})
)

// Update is the payload published on TopicRoomUpdated. Users is the full
// current participant list, sorted, so subscribers never need to diff.
type Update struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

// RegisterTopics registers all presence framework topics with the topic
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
