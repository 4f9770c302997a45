package websocket

import (
	"errors"

	"github.com/nfrund/agora/internal/topicmgr"
)

// Framework topics for WebSocket connection lifecycle events.

var (
	// TopicClientReady is published when a client successfully connects.
	TopicClientReady = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.ready",
		Description: "Published when a new WebSocket client successfully connects",
		Example:     `{"userID":"alice","clientID":"conn456"}`,
	})

	// TopicClientDisconnected is published when a client disconnects.
	TopicClientDisconnected = topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.disconnected",
		Description: "Published when a WebSocket client disconnects",
		Example:     `{"userID":"alice","clientID":"conn456","reason":"client_closed"}`,
	})
)

// ClientReady is the payload published on TopicClientReady.
type ClientReady struct {
	UserID   string `json:"userID"`
	ClientID string `json:"clientID"`
}

// ClientDisconnected is the payload published on TopicClientDisconnected.
type ClientDisconnected struct {
	UserID   string `json:"userID"`
	ClientID string `json:"clientID"`
	Reason   string `json:"reason"`
}

// RegisterTopics registers all WebSocket framework topics with the topic
// manager. It is idempotent: duplicate registrations are skipped.
func RegisterTopics() error {
	manager := topicmgr.Default()

	topics := []topicmgr.Topic{
		TopicClientReady,
		TopicClientDisconnected,
	}

	for _, topic := range topics {
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
