// Package events defines the typed payloads carried on the chat module's
// topics. Each struct includes the room so the fan-out subscriber can route
// the event without a second lookup.
package events

import (
	"time"

	"github.com/nfrund/agora/internal/domain"
)

// MessageCreated carries a freshly persisted message.
type MessageCreated struct {
	Room    string          `json:"room"`
	Message *domain.Message `json:"message"`
}

// ReactionUpdated carries the full reaction set after a mutation.
type ReactionUpdated struct {
	Room      string            `json:"room"`
	MessageID string            `json:"messageId"`
	Reactions []domain.Reaction `json:"reactions"`
}

// ReceiptUpdated carries the full seen-by set after a markSeen.
type ReceiptUpdated struct {
	Room      string    `json:"room"`
	MessageID string    `json:"messageId"`
	SeenBy    []string  `json:"seenBy"`
	SeenAt    time.Time `json:"seenAt"`
}

// MessageDeleted announces a soft deletion. Clients swap the visible body
// for the placeholder.
type MessageDeleted struct {
	Room            string `json:"room"`
	MessageID       string `json:"messageId"`
	PlaceholderBody string `json:"placeholderBody"`
}

// MessageRestored carries the fully restored message record.
type MessageRestored struct {
	Room    string          `json:"room"`
	Message *domain.Message `json:"message"`
}
