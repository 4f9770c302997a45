package domain

import (
	"context"
	"time"
)

// RenderMode controls how a message body is interpreted by clients.
type RenderMode string

const (
	RenderModePlain    RenderMode = "plain"
	RenderModeMarkdown RenderMode = "markdown"
)

// DeletedPlaceholder replaces the body of a soft-deleted message.
const DeletedPlaceholder = "This message was deleted"

// Reaction is a single (emoji, user) annotation on a message.
// A message holds at most one reaction per pair.
type Reaction struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"userId"`
}

// Deletion records the soft-delete state of a message. Its presence means
// the message is Deleted; its absence means Active.
type Deletion struct {
	DeletedAt    time.Time `json:"deletedAt"`
	OriginalBody string    `json:"originalBody"`
}

// Message is a persisted chat message. The core fields are immutable after
// creation; reactions, seenBy and deletion are independently updated
// sub-collections.
type Message struct {
	ID        string     `json:"id,omitempty"`
	Room      string     `json:"room"`
	Sender    string     `json:"sender"`
	Body      string     `json:"body"`
	Mode      RenderMode `json:"mode"`
	CreatedAt time.Time  `json:"createdAt"`

	Reactions []Reaction `json:"reactions"`
	SeenBy    []string   `json:"seenBy"`
	Deletion  *Deletion  `json:"deletion,omitempty"`
}

// Deleted reports whether the message is in the Deleted state.
func (m *Message) Deleted() bool {
	return m.Deletion != nil
}

// HasReaction reports whether the exact (emoji, user) pair is present.
func (m *Message) HasReaction(r Reaction) bool {
	for _, existing := range m.Reactions {
		if existing == r {
			return true
		}
	}
	return false
}

// SeenByUser reports whether userID is recorded in the seenBy set.
func (m *Message) SeenByUser(userID string) bool {
	for _, id := range m.SeenBy {
		if id == userID {
			return true
		}
	}
	return false
}

// NewMessage holds the caller-supplied fields for message creation.
type NewMessage struct {
	Room   string     `json:"room"`
	Sender string     `json:"sender"`
	Body   string     `json:"body"`
	Mode   RenderMode `json:"mode"`
}

// MessageStore defines the persistence contract for messages. All mutating
// operations on sub-collections must be atomic, field-scoped updates keyed
// by message id, so that concurrent writers never lose updates.
type MessageStore interface {
	Create(ctx context.Context, fields NewMessage) (*Message, error)
	Get(ctx context.Context, id string) (*Message, error)

	// AddReaction and RemoveReaction apply set semantics: adding an
	// existing pair or removing an absent pair leaves the set unchanged.
	AddReaction(ctx context.Context, id string, r Reaction) (*Message, error)
	RemoveReaction(ctx context.Context, id string, r Reaction) (*Message, error)

	// MarkSeen adds userID to the seenBy set (no-op if present).
	MarkSeen(ctx context.Context, id string, userID string) (*Message, error)

	// SoftDelete transitions Active -> Deleted, stashing the original body.
	// It returns nil with no error when the message was already deleted
	// (the condition did not match).
	SoftDelete(ctx context.Context, id string, placeholder string, at time.Time) (*Message, error)

	// Restore transitions Deleted -> Active. It returns nil with no error
	// when the message was not deleted (the condition did not match).
	Restore(ctx context.Context, id string) (*Message, error)
}
