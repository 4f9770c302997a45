package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/modules/chat/events"
	"github.com/nfrund/agora/internal/modules/chat/topics"
	"github.com/nfrund/agora/internal/pubsub"
)

// DefaultRestoreWindow is how long after a soft delete the sender may still
// restore the message.
const DefaultRestoreWindow = 15 * time.Minute

// service implements Service over a MessageStore and a UserDirectory.
type service struct {
	store     domain.MessageStore
	directory domain.UserDirectory
	publisher pubsub.Publisher

	window time.Duration
	now    func() time.Time

	createdEvent  pubsub.Event[events.MessageCreated]
	reactionEvent pubsub.Event[events.ReactionUpdated]
	receiptEvent  pubsub.Event[events.ReceiptUpdated]
	deletedEvent  pubsub.Event[events.MessageDeleted]
	restoredEvent pubsub.Event[events.MessageRestored]
}

// ServiceOption customizes a Service.
type ServiceOption func(*service)

// WithRestoreWindow overrides the restoration window.
func WithRestoreWindow(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock injects a time source. Tests use this to control the
// restoration window deadline.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the chat coordination service.
func NewService(store domain.MessageStore, directory domain.UserDirectory, publisher pubsub.Publisher, opts ...ServiceOption) Service {
	s := &service{
		store:     store,
		directory: directory,
		publisher: publisher,
		window:    DefaultRestoreWindow,
		now:       time.Now,

		createdEvent:  pubsub.NewEvent[events.MessageCreated](topics.MessageCreated),
		reactionEvent: pubsub.NewEvent[events.ReactionUpdated](topics.ReactionUpdated),
		receiptEvent:  pubsub.NewEvent[events.ReceiptUpdated](topics.ReceiptUpdated),
		deletedEvent:  pubsub.NewEvent[events.MessageDeleted](topics.MessageDeleted),
		restoredEvent: pubsub.NewEvent[events.MessageRestored](topics.MessageRestored),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMessage persists a new message and announces it to the room.
func (s *service) CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	switch {
	case fields.Room == "":
		return nil, domain.NewValidationError("room", "must not be empty")
	case fields.Sender == "":
		return nil, domain.NewValidationError("sender", "must not be empty")
	case fields.Body == "":
		return nil, domain.NewValidationError("body", "must not be empty")
	}
	if fields.Mode == "" {
		fields.Mode = domain.RenderModePlain
	}

	msg, err := s.store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.createdEvent, events.MessageCreated{
			Room:    msg.Room,
			Message: msg,
		})
	})
	return msg, nil
}

// GetMessage returns a message by id.
func (s *service) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	if id == "" {
		return nil, domain.NewValidationError("messageId", "must not be empty")
	}
	return s.store.Get(ctx, id)
}

// AddReaction records an (emoji, user) pair on a message. Adding a pair
// that is already present is acknowledged without mutating or publishing.
func (s *service) AddReaction(ctx context.Context, messageID, username, emoji string) (*ReactionAck, error) {
	if err := requireFields(map[string]string{
		"messageId": messageID,
		"username":  username,
		"emoji":     emoji,
	}); err != nil {
		return nil, err
	}

	user, err := s.directory.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	msg, err := s.store.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}

	reaction := domain.Reaction{Emoji: emoji, UserID: user.ID}
	if msg.HasReaction(reaction) {
		return &ReactionAck{Reactions: msg.Reactions, AlreadyExists: true}, nil
	}

	updated, err := s.store.AddReaction(ctx, messageID, reaction)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.reactionEvent, events.ReactionUpdated{
			Room:      updated.Room,
			MessageID: updated.ID,
			Reactions: updated.Reactions,
		})
	})
	return &ReactionAck{Reactions: updated.Reactions}, nil
}

// RemoveReaction deletes any matching (emoji, user) pair. Removing an
// absent pair succeeds with no change.
func (s *service) RemoveReaction(ctx context.Context, messageID, username, emoji string) ([]domain.Reaction, error) {
	if err := requireFields(map[string]string{
		"messageId": messageID,
		"username":  username,
		"emoji":     emoji,
	}); err != nil {
		return nil, err
	}

	user, err := s.directory.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.RemoveReaction(ctx, messageID, domain.Reaction{Emoji: emoji, UserID: user.ID})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.reactionEvent, events.ReactionUpdated{
			Room:      updated.Room,
			MessageID: updated.ID,
			Reactions: updated.Reactions,
		})
	})
	return updated.Reactions, nil
}

// Reactions returns the current reaction set for a message.
func (s *service) Reactions(ctx context.Context, messageID string) ([]domain.Reaction, error) {
	if messageID == "" {
		return nil, domain.NewValidationError("messageId", "must not be empty")
	}

	msg, err := s.store.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	return msg.Reactions, nil
}

// MarkSeen records that userID has observed the message. Repeat calls for
// the same user are no-ops; the seen-by set never shrinks.
func (s *service) MarkSeen(ctx context.Context, messageID, userID string) (*Receipt, error) {
	if err := requireFields(map[string]string{
		"messageId": messageID,
		"userId":    userID,
	}); err != nil {
		return nil, err
	}

	updated, err := s.store.MarkSeen(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}

	seenAt := s.now()
	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.receiptEvent, events.ReceiptUpdated{
			Room:      updated.Room,
			MessageID: updated.ID,
			SeenBy:    updated.SeenBy,
			SeenAt:    seenAt,
		})
	})
	return &Receipt{SeenBy: updated.SeenBy, SeenAt: seenAt}, nil
}

// Delete soft-deletes a message. Only the original sender may delete;
// deleting an already-deleted message succeeds without changing anything.
func (s *service) Delete(ctx context.Context, messageID, requestingUser string) (*domain.Message, error) {
	if err := requireFields(map[string]string{
		"messageId": messageID,
		"user":      requestingUser,
	}); err != nil {
		return nil, err
	}

	msg, err := s.store.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Sender != requestingUser {
		return nil, domain.ErrNotOwner
	}
	if msg.Deleted() {
		return msg, nil
	}

	updated, err := s.store.SoftDelete(ctx, messageID, domain.DeletedPlaceholder, s.now())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Another delete won the race. Report the current state as success.
		return s.store.Get(ctx, messageID)
	}

	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.deletedEvent, events.MessageDeleted{
			Room:            updated.Room,
			MessageID:       updated.ID,
			PlaceholderBody: updated.Body,
		})
	})
	return updated, nil
}

// Restore returns a soft-deleted message to its original body. Restore is
// only allowed while the restoration window measured from deletedAt is
// open; afterwards the deletion is permanent.
func (s *service) Restore(ctx context.Context, messageID string) (*domain.Message, error) {
	if messageID == "" {
		return nil, domain.NewValidationError("messageId", "must not be empty")
	}

	msg, err := s.store.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, domain.ErrNotDeleted
		}
		return nil, err
	}
	if !msg.Deleted() {
		return nil, domain.ErrNotDeleted
	}
	if s.now().Sub(msg.Deletion.DeletedAt) > s.window {
		return nil, domain.ErrWindowExpired
	}

	updated, err := s.store.Restore(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// The deletion record vanished between the check and the update.
		return nil, domain.ErrNotDeleted
	}

	s.publish(ctx, func() error {
		return pubsub.Publish(ctx, s.publisher, s.restoredEvent, events.MessageRestored{
			Room:    updated.Room,
			Message: updated,
		})
	})
	return updated, nil
}

// publish runs a best-effort event publication. A failed publish never
// fails the mutation that preceded it.
func (s *service) publish(ctx context.Context, fn func() error) {
	if err := fn(); err != nil {
		slog.Error("Failed to publish chat event", "error", err)
	}
}

// requireFields returns a ValidationError for the first empty field.
func requireFields(fields map[string]string) error {
	for _, name := range []string{"messageId", "username", "userId", "user", "emoji"} {
		if value, ok := fields[name]; ok && value == "" {
			return domain.NewValidationError(name, "must not be empty")
		}
	}
	return nil
}
