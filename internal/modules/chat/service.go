package chat

import (
	"context"
	"time"

	"github.com/nfrund/agora/internal/domain"
)

// ReactionAck is the result of an AddReaction call. AlreadyExists is set
// when the exact (emoji, user) pair was present before the call; in that
// case no mutation happened and no event was published.
type ReactionAck struct {
	Reactions     []domain.Reaction
	AlreadyExists bool
}

// Receipt is the result of a MarkSeen call.
type Receipt struct {
	SeenBy []string
	SeenAt time.Time
}

// Service exposes the message coordination operations: creation, reactions,
// read receipts and the soft-delete/restore lifecycle. All guard failures
// come back as the domain sentinel errors or a domain.ValidationError.
type Service interface {
	CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error)
	GetMessage(ctx context.Context, id string) (*domain.Message, error)

	AddReaction(ctx context.Context, messageID, username, emoji string) (*ReactionAck, error)
	RemoveReaction(ctx context.Context, messageID, username, emoji string) ([]domain.Reaction, error)
	Reactions(ctx context.Context, messageID string) ([]domain.Reaction, error)

	MarkSeen(ctx context.Context, messageID, userID string) (*Receipt, error)

	Delete(ctx context.Context, messageID, requestingUser string) (*domain.Message, error)
	Restore(ctx context.Context, messageID string) (*domain.Message, error)
}

// SeenPercentage computes the share of participants who have seen a
// message. Total participant count comes from the caller; room membership
// is not this module's concern.
func SeenPercentage(seenCount, totalParticipants int) float64 {
	if totalParticipants <= 0 {
		return 0
	}
	return float64(seenCount) / float64(totalParticipants) * 100
}

// ReceiptMark maps a seen percentage to the display mark: a double check
// at 100%, a single check above 50%, otherwise nothing.
func ReceiptMark(percentage float64) string {
	switch {
	case percentage >= 100:
		return "✓✓"
	case percentage > 50:
		return "✓"
	default:
		return ""
	}
}
