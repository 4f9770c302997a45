package database

import (
	"context"
	"fmt"
	"time"

	"github.com/nfrund/agora/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealMessageStore persists messages in SurrealDB. All sub-collection
// mutations are single-statement, field-scoped updates so that concurrent
// writers on the same message never lose updates; there is no
// read-modify-write anywhere in this store.
type SurrealMessageStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.MessageStore = (*SurrealMessageStore)(nil)

// NewSurrealMessageStore creates a new SurrealMessageStore.
func NewSurrealMessageStore(db *surrealdb.DB, ns, dbName string) *SurrealMessageStore {
	return &SurrealMessageStore{db: db, ns: ns, dbName: dbName}
}

// use selects the store's namespace and database for the operation.
func (s *SurrealMessageStore) use(ctx context.Context) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}
	return nil
}

// Create saves a new message with empty reaction and seen-by sets.
func (s *SurrealMessageStore) Create(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := `CREATE message SET
		room = $room,
		sender = $sender,
		body = $body,
		mode = $mode,
		createdAt = time::now(),
		reactions = [],
		seenBy = []
	RETURN AFTER`
	params := map[string]any{
		"room":   fields.Room,
		"sender": fields.Sender,
		"body":   fields.Body,
		"mode":   fields.Mode,
	}

	created, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("message was not created or could not be fetched")
	}
	return created, nil
}

// Get returns the message by id, or domain.ErrMessageNotFound.
func (s *SurrealMessageStore) Get(ctx context.Context, id string) (*domain.Message, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := "SELECT * FROM type::thing('message', $id)"
	msg, err := QueryOne[domain.Message](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}

// AddReaction appends the (emoji, user) pair with set semantics.
// array::union is idempotent, so two concurrent adds of the same pair
// still yield a single entry.
func (s *SurrealMessageStore) AddReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Message, error) {
	return s.updateOne(ctx, id,
		"UPDATE type::thing('message', $id) SET reactions = array::union(reactions, [$reaction]) RETURN AFTER",
		map[string]any{"id": id, "reaction": r})
}

// RemoveReaction removes any matching (emoji, user) pair. Removing an
// absent pair succeeds with no change.
func (s *SurrealMessageStore) RemoveReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Message, error) {
	return s.updateOne(ctx, id,
		"UPDATE type::thing('message', $id) SET reactions = array::complement(reactions, [$reaction]) RETURN AFTER",
		map[string]any{"id": id, "reaction": r})
}

// MarkSeen adds userID to the seenBy set. The set only ever grows while the
// message is active.
func (s *SurrealMessageStore) MarkSeen(ctx context.Context, id string, userID string) (*domain.Message, error) {
	return s.updateOne(ctx, id,
		"UPDATE type::thing('message', $id) SET seenBy = array::union(seenBy, [$user]) RETURN AFTER",
		map[string]any{"id": id, "user": userID})
}

// SoftDelete transitions Active -> Deleted in one conditional statement.
// The WHERE clause makes the transition atomic: of two concurrent deletes,
// exactly one matches. A nil result with nil error means the condition did
// not match (already deleted); the caller reclassifies.
func (s *SurrealMessageStore) SoftDelete(ctx context.Context, id string, placeholder string, at time.Time) (*domain.Message, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := `UPDATE type::thing('message', $id) SET
		deletion = { deletedAt: $at, originalBody: body },
		body = $placeholder
	WHERE deletion = NONE RETURN AFTER`
	params := map[string]any{
		"id":          id,
		"placeholder": placeholder,
		"at":          at,
	}

	msg, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to soft-delete message: %w", err)
	}
	return msg, nil
}

// Restore transitions Deleted -> Active, putting the original body back and
// clearing the deletion record. The window guard is enforced by the caller;
// the store only guarantees the Deleted-state condition atomically.
func (s *SurrealMessageStore) Restore(ctx context.Context, id string) (*domain.Message, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	query := `UPDATE type::thing('message', $id) SET
		body = deletion.originalBody,
		deletion = NONE
	WHERE deletion != NONE RETURN AFTER`

	msg, err := QueryOne[domain.Message](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to restore message: %w", err)
	}
	return msg, nil
}

// updateOne runs an UPDATE that must match the message row, translating a
// missing row into domain.ErrMessageNotFound.
func (s *SurrealMessageStore) updateOne(ctx context.Context, id, query string, params map[string]any) (*domain.Message, error) {
	if err := s.use(ctx); err != nil {
		return nil, err
	}

	msg, err := QueryOne[domain.Message](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	if msg == nil {
		return nil, domain.ErrMessageNotFound
	}
	return msg, nil
}
