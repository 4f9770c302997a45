package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPublisher implements pubsub.Publisher for testing.
type mockPublisher struct {
	mu       sync.Mutex
	messages []pubsub.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) topicCount(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, msg := range m.messages {
		if msg.Topic == topic {
			count++
		}
	}
	return count
}

// fakeStore is an in-memory MessageStore that mimics the atomic set
// semantics of the real store.
type fakeStore struct {
	mu       sync.Mutex
	messages map[string]*domain.Message
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*domain.Message)}
}

func (s *fakeStore) Create(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	msg := &domain.Message{
		ID:        fmt.Sprintf("message:%d", s.nextID),
		Room:      fields.Room,
		Sender:    fields.Sender,
		Body:      fields.Body,
		Mode:      fields.Mode,
		CreatedAt: time.Now(),
		Reactions: []domain.Reaction{},
		SeenBy:    []string{},
	}
	s.messages[msg.ID] = msg
	return copyMessage(msg), nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return copyMessage(msg), nil
}

func (s *fakeStore) AddReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if !msg.HasReaction(r) {
		msg.Reactions = append(msg.Reactions, r)
	}
	return copyMessage(msg), nil
}

func (s *fakeStore) RemoveReaction(ctx context.Context, id string, r domain.Reaction) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	kept := msg.Reactions[:0]
	for _, existing := range msg.Reactions {
		if existing != r {
			kept = append(kept, existing)
		}
	}
	msg.Reactions = kept
	return copyMessage(msg), nil
}

func (s *fakeStore) MarkSeen(ctx context.Context, id string, userID string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if !msg.SeenByUser(userID) {
		msg.SeenBy = append(msg.SeenBy, userID)
	}
	return copyMessage(msg), nil
}

func (s *fakeStore) SoftDelete(ctx context.Context, id string, placeholder string, at time.Time) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if msg.Deleted() {
		return nil, nil
	}
	msg.Deletion = &domain.Deletion{DeletedAt: at, OriginalBody: msg.Body}
	msg.Body = placeholder
	return copyMessage(msg), nil
}

func (s *fakeStore) Restore(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	if !msg.Deleted() {
		return nil, nil
	}
	msg.Body = msg.Deletion.OriginalBody
	msg.Deletion = nil
	return copyMessage(msg), nil
}

func copyMessage(msg *domain.Message) *domain.Message {
	dup := *msg
	dup.Reactions = append([]domain.Reaction(nil), msg.Reactions...)
	dup.SeenBy = append([]string(nil), msg.SeenBy...)
	if msg.Deletion != nil {
		deletion := *msg.Deletion
		dup.Deletion = &deletion
	}
	return &dup
}

// fakeDirectory resolves a fixed set of users.
type fakeDirectory struct {
	users map[string]*domain.User
}

func newFakeDirectory(usernames ...string) *fakeDirectory {
	d := &fakeDirectory{users: make(map[string]*domain.User)}
	for _, name := range usernames {
		d.users[name] = &domain.User{ID: name, Username: name}
	}
	return d
}

func (d *fakeDirectory) Resolve(ctx context.Context, username string) (*domain.User, error) {
	user, ok := d.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// fakeClock is a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	service   Service
	store     *fakeStore
	publisher *mockPublisher
	clock     *fakeClock
}

func newFixture(t *testing.T, usernames ...string) *fixture {
	t.Helper()

	store := newFakeStore()
	publisher := &mockPublisher{}
	clock := newFakeClock()
	svc := NewService(store, newFakeDirectory(usernames...), publisher, WithClock(clock.Now))

	return &fixture{service: svc, store: store, publisher: publisher, clock: clock}
}

func (f *fixture) createMessage(t *testing.T, room, sender, body string) *domain.Message {
	t.Helper()
	msg, err := f.service.CreateMessage(context.Background(), domain.NewMessage{
		Room:   room,
		Sender: sender,
		Body:   body,
	})
	require.NoError(t, err)
	return msg
}

func TestCreateMessage(t *testing.T) {
	f := newFixture(t, "alice")

	msg := f.createMessage(t, "general", "alice", "hello")
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.RenderModePlain, msg.Mode)
	assert.False(t, msg.Deleted())
	assert.Equal(t, 1, f.publisher.topicCount("chat.message.created"))
}

func TestCreateMessage_Validation(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()

	_, err := f.service.CreateMessage(ctx, domain.NewMessage{Sender: "alice", Body: "hi"})
	assert.True(t, domain.IsValidation(err))

	_, err = f.service.CreateMessage(ctx, domain.NewMessage{Room: "general", Body: "hi"})
	assert.True(t, domain.IsValidation(err))

	_, err = f.service.CreateMessage(ctx, domain.NewMessage{Room: "general", Sender: "alice"})
	assert.True(t, domain.IsValidation(err))
}

func TestAddReaction_Idempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	first, err := f.service.AddReaction(ctx, msg.ID, "bob", "👍")
	require.NoError(t, err)
	assert.False(t, first.AlreadyExists)
	assert.Len(t, first.Reactions, 1)

	second, err := f.service.AddReaction(ctx, msg.ID, "bob", "👍")
	require.NoError(t, err)
	assert.True(t, second.AlreadyExists)
	assert.Len(t, second.Reactions, 1)

	// Only the first add published an update.
	assert.Equal(t, 1, f.publisher.topicCount("chat.reaction.updated"))
}

func TestAddReaction_UnknownUserAndMessage(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.AddReaction(ctx, msg.ID, "ghost", "👍")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.service.AddReaction(ctx, "message:missing", "alice", "👍")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestRemoveReaction_Idempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.AddReaction(ctx, msg.ID, "bob", "👍")
	require.NoError(t, err)

	reactions, err := f.service.RemoveReaction(ctx, msg.ID, "bob", "👍")
	require.NoError(t, err)
	assert.Empty(t, reactions)

	// Removing again succeeds and leaves the set unchanged.
	reactions, err = f.service.RemoveReaction(ctx, msg.ID, "bob", "👍")
	require.NoError(t, err)
	assert.Empty(t, reactions)
}

func TestReactions(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	reactions, err := f.service.Reactions(ctx, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, reactions)

	_, err = f.service.AddReaction(ctx, msg.ID, "bob", "🎉")
	require.NoError(t, err)

	reactions, err = f.service.Reactions(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Reaction{{Emoji: "🎉", UserID: "bob"}}, reactions)

	_, err = f.service.Reactions(ctx, "message:missing")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestMarkSeen_Monotonic(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	receipt, err := f.service.MarkSeen(ctx, msg.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, receipt.SeenBy)

	// Repeat calls never grow or shrink the set.
	receipt, err = f.service.MarkSeen(ctx, msg.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, receipt.SeenBy)

	receipt, err = f.service.MarkSeen(ctx, msg.ID, "carol")
	require.NoError(t, err)
	assert.Len(t, receipt.SeenBy, 2)

	_, err = f.service.MarkSeen(ctx, "message:missing", "bob")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestMarkSeen_ConcurrentUsers(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", n%5)
			_, err := f.service.MarkSeen(context.Background(), msg.ID, user)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	current, err := f.store.Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Len(t, current.SeenBy, 5)
}

func TestDelete_OwnershipGuard(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.Delete(ctx, msg.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	// The failed delete left the message untouched.
	current, err := f.service.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, current.Deleted())
	assert.Equal(t, "hello", current.Body)
}

func TestDelete_ReplacesBodyWithPlaceholder(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	deleted, err := f.service.Delete(ctx, msg.ID, "alice")
	require.NoError(t, err)
	assert.True(t, deleted.Deleted())
	assert.Equal(t, domain.DeletedPlaceholder, deleted.Body)
	assert.Equal(t, "hello", deleted.Deletion.OriginalBody)
	assert.Equal(t, 1, f.publisher.topicCount("chat.message.deleted"))
}

func TestDelete_AlreadyDeletedIsNoOp(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.Delete(ctx, msg.ID, "alice")
	require.NoError(t, err)

	again, err := f.service.Delete(ctx, msg.ID, "alice")
	require.NoError(t, err)
	assert.True(t, again.Deleted())

	// No second deletion event.
	assert.Equal(t, 1, f.publisher.topicCount("chat.message.deleted"))
}

func TestRestore_RoundTrip(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.Delete(ctx, msg.ID, "alice")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)

	restored, err := f.service.Restore(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", restored.Body)
	assert.False(t, restored.Deleted())
	assert.Equal(t, 1, f.publisher.topicCount("chat.message.restored"))
}

func TestRestore_WindowExpired(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	_, err := f.service.Delete(ctx, msg.ID, "alice")
	require.NoError(t, err)

	f.clock.Advance(16 * time.Minute)

	_, err = f.service.Restore(ctx, msg.ID)
	assert.ErrorIs(t, err, domain.ErrWindowExpired)
}

func TestRestore_GuardFailures(t *testing.T) {
	f := newFixture(t, "alice")
	msg := f.createMessage(t, "general", "alice", "hello")
	ctx := context.Background()

	// Not deleted yet.
	_, err := f.service.Restore(ctx, msg.ID)
	assert.ErrorIs(t, err, domain.ErrNotDeleted)

	// Unknown message reports the same guard failure.
	_, err = f.service.Restore(ctx, "message:missing")
	assert.ErrorIs(t, err, domain.ErrNotDeleted)
}

func TestSeenPercentageAndMark(t *testing.T) {
	tests := []struct {
		name  string
		seen  int
		total int
		pct   float64
		mark  string
	}{
		{"nobody", 0, 4, 0, ""},
		{"half", 2, 4, 50, ""},
		{"majority", 3, 4, 75, "✓"},
		{"everyone", 4, 4, 100, "✓✓"},
		{"no participants", 0, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct := SeenPercentage(tt.seen, tt.total)
			assert.InDelta(t, tt.pct, pct, 0.001)
			assert.Equal(t, tt.mark, ReceiptMark(pct))
		})
	}
}
