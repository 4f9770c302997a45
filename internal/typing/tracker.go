package typing

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/pubsub"
)

// DefaultTTL is how long a user counts as typing without a refresh. It
// matches the client-side debounce interval, so a healthy client refreshes
// before expiry.
const DefaultTTL = 2 * time.Second

// Tracker maintains, per room, the set of usernames currently composing a
// message. Each entry carries a server-owned expiry instant: a client that
// vanishes without sending a stop signal ages out on the next read instead
// of lingering as "typing" forever. Expiry is enforced lazily on read;
// there is no timer goroutine.
type Tracker struct {
	mu        sync.Mutex
	rooms     map[string]map[string]time.Time // room -> user -> expiry
	ttl       time.Duration
	publisher pubsub.Publisher
	event     pubsub.Event[Update]
	logger    *slog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithTTL overrides the typing expiry interval.
func WithTTL(ttl time.Duration) Option {
	return func(t *Tracker) {
		t.ttl = ttl
	}
}

// WithClock overrides the tracker's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a typing tracker publishing updates on the injected bus.
func NewTracker(publisher pubsub.Publisher, opts ...Option) *Tracker {
	if err := RegisterTopics(); err != nil {
		slog.Error("failed to register typing topics", "error", err)
	}

	t := &Tracker{
		rooms:     make(map[string]map[string]time.Time),
		ttl:       DefaultTTL,
		publisher: publisher,
		event:     pubsub.NewEvent[Update](TopicRoomUpdated),
		logger:    slog.Default().With("service", "typing"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start marks user as typing in room until now+TTL, refreshing the expiry
// if the user was already typing. Publishes the updated typing set.
func (t *Tracker) Start(ctx context.Context, room, user string) error {
	if room == "" {
		return domain.NewValidationError("room", "must not be empty")
	}
	if user == "" {
		return domain.NewValidationError("user", "must not be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rooms[room] == nil {
		t.rooms[room] = make(map[string]time.Time)
	}
	t.rooms[room][user] = t.now().Add(t.ttl)
	t.pruneLocked(room)

	return t.publishLocked(ctx, room)
}

// Stop removes user from the room's typing set immediately and publishes
// the updated set. Stopping when not typing is a no-op but still publishes,
// so a confused client converges on the true state.
func (t *Tracker) Stop(ctx context.Context, room, user string) error {
	if room == "" {
		return domain.NewValidationError("room", "must not be empty")
	}
	if user == "" {
		return domain.NewValidationError("user", "must not be empty")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if users, ok := t.rooms[room]; ok {
		delete(users, user)
		if len(users) == 0 {
			delete(t.rooms, room)
		}
	}
	t.pruneLocked(room)

	return t.publishLocked(ctx, room)
}

// Typists returns the users currently typing in room, sorted. Expired
// entries are pruned before reporting, so the tracker never reports a user
// as typing past expiry even absent an explicit stop.
func (t *Tracker) Typists(room string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(room)
	return t.typistsLocked(room)
}

// pruneLocked drops expired entries for the room and reclaims the room key
// if the set empties. Caller must hold the lock.
func (t *Tracker) pruneLocked(room string) {
	users, ok := t.rooms[room]
	if !ok {
		return
	}

	now := t.now()
	for user, expiry := range users {
		if !expiry.After(now) {
			delete(users, user)
			t.logger.Debug("Typing entry expired", "room", room, "user", user)
		}
	}
	if len(users) == 0 {
		delete(t.rooms, room)
	}
}

func (t *Tracker) typistsLocked(room string) []string {
	users := make([]string, 0, len(t.rooms[room]))
	for user := range t.rooms[room] {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// publishLocked publishes the room's typing set while the caller holds the
// lock, keeping event order aligned with mutation order.
func (t *Tracker) publishLocked(ctx context.Context, room string) error {
	update := Update{
		Room:  room,
		Users: t.typistsLocked(room),
	}
	if err := pubsub.Publish(ctx, t.publisher, t.event, update); err != nil {
		t.logger.Error("Failed to publish typing update", "room", room, "error", err)
		return err
	}
	return nil
}
