package presence

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/nfrund/agora/internal/domain"
	"github.com/nfrund/agora/internal/pubsub"
)

// Registry tracks which usernames are currently connected to which room.
// State is process-local and ephemeral: it is rebuilt from connection
// events, never restored from storage. A future distributed deployment
// would swap this for a shared store behind the same methods, which is why
// it is an injected component rather than a package-level map.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]map[string]struct{}
	publisher pubsub.Publisher
	event     pubsub.Event[Update]
	logger    *slog.Logger
}

// NewRegistry creates a presence registry publishing updates on the
// injected bus.
func NewRegistry(publisher pubsub.Publisher) *Registry {
	if err := RegisterTopics(); err != nil {
		slog.Error("failed to register presence topics", "error", err)
	}

	return &Registry{
		rooms:     make(map[string]map[string]struct{}),
		publisher: publisher,
		event:     pubsub.NewEvent[Update](TopicRoomUpdated),
		logger:    slog.Default().With("service", "presence"),
	}
}

// Join idempotently adds user to the room's participant set and publishes
// the updated list. Joining a room twice is not an error.
func (r *Registry) Join(ctx context.Context, room, user string) error {
	if room == "" {
		return domain.NewValidationError("room", "must not be empty")
	}
	if user == "" {
		return domain.NewValidationError("user", "must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]struct{})
	}
	if _, ok := r.rooms[room][user]; ok {
		// Repeat join: publish anyway so a rejoining client gets a
		// fresh list, but skip the log noise.
		return r.publishLocked(ctx, room)
	}
	r.rooms[room][user] = struct{}{}

	r.logger.Debug("User joined room", "room", room, "user", user, "participants", len(r.rooms[room]))
	return r.publishLocked(ctx, room)
}

// Leave removes user from the room and publishes the updated list. When the
// last participant leaves, the room entry itself is deleted so that many
// short-lived rooms do not grow the map without bound.
func (r *Registry) Leave(ctx context.Context, room, user string) error {
	if room == "" {
		return domain.NewValidationError("room", "must not be empty")
	}
	if user == "" {
		return domain.NewValidationError("user", "must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.rooms[room]
	if !ok {
		return nil
	}
	if _, ok := users[user]; !ok {
		return nil
	}

	delete(users, user)
	if len(users) == 0 {
		delete(r.rooms, room)
	}

	r.logger.Debug("User left room", "room", room, "user", user, "participants", len(users))
	return r.publishLocked(ctx, room)
}

// List returns the current participant set as a sorted slice. An unknown
// room yields an empty slice, never an error.
func (r *Registry) List(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listLocked(room)
}

// RoomCount returns the number of rooms with at least one participant.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

func (r *Registry) listLocked(room string) []string {
	users := make([]string, 0, len(r.rooms[room]))
	for user := range r.rooms[room] {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// publishLocked publishes the room's current list while the caller holds
// the mutation lock, so subscribers observe updates in mutation order.
func (r *Registry) publishLocked(ctx context.Context, room string) error {
	update := Update{
		Room:  room,
		Users: r.listLocked(room),
	}
	if err := pubsub.Publish(ctx, r.publisher, r.event, update); err != nil {
		r.logger.Error("Failed to publish presence update", "room", room, "error", err)
		return err
	}
	return nil
}
