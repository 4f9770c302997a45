package hub

import (
	"log/slog"
	"sync"
)

// Subscriber represents a single client connection that receives payloads
// for the rooms it has joined. The Hub sends byte slices to Send; the
// owning connection is responsible for draining it.
type Subscriber struct {
	// ID identifies the subscriber in logs, typically the connection id.
	ID string

	// Send is a buffered channel of outbound payloads.
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewSubscriber creates a subscriber with a buffered send channel.
func NewSubscriber(id string, buffer int) *Subscriber {
	return &Subscriber{
		ID:   id,
		Send: make(chan []byte, buffer),
	}
}

// TrySend queues payload without blocking. It reports false when the
// buffer is full or the subscriber has already been closed.
func (s *Subscriber) TrySend(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.Send <- payload:
		return true
	default:
		return false
	}
}

// Closed reports whether the send channel has been closed.
func (s *Subscriber) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// close shuts the send channel exactly once, even when eviction and detach race.
func (s *Subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.Send)
}

// Hub is the room-scoped fan-out dispatcher. It maintains, per room, the set
// of active subscribers and delivers each published payload to every
// subscriber of that room and to no one else. Undelivered events are not
// persisted; a client that is not subscribed at publish time misses the
// event and reconciles via a full re-fetch on join.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscriber]bool
}

// New creates and returns a new Hub instance.
func New() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscriber]bool),
	}
}

// Subscribe adds the subscriber to a room. Repeat subscriptions are no-ops.
// A subscriber whose send channel was closed by an eviction cannot rejoin;
// its connection is already on its way down.
func (h *Hub) Subscribe(room string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.Closed() {
		slog.Warn("Ignoring subscription from closed subscriber", "room", room, "subscriber", sub.ID)
		return
	}

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscriber]bool)
	}
	h.rooms[room][sub] = true
	slog.Debug("Subscriber joined room", "room", room, "subscriber", sub.ID, "room_size", len(h.rooms[room]))
}

// Unsubscribe removes the subscriber from a room. The room entry is deleted
// when its last subscriber leaves, so short-lived rooms do not accumulate.
func (h *Hub) Unsubscribe(room string, sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(room, sub)
}

// Detach removes the subscriber from every room and closes its send
// channel. Called on connection termination.
func (h *Hub) Detach(sub *Subscriber) {
	h.mu.Lock()
	for room := range h.rooms {
		h.removeLocked(room, sub)
	}
	h.mu.Unlock()

	sub.close()
}

// Publish delivers payload to every current subscriber of the room.
// Delivery is best-effort: a subscriber whose buffer is full is assumed dead
// or stuck, and is evicted rather than failing the whole broadcast.
func (h *Hub) Publish(room string, payload []byte) {
	h.mu.RLock()
	subs := h.rooms[room]
	var evicted []*Subscriber
	for sub := range subs {
		if !sub.TrySend(payload) {
			evicted = append(evicted, sub)
		}
	}
	h.mu.RUnlock()

	if len(evicted) == 0 {
		return
	}

	h.mu.Lock()
	for _, sub := range evicted {
		for r := range h.rooms {
			h.removeLocked(r, sub)
		}
		sub.close()
		slog.Warn("Evicting slow subscriber", "room", room, "subscriber", sub.ID)
	}
	h.mu.Unlock()
}

// RoomSize returns the number of subscribers currently in the room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// removeLocked deletes sub from the room's set and reclaims the room key
// when the set empties. Caller must hold the write lock.
func (h *Hub) removeLocked(room string, sub *Subscriber) {
	subs, ok := h.rooms[room]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
	slog.Debug("Subscriber left room", "room", room, "subscriber", sub.ID)
}
