package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/agora/internal/hub"
	"github.com/nfrund/agora/internal/presence"
	"github.com/nfrund/agora/internal/pubsub"
	"github.com/nfrund/agora/internal/typing"
)

const (
	// sendBuffer is the per-connection outbound queue. A client that falls
	// this far behind is treated as dead and evicted by the hub.
	sendBuffer = 256

	writeTimeout = 10 * time.Second
)

// Client represents a single connected WebSocket client.
type Client struct {
	// ID is the unique identifier for this connection.
	ID string
	// User is the username the connection acts as.
	User string

	conn *websocket.Conn
	sub  *hub.Subscriber

	// rooms tracks which rooms this connection has joined, so presence can
	// be torn down when the connection terminates. Only the readPump
	// goroutine touches it.
	rooms map[string]struct{}
}

// Bridge manages WebSocket connections and routes traffic in both
// directions: inbound client commands into the presence registry and typing
// tracker, outbound room events from the Hub to the wire. Room subscription
// lives here: an explicit joinRoom subscribes the connection, an explicit
// leaveRoom or connection termination tears it down. Nothing is buffered
// for absent subscribers; a rejoining client reconciles via a full
// re-fetch.
type Bridge struct {
	hub       *hub.Hub
	presence  *presence.Registry
	typing    *typing.Tracker
	publisher pubsub.Publisher

	readyEvent      pubsub.Event[ClientReady]
	disconnectEvent pubsub.Event[ClientDisconnected]
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(h *hub.Hub, reg *presence.Registry, tracker *typing.Tracker, pub pubsub.Publisher) *Bridge {
	if err := RegisterTopics(); err != nil {
		slog.Error("failed to register websocket topics", "error", err)
	}

	return &Bridge{
		hub:             h,
		presence:        reg,
		typing:          tracker,
		publisher:       pub,
		readyEvent:      pubsub.NewEvent[ClientReady](TopicClientReady),
		disconnectEvent: pubsub.NewEvent[ClientDisconnected](TopicClientDisconnected),
	}
}

// Handler returns an echo.HandlerFunc that upgrades the request to a
// WebSocket connection. The acting user arrives in the "user" query
// parameter; authenticating that identity is the main application's
// concern, not ours.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.QueryParam("user")
		if user == "" {
			return c.String(http.StatusBadRequest, "missing user")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Origin checks belong to the fronting proxy.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:    uuid.NewString(),
			User:  user,
			conn:  conn,
			sub:   hub.NewSubscriber(uuid.NewString(), sendBuffer),
			rooms: make(map[string]struct{}),
		}

		go b.writePump(client)
		go b.readPump(client)

		if err := pubsub.Publish(c.Request().Context(), b.publisher, b.readyEvent, ClientReady{
			UserID:   client.User,
			ClientID: client.ID,
		}); err != nil {
			slog.Error("Failed to publish client ready event", "error", err)
		}

		slog.Info("WebSocket client connected", "userID", client.User, "clientID", client.ID)
		return nil
	}
}

// readPump reads client frames, dispatching each command to the presence
// registry and typing tracker. It owns connection teardown.
func (b *Bridge) readPump(client *Client) {
	ctx := context.Background()

	defer func() {
		b.teardown(ctx, client, "client_closed")
	}()

	for {
		_, data, err := client.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "userID", client.User)
			} else if err != io.EOF {
				slog.Error("WebSocket read error", "userID", client.User, "error", err)
			}
			return
		}

		cmd, err := ParseCommand(data)
		if err != nil {
			// Validation failures go back to the initiating client only.
			b.send(client, NewErrorEnvelope(err.Error()))
			continue
		}

		if err := b.dispatch(ctx, client, cmd); err != nil {
			b.send(client, NewErrorEnvelope(err.Error()))
		}
	}
}

// dispatch applies a single client command. Commands for one connection are
// applied in arrival order because readPump is the only caller.
func (b *Bridge) dispatch(ctx context.Context, client *Client, cmd *Command) error {
	switch cmd.Action {
	case ActionJoinRoom:
		b.hub.Subscribe(cmd.Room, client.sub)
		client.rooms[cmd.Room] = struct{}{}
		return b.presence.Join(ctx, cmd.Room, client.User)

	case ActionLeaveRoom:
		b.hub.Unsubscribe(cmd.Room, client.sub)
		delete(client.rooms, cmd.Room)
		if err := b.typing.Stop(ctx, cmd.Room, client.User); err != nil {
			return err
		}
		return b.presence.Leave(ctx, cmd.Room, client.User)

	case ActionStartTyping:
		return b.typing.Start(ctx, cmd.Room, client.User)

	case ActionStopTyping:
		return b.typing.Stop(ctx, cmd.Room, client.User)
	}

	// ParseCommand already rejected unknown actions.
	return nil
}

// teardown leaves every joined room, detaches the hub subscription and
// publishes the disconnect event.
func (b *Bridge) teardown(ctx context.Context, client *Client, reason string) {
	for room := range client.rooms {
		if err := b.typing.Stop(ctx, room, client.User); err != nil {
			slog.Error("Failed to clear typing state on disconnect", "room", room, "userID", client.User, "error", err)
		}
		if err := b.presence.Leave(ctx, room, client.User); err != nil {
			slog.Error("Failed to clear presence on disconnect", "room", room, "userID", client.User, "error", err)
		}
	}

	b.hub.Detach(client.sub)
	client.conn.Close(websocket.StatusNormalClosure, "Client disconnected")

	if err := pubsub.Publish(ctx, b.publisher, b.disconnectEvent, ClientDisconnected{
		UserID:   client.User,
		ClientID: client.ID,
		Reason:   reason,
	}); err != nil {
		slog.Error("Failed to publish client disconnected event", "error", err)
	}

	slog.Info("WebSocket client disconnected", "userID", client.User, "clientID", client.ID, "reason", reason)
}

// send queues a payload for the client without blocking the read loop.
func (b *Bridge) send(client *Client, payload []byte) {
	if !client.sub.TrySend(payload) {
		slog.Warn("Client send channel full or closed, dropping message", "userID", client.User)
	}
}

// writePump pumps payloads from the hub subscription to the WebSocket
// connection. It exits when the subscription channel is closed.
func (b *Bridge) writePump(client *Client) {
	defer func() {
		client.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for payload := range client.sub.Send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := client.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "userID", client.User, "error", err)
			return
		}
	}
}
