package websocket

import "encoding/json"

// Event identifies the kind of state change carried by an outbound
// envelope. The set is fixed: clients switch on these values.
type Event string

const (
	EventPresenceUpdate    Event = "presenceUpdate"
	EventTypingUpdate      Event = "typingUpdate"
	EventReactionUpdate    Event = "reactionUpdate"
	EventReadReceiptUpdate Event = "readReceiptUpdate"
	EventMessageDeleted    Event = "messageDeleted"
	EventMessageRestored   Event = "messageRestored"
	EventMessageCreated    Event = "messageCreated"
	EventError             Event = "error"
)

// Envelope is the wire format for every payload sent to a client.
type Envelope struct {
	Event   Event           `json:"event"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals an outbound envelope for the given event and payload.
func NewEnvelope(event Event, room string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	return json.Marshal(Envelope{
		Event:   event,
		Room:    room,
		Payload: raw,
	})
}

// errorPayload is the body of an EventError envelope.
type errorPayload struct {
	Message string `json:"message"`
}

// NewErrorEnvelope builds the envelope sent back to a client whose command
// could not be processed.
func NewErrorEnvelope(message string) []byte {
	// Marshaling a flat struct of strings cannot fail.
	data, _ := NewEnvelope(EventError, "", errorPayload{Message: message})
	return data
}
