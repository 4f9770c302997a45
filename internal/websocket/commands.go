package websocket

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/agora/internal/domain"
)

// Action is a subscription command a client can send over its connection.
type Action string

const (
	ActionJoinRoom    Action = "joinRoom"
	ActionLeaveRoom   Action = "leaveRoom"
	ActionStartTyping Action = "startTyping"
	ActionStopTyping  Action = "stopTyping"
)

// Command is the inbound client message. The user is taken from the
// connection, never from the payload, so a client cannot act as someone else.
type Command struct {
	Action Action `json:"action" validate:"required,oneof=joinRoom leaveRoom startTyping stopTyping"`
	Room   string `json:"room" validate:"required"`
}

var validate = validator.New()

// ParseCommand decodes and validates a raw client frame. Malformed or
// incomplete frames are reported as domain.ValidationError so the caller
// can surface them inline.
func ParseCommand(data []byte) (*Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, domain.NewValidationError("command", "malformed JSON")
	}

	if err := validate.Struct(&cmd); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, domain.NewValidationError(fe.Field(), "failed on "+fe.Tag())
		}
		return nil, domain.NewValidationError("command", err.Error())
	}

	return &cmd, nil
}
