package websocket

import (
	"testing"

	"github.com/nfrund/agora/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_ValidActions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Action
	}{
		{"join", `{"action":"joinRoom","room":"general"}`, ActionJoinRoom},
		{"leave", `{"action":"leaveRoom","room":"general"}`, ActionLeaveRoom},
		{"start typing", `{"action":"startTyping","room":"general"}`, ActionStartTyping},
		{"stop typing", `{"action":"stopTyping","room":"general"}`, ActionStopTyping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Action)
			assert.Equal(t, "general", cmd.Room)
		})
	}
}

func TestParseCommand_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed JSON", `{"action":`},
		{"unknown action", `{"action":"shoutLoudly","room":"general"}`},
		{"missing action", `{"room":"general"}`},
		{"missing room", `{"action":"joinRoom"}`},
		{"empty frame", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand([]byte(tt.raw))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestNewEnvelope(t *testing.T) {
	data, err := NewEnvelope(EventTypingUpdate, "general", map[string]any{"users": []string{"alice"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"typingUpdate","room":"general","payload":{"users":["alice"]}}`, string(data))
}

func TestNewErrorEnvelope(t *testing.T) {
	data := NewErrorEnvelope("something broke")
	assert.JSONEq(t, `{"event":"error","payload":{"message":"something broke"}}`, string(data))
}
