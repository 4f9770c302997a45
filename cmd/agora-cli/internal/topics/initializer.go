// Package topics wires the registered pub/sub topics into the CLI commands.
package topics

import (
	"io"
	"log"
	"log/slog"

	chattopics "github.com/nfrund/agora/internal/modules/chat/topics"
	"github.com/nfrund/agora/internal/presence"
	"github.com/nfrund/agora/internal/typing"
	"github.com/nfrund/agora/internal/websocket"
)

// Initialize registers every topic in the application with the default
// topic manager so the CLI can list and inspect them without booting the
// server. Logging is silenced to keep the CLI output clean.
func Initialize() {
	log.SetOutput(io.Discard)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	registrations := []func() error{
		presence.RegisterTopics,
		typing.RegisterTopics,
		websocket.RegisterTopics,
		chattopics.Register,
	}
	for _, register := range registrations {
		// Registration only fails on malformed names, which would be a
		// programming error surfaced by the topicmgr tests.
		_ = register()
	}
}
