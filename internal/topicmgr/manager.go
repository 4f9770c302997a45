package topicmgr

import (
	"strings"
	"sync"
)

// Manager provides the main API for topic management with framework/module
// scoping. Most callers use the process-wide Default() manager, since topics
// are defined at package init time.
type Manager struct {
	registry *Registry
}

// NewManager creates a new topic manager.
func NewManager() *Manager {
	return &Manager{registry: NewRegistry()}
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// Default returns the process-wide topic manager.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// DefineFramework creates a new typed topic for framework services.
func DefineFramework(config TopicConfig) Topic {
	return &TypedTopic{
		name:        config.Name,
		description: config.Description,
		example:     config.Example,
		scope:       ScopeFramework,
	}
}

// DefineModule creates a new typed topic for modules. When Module is left
// empty it is derived from the first segment of the topic name.
func DefineModule(config TopicConfig) Topic {
	module := config.Module
	if module == "" {
		if idx := strings.IndexByte(config.Name, '.'); idx > 0 {
			module = config.Name[:idx]
		}
	}

	return &TypedTopic{
		name:        config.Name,
		module:      module,
		description: config.Description,
		example:     config.Example,
		scope:       ScopeModule,
	}
}

// Register adds a topic to the central registry.
func (m *Manager) Register(topic Topic) error {
	return m.registry.Register(topic)
}

// MustRegister registers a topic and panics on error. Intended for
// package-level topic definitions where a failure is a programming error.
func (m *Manager) MustRegister(topic Topic) {
	if err := m.Register(topic); err != nil {
		panic("topicmgr: " + err.Error())
	}
}

// Get retrieves a topic by name.
func (m *Manager) Get(name string) (Topic, bool) {
	return m.registry.Get(name)
}

// List returns all registered topics.
func (m *Manager) List() []Topic {
	return m.registry.List()
}

// ListByModule returns topics owned by a specific module.
func (m *Manager) ListByModule(module string) []Topic {
	return m.registry.ListByModule(module)
}

// Count returns the number of registered topics.
func (m *Manager) Count() int {
	return m.registry.Count()
}
