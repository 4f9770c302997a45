package topicmgr

// Topic represents a strongly-typed topic identifier. Services publish and
// subscribe against Topic values rather than raw strings so that the full
// event surface of the coordination layer is enumerable at runtime.
type Topic interface {
	// Name returns the unique string identifier for this topic.
	Name() string

	// Module returns the module that owns this topic (empty for framework topics).
	Module() string

	// Description returns human-readable documentation.
	Description() string

	// Example returns a usage example, typically a sample payload.
	Example() string

	// Scope returns whether this is a framework or module topic.
	Scope() TopicScope
}

// TypedTopic is the concrete Topic implementation produced by
// DefineFramework and DefineModule.
type TypedTopic struct {
	name        string
	module      string
	description string
	example     string
	scope       TopicScope
}

var _ Topic = (*TypedTopic)(nil)

// TopicConfig holds configuration for creating a new topic.
type TopicConfig struct {
	Name        string     `json:"name"`
	Module      string     `json:"module"`
	Scope       TopicScope `json:"scope"`
	Description string     `json:"description"`
	Example     string     `json:"example"`
}

// TopicScope defines whether a topic belongs to framework or module level.
type TopicScope string

const (
	ScopeFramework TopicScope = "framework"
	ScopeModule    TopicScope = "module"
)

// TopicError represents structured errors in the topic management system.
type TopicError struct {
	Type    ErrorType `json:"type"`
	Topic   string    `json:"topic"`
	Module  string    `json:"module"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// ErrorType defines the type of topic management error.
type ErrorType string

const (
	ErrorTopicNotFound         ErrorType = "topic_not_found"
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
)

func (e *TopicError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TopicError) Unwrap() error {
	return e.Cause
}

func (t *TypedTopic) Name() string        { return t.name }
func (t *TypedTopic) Module() string      { return t.module }
func (t *TypedTopic) Description() string { return t.description }
func (t *TypedTopic) Example() string     { return t.example }
func (t *TypedTopic) Scope() TopicScope   { return t.scope }
