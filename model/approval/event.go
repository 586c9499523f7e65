package approval

import "time"

// Event topics.
const (
	TopicRequestCreated   = "request.created"
	TopicRequestCompleted = "request.completed"
	TopicRequestFailed    = "request.failed"
	TopicRequestDeleted   = "request.deleted"
)

// Event is published on the approval queue whenever a request changes.
type Event struct {
	Topic     string            `json:"topic"`
	RequestID string            `json:"requestId"`
	Request   *Request          `json:"request,omitempty"`
	ActorID   string            `json:"actorId,omitempty"`
	Error     string            `json:"error,omitempty"`
	At        time.Time         `json:"at"`
	Headers   map[string]string `json:"headers,omitempty"`
}
