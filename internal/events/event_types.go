package events

import (
	"time"

	"github.com/spec-kit/session-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventConflictDetected EventType = "conflict_detected"
	EventIdentityEvicted  EventType = "identity_evicted"
	EventSessionEnded     EventType = "session_ended"
)

// Event represents an identity-lifecycle event emitted by the auth
// subsystem for diagnostics. Events never influence resolution itself.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	DeviceID  string      `json:"device_id,omitempty"`
	Path      string      `json:"path"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ConflictDetectedPayload payload.
type ConflictDetectedPayload struct {
	Path string `json:"path"`
}

// IdentityEvictedPayload payload.
type IdentityEvictedPayload struct {
	Kind domain.IdentityKind `json:"kind"`
	Path string              `json:"path"`
}

// SessionEndedPayload payload.
type SessionEndedPayload struct {
	Path   string `json:"path"`
	Target string `json:"target"`
}
