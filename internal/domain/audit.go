package domain

import "time"

// AuthEvent is a persisted diagnostics record of an identity-lifecycle
// event: a detected conflict, an eviction, or a session teardown.
type AuthEvent struct {
	ID        string
	Type      string
	DeviceID  string
	Path      string
	Detail    map[string]any
	CreatedAt time.Time
}
