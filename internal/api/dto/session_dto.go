package dto

import "github.com/spec-kit/session-gateway/internal/domain"

// LoginRequest is the credential payload forwarded upstream verbatim.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the UI bootstrap view of the current session.
type SessionResponse struct {
	Authenticated bool                    `json:"authenticated"`
	Role          string                  `json:"role,omitempty"`
	Profile       *domain.ProfileSnapshot `json:"profile,omitempty"`
}
