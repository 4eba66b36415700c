package domain

// SessionState is the application-level view of the current session,
// supplied by an external collaborator (the frontend's state container or
// the gateway's own session endpoint). It is the first stop in role
// resolution and is never persisted by this subsystem.
type SessionState struct {
	IsAuthenticated bool
	Role            string
}

// SessionAccessor hands the resolver the current SessionState without
// coupling it to any particular state container.
type SessionAccessor interface {
	State() SessionState
}

// SessionStateFunc adapts a plain function to SessionAccessor.
type SessionStateFunc func() SessionState

func (f SessionStateFunc) State() SessionState {
	return f()
}

// ProfileSnapshot is the optional cached display data written alongside a
// regular-user credential at login time. Its presence alone counts as
// evidence of a regular-user identity.
type ProfileSnapshot struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
}
