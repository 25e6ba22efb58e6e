package domain

// SessionState is the lifecycle state of a browser session.
type SessionState string

const (
	// StateUnknown is the one-shot initial state: the session exists but the
	// silent refresh against the registry has not resolved yet. A session
	// never returns to this state once it has left it.
	StateUnknown SessionState = "unknown"

	StateAuthenticated   SessionState = "authenticated"
	StateUnauthenticated SessionState = "unauthenticated"
)

// validSessionTransitions defines the allowed state machine transitions.
var validSessionTransitions = map[SessionState][]SessionState{
	StateUnknown:         {StateAuthenticated, StateUnauthenticated},
	StateAuthenticated:   {StateAuthenticated, StateUnauthenticated},
	StateUnauthenticated: {StateAuthenticated, StateUnauthenticated},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Resolved reports whether the startup silent refresh has completed, i.e.
// the SPA's "loading" flag has gone false for good.
func (s SessionState) Resolved() bool {
	return s != StateUnknown
}
