package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/metrics"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// Session is the authoritative holder of one browser session's
// authentication state. It owns the registry client bound to that browser
// (token plus upstream cookie jar) and is the only code that mutates the
// state fields. Views and handlers read through its accessors.
//
// State machine: Unknown → {Authenticated, Unauthenticated} via the one-shot
// startup refresh; Authenticated ⇄ Unauthenticated via login, logout, and
// refresh failure. Unknown is never re-entered.
type Session struct {
	id     string
	client ports.RegistryClient
	log    zerolog.Logger

	// refreshMu serializes upstream refresh calls so concurrent 401s
	// coalesce; mu guards the state fields and stays cheap to take.
	refreshMu sync.Mutex
	mu        sync.RWMutex

	state      domain.SessionState
	member     *domain.Member
	token      string
	generation uint64
	lastSeen   time.Time
}

// NewSession creates a session in the Unknown state and binds a fresh
// registry client to it.
func NewSession(id string, factory ports.ClientFactory, log zerolog.Logger) *Session {
	s := &Session{
		id:       id,
		log:      log.With().Str("session_id", id).Logger(),
		state:    domain.StateUnknown,
		lastSeen: time.Now().UTC(),
	}
	s.client = factory(s)
	return s
}

// ID returns the opaque session identifier carried by the browser cookie.
func (s *Session) ID() string { return s.id }

// Client returns the registry client bound to this session.
func (s *Session) Client() ports.RegistryClient { return s.client }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether a non-expired token is believed held.
func (s *Session) Authenticated() bool {
	return s.State() == domain.StateAuthenticated
}

// Loading reports whether the startup silent refresh has not resolved yet.
func (s *Session) Loading() bool {
	return !s.State().Resolved()
}

// Member returns the authenticated identity, or nil.
func (s *Session) Member() *domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member
}

// Role returns the authenticated member's role; absence means no role.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.member == nil {
		return ""
	}
	return s.member.Role
}

// AccessToken is the synchronous token read used by the registry client when
// composing outbound requests.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// TokenGeneration advances whenever the token is replaced or cleared.
func (s *Session) TokenGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Touch marks the session as recently used for idle-expiry accounting.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now().UTC()
	s.mu.Unlock()
}

// IdleSince returns the last time the session was used.
func (s *Session) IdleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Login exchanges credentials for a token. On failure no state is mutated
// and the upstream error surfaces to the caller for display.
func (s *Session) Login(ctx context.Context, identifier, password string) error {
	res, err := s.client.Login(ctx, identifier, password)
	if err != nil {
		return err
	}
	s.setAuthenticated(res)
	s.log.Info().Str("role", s.Role()).Msg("session authenticated")
	return nil
}

// Logout revokes the upstream session best-effort and always resets local
// state to the unauthenticated default.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("upstream logout failed, clearing local state anyway")
	}
	s.clear()
}

// Refresh exchanges the upstream refresh cookie for a new token. Failure is
// swallowed: the session resolves to a clean unauthenticated state and
// callers inspect State(), not an error.
func (s *Session) Refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	_ = s.refreshLocked(ctx)
}

// Resolve performs the one-shot transition out of Unknown via a silent
// refresh. A no-op once the session has resolved.
func (s *Session) Resolve(ctx context.Context) {
	if s.State() != domain.StateUnknown {
		return
	}
	s.Refresh(ctx)
}

// Reauthorize is the registry client's 401 hook. seenGeneration is the token
// generation observed when the failed request was dispatched; if the token
// already moved past it, another caller's refresh (or a login) supplied a
// fresh token and no upstream call is made. A non-nil error means the
// session is unauthenticated and the original failure must propagate.
func (s *Session) Reauthorize(ctx context.Context, seenGeneration uint64) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.TokenGeneration() != seenGeneration {
		if s.Authenticated() {
			return nil
		}
		return domain.ErrNotAuthenticated
	}
	return s.refreshLocked(ctx)
}

// refreshLocked runs one upstream refresh. Callers hold refreshMu.
func (s *Session) refreshLocked(ctx context.Context) error {
	res, err := s.client.RefreshSession(ctx)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
		s.log.Debug().Err(err).Msg("token refresh failed")
		s.clear()
		return domain.ErrNotAuthenticated
	}
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	s.setAuthenticated(res)
	return nil
}

func (s *Session) setAuthenticated(res *ports.AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateAuthenticated
	s.member = res.Member
	s.token = res.AccessToken
	s.generation++
	s.lastSeen = time.Now().UTC()
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StateUnauthenticated
	s.member = nil
	s.token = ""
	s.generation++
}

// Snapshot is the session view served to the browser on GET /auth/session.
type Snapshot struct {
	Authenticated bool           `json:"authenticated"`
	Loading       bool           `json:"loading"`
	Member        *domain.Member `json:"member,omitempty"`
}

// Snapshot returns a consistent read of the session for the browser.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Authenticated: s.state == domain.StateAuthenticated,
		Loading:       s.state == domain.StateUnknown,
		Member:        s.member,
	}
}
