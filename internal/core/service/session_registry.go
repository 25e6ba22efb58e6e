package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/metrics"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

const sweepInterval = 5 * time.Minute

// SessionRegistry manages the in-memory set of browser sessions and the
// signed cookie that ties a browser to its session. Sessions live in memory
// only; a restart forgets them all and every browser falls back through the
// silent-refresh path.
type SessionRegistry struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	factory    ports.ClientFactory
	log        zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry builds a registry. ttl is the idle lifetime of a
// session; factory builds one upstream client per session.
func NewSessionRegistry(secret, cookieName string, ttl time.Duration, secure bool, factory ports.ClientFactory, log zerolog.Logger) *SessionRegistry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionRegistry{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		factory:    factory,
		log:        log,
		sessions:   make(map[string]*Session),
	}
}

// Create mints a new session in the Unknown state.
func (r *SessionRegistry) Create() *Session {
	sid := newSessionID()
	sess := NewSession(sid, r.factory, r.log)

	r.mu.Lock()
	r.sessions[sid] = sess
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	return sess
}

// Lookup returns the live session for sid. Expired sessions are evicted on
// touch and reported as such.
func (r *SessionRegistry) Lookup(sid string) (*Session, error) {
	r.mu.Lock()
	sess, ok := r.sessions[sid]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if time.Since(sess.IdleSince()) > r.ttl {
		r.Destroy(sid)
		return nil, domain.ErrSessionExpired
	}

	sess.Touch()
	return sess, nil
}

// Destroy removes a session from the registry.
func (r *SessionRegistry) Destroy(sid string) {
	r.mu.Lock()
	delete(r.sessions, sid)
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CookieName returns the configured session cookie name.
func (r *SessionRegistry) CookieName() string { return r.cookieName }

// IssueCookie signs a session cookie for sid.
func (r *SessionRegistry) IssueCookie(sid string) (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(r.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(r.ttl / time.Second),
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ExpiredCookie returns a cookie that clears the session cookie.
func (r *SessionRegistry) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     r.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ParseCookie validates a session cookie and returns the sid it names.
func (r *SessionRegistry) ParseCookie(value string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return r.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionNotFound
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}

// StartSweeper evicts idle sessions in the background until ctx is cancelled.
func (r *SessionRegistry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *SessionRegistry) sweep() {
	cutoff := time.Now().Add(-r.ttl)
	evicted := 0

	r.mu.Lock()
	for sid, sess := range r.sessions {
		if sess.IdleSince().Before(cutoff) {
			delete(r.sessions, sid)
			evicted++
		}
	}
	metrics.SessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if evicted > 0 {
		r.log.Debug().Int("evicted", evicted).Msg("idle sessions swept")
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
