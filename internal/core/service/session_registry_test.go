package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

func newTestRegistry(t *testing.T, secret string, ttl time.Duration) *SessionRegistry {
	t.Helper()
	factory := func(_ ports.SessionBinding) ports.RegistryClient {
		return &stubRegistryClient{t: t}
	}
	return NewSessionRegistry(secret, "cml_session", ttl, false, factory, zerolog.Nop())
}

func TestSessionRegistry_CookieRoundtrip(t *testing.T) {
	reg := newTestRegistry(t, "test-secret", time.Hour)
	sess := reg.Create()

	cookie, err := reg.IssueCookie(sess.ID())
	if err != nil {
		t.Fatalf("IssueCookie returned error: %v", err)
	}
	if cookie.Name != "cml_session" {
		t.Fatalf("unexpected cookie name %q", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	sid, err := reg.ParseCookie(cookie.Value)
	if err != nil {
		t.Fatalf("ParseCookie returned error: %v", err)
	}
	if sid != sess.ID() {
		t.Fatalf("expected sid %q, got %q", sess.ID(), sid)
	}

	got, err := reg.Lookup(sid)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if got != sess {
		t.Fatalf("Lookup returned a different session")
	}
}

func TestSessionRegistry_RejectsTamperedCookie(t *testing.T) {
	reg := newTestRegistry(t, "test-secret", time.Hour)
	other := newTestRegistry(t, "other-secret", time.Hour)
	sess := reg.Create()

	forged, err := other.IssueCookie(sess.ID())
	if err != nil {
		t.Fatalf("IssueCookie returned error: %v", err)
	}
	if _, err := reg.ParseCookie(forged.Value); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for forged cookie, got %v", err)
	}

	if _, err := reg.ParseCookie("not-a-jwt"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for garbage cookie, got %v", err)
	}
}

func TestSessionRegistry_LookupUnknownSession(t *testing.T) {
	reg := newTestRegistry(t, "test-secret", time.Hour)
	if _, err := reg.Lookup("no-such-sid"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRegistry_EvictsIdleSession(t *testing.T) {
	reg := newTestRegistry(t, "test-secret", 10*time.Millisecond)
	sess := reg.Create()

	time.Sleep(25 * time.Millisecond)

	if _, err := reg.Lookup(sess.ID()); err != domain.ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if reg.Count() != 0 {
		t.Fatalf("expired session must be evicted, count=%d", reg.Count())
	}
}

func TestSessionRegistry_DestroyAndCount(t *testing.T) {
	reg := newTestRegistry(t, "test-secret", time.Hour)
	a := reg.Create()
	b := reg.Create()
	if reg.Count() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", reg.Count())
	}

	reg.Destroy(a.ID())
	if reg.Count() != 1 {
		t.Fatalf("expected 1 live session, got %d", reg.Count())
	}
	if _, err := reg.Lookup(a.ID()); err != domain.ErrSessionNotFound {
		t.Fatalf("destroyed session must not resolve, got %v", err)
	}
	if _, err := reg.Lookup(b.ID()); err != nil {
		t.Fatalf("remaining session must resolve, got %v", err)
	}
}
